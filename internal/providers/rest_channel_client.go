package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"staylink/channelsync/internal/constants"
)

// RESTChannelClient implements ChannelClient against a platform's REST
// connectivity API. Base URL and API key come from
// CHANNEL_<PLATFORM>_URL / CHANNEL_<PLATFORM>_KEY.
type RESTChannelClient struct {
	platform string
	BaseURL  string
	APIKey   string
	Client   *http.Client
}

// Ensure RESTChannelClient implements ChannelClient
var _ ChannelClient = (*RESTChannelClient)(nil)

// NewRESTChannelClient builds the client for one platform from the
// environment.
func NewRESTChannelClient(platform string) *RESTChannelClient {
	envKey := strings.ToUpper(platform)
	baseURL := os.Getenv("CHANNEL_" + envKey + "_URL")
	apiKey := os.Getenv("CHANNEL_" + envKey + "_KEY")

	return &RESTChannelClient{
		platform: platform,
		BaseURL:  baseURL,
		APIKey:   apiKey,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Platform returns the platform identifier this client talks to
func (c *RESTChannelClient) Platform() string {
	return c.platform
}

type channelCalendarResponse struct {
	Days []ChannelCalendarDay `json:"days"`
}

type channelBookingsResponse struct {
	Bookings []ChannelBooking `json:"bookings"`
}

// FetchCalendar fetches the channel's reported calendar for a property
func (c *RESTChannelClient) FetchCalendar(ctx context.Context, propertyID string) ([]ChannelCalendarDay, error) {
	var resp channelCalendarResponse
	endpoint := fmt.Sprintf("/properties/%s/calendar", propertyID)
	if err := c.doGET(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Days, nil
}

// PushCalendar uploads availability and prices to the channel
func (c *RESTChannelClient) PushCalendar(ctx context.Context, propertyID string, days []ChannelCalendarDay) error {
	endpoint := fmt.Sprintf("/properties/%s/calendar", propertyID)
	payload := channelCalendarResponse{Days: days}
	return c.doPOST(ctx, endpoint, payload, nil)
}

// FetchBookings fetches the channel's bookings for a property
func (c *RESTChannelClient) FetchBookings(ctx context.Context, propertyID string) ([]ChannelBooking, error) {
	var resp channelBookingsResponse
	endpoint := fmt.Sprintf("/properties/%s/bookings", propertyID)
	if err := c.doGET(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Bookings, nil
}

// doGET performs a GET request with authentication
func (c *RESTChannelClient) doGET(ctx context.Context, endpoint string, result interface{}) error {
	if c.BaseURL == "" {
		return &constants.ChannelError{
			Platform: c.platform,
			Op:       "GET " + endpoint,
			Err:      fmt.Errorf("no base URL configured for platform %s", c.platform),
		}
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+endpoint, nil)
	if err != nil {
		return &constants.ChannelError{Platform: c.platform, Op: "GET " + endpoint, Err: err}
	}
	c.setHeaders(req)

	resp, err := c.Client.Do(req)
	if err != nil {
		return &constants.ChannelError{Platform: c.platform, Op: "GET " + endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &constants.ChannelError{Platform: c.platform, Op: "GET " + endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &constants.ChannelError{
			Platform: c.platform,
			Op:       "GET " + endpoint,
			Err:      fmt.Errorf("failed to decode response: %w", err),
		}
	}

	return nil
}

// doPOST performs a POST request with authentication and JSON body
func (c *RESTChannelClient) doPOST(ctx context.Context, endpoint string, payload interface{}, result interface{}) error {
	if c.BaseURL == "" {
		return &constants.ChannelError{
			Platform: c.platform,
			Op:       "POST " + endpoint,
			Err:      fmt.Errorf("no base URL configured for platform %s", c.platform),
		}
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return &constants.ChannelError{Platform: c.platform, Op: "POST " + endpoint, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+endpoint, bytes.NewReader(payloadBytes))
	if err != nil {
		return &constants.ChannelError{Platform: c.platform, Op: "POST " + endpoint, Err: err}
	}
	c.setHeaders(req)

	resp, err := c.Client.Do(req)
	if err != nil {
		return &constants.ChannelError{Platform: c.platform, Op: "POST " + endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain the body so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return &constants.ChannelError{Platform: c.platform, Op: "POST " + endpoint, StatusCode: resp.StatusCode}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return &constants.ChannelError{
				Platform: c.platform,
				Op:       "POST " + endpoint,
				Err:      fmt.Errorf("failed to decode response: %w", err),
			}
		}
	}

	return nil
}

func (c *RESTChannelClient) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
}
