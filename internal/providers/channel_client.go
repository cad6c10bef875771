package providers

import (
	"context"
)

// ChannelClient is the capability set the orchestrator needs from one
// external booking platform. Implementations are opaque network calls
// with their own failure and timeout semantics; the orchestrator treats
// any error as a ChannelError and never retries on its own.
type ChannelClient interface {
	// FetchCalendar returns the channel's reported availability and
	// prices for a property.
	FetchCalendar(ctx context.Context, propertyID string) ([]ChannelCalendarDay, error)

	// PushCalendar uploads locally computed availability/prices to the
	// channel.
	PushCalendar(ctx context.Context, propertyID string, days []ChannelCalendarDay) error

	// FetchBookings returns the bookings the channel holds for a
	// property.
	FetchBookings(ctx context.Context, propertyID string) ([]ChannelBooking, error)

	// Platform returns the platform identifier this client talks to.
	Platform() string
}

// ChannelCalendarDay is one day of channel-reported calendar state.
// Date is YYYY-MM-DD.
type ChannelCalendarDay struct {
	Date        string   `json:"date"`
	IsAvailable bool     `json:"is_available"`
	Price       *float64 `json:"price,omitempty"`
}

// ChannelBooking is one booking as reported by a channel.
type ChannelBooking struct {
	ExternalBookingID string  `json:"booking_id"`
	CheckInDate       string  `json:"check_in"`
	CheckOutDate      string  `json:"check_out"`
	GuestRef          string  `json:"guest_ref"`
	TotalAmount       float64 `json:"total_amount"`
	Status            string  `json:"status"`
}

// ClientRegistry maps platform identifiers to their clients. The
// orchestrator resolves an integration's platform here, and tests
// register fakes.
type ClientRegistry struct {
	clients map[string]ChannelClient
}

func NewClientRegistry() *ClientRegistry {
	return &ClientRegistry{clients: make(map[string]ChannelClient)}
}

// Register adds or replaces the client for its platform.
func (r *ClientRegistry) Register(client ChannelClient) {
	r.clients[client.Platform()] = client
}

// Get returns the client for a platform, or (nil, false) when no
// client is registered.
func (r *ClientRegistry) Get(platform string) (ChannelClient, bool) {
	c, ok := r.clients[platform]
	return c, ok
}
