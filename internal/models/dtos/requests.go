package dtos

// CreatePropertyRequest registers a property with the engine.
type CreatePropertyRequest struct {
	Name      string  `json:"name"`
	BasePrice float64 `json:"basePrice"`
	Currency  string  `json:"currency"`
}

// CreateIntegrationRequest connects a property to a channel platform.
type CreateIntegrationRequest struct {
	PropertyID    string `json:"propertyId"`
	Platform      string `json:"platform"`
	CredentialRef string `json:"credentialRef"`
}

// UpdateIntegrationRequest toggles or re-credentials an integration.
// Nil fields are left unchanged.
type UpdateIntegrationRequest struct {
	IsActive      *bool   `json:"isActive,omitempty"`
	CredentialRef *string `json:"credentialRef,omitempty"`
}

// PricingRuleRequest creates or replaces a pricing rule.
type PricingRuleRequest struct {
	Priority        int     `json:"priority"`
	MatcherType     string  `json:"matcherType"`
	StartDate       string  `json:"startDate,omitempty"`
	EndDate         string  `json:"endDate,omitempty"`
	DaysOfWeek      string  `json:"daysOfWeek,omitempty"`
	AdjustmentType  string  `json:"adjustmentType"`
	AdjustmentValue float64 `json:"adjustmentValue"`
	IsActive        *bool   `json:"isActive,omitempty"`
}

// DateRangeRequest covers block/unblock operations. Dates are
// YYYY-MM-DD; End is inclusive.
type DateRangeRequest struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Reason string `json:"reason,omitempty"`
}

// SetPriceRequest sets one day's price directly.
type SetPriceRequest struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// ImportBookingRequest hands a channel-reported booking to the importer.
type ImportBookingRequest struct {
	PropertyID        string  `json:"propertyId"`
	Platform          string  `json:"platform"`
	ExternalBookingID string  `json:"externalBookingId"`
	CheckInDate       string  `json:"checkInDate"`
	CheckOutDate      string  `json:"checkOutDate"`
	GuestRef          string  `json:"guestRef,omitempty"`
	TotalAmount       float64 `json:"totalAmount,omitempty"`
}
