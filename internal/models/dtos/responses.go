package dtos

import (
	gormModels "staylink/channelsync/internal/models/gorm"
)

// BlockResult reports which days a block operation touched. Days owned
// by a booking are never overwritten; they come back in SkippedOwned.
type BlockResult struct {
	Blocked      []string `json:"blocked"`
	SkippedOwned []string `json:"skippedOwned"`
}

// ClaimResult is the outcome of an atomic date-range claim. A failed
// claim lists every conflicting date and guarantees no partial
// ownership was written.
type ClaimResult struct {
	OK        bool     `json:"ok"`
	Conflicts []string `json:"conflicts,omitempty"`
}

// ImportResult pairs the stored booking with its claim outcome.
type ImportResult struct {
	Booking *gormModels.PlatformBooking `json:"booking"`
	Claim   ClaimResult                 `json:"claim"`
}

// SyncResult summarizes one sync operation for API callers; the
// authoritative record is the appended SyncLog row.
type SyncResult struct {
	SyncType         string `json:"syncType"`
	Status           string `json:"status"`
	RecordsProcessed int    `json:"recordsProcessed"`
	RecordsFailed    int    `json:"recordsFailed"`
	Message          string `json:"message,omitempty"`
}

// QuoteResponse is a calculated price for one date.
type QuoteResponse struct {
	PropertyID string  `json:"propertyId"`
	Date       string  `json:"date"`
	BasePrice  float64 `json:"basePrice"`
	Price      float64 `json:"price"`
	RulesMatched int   `json:"rulesMatched"`
}
