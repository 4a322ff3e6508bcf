// Package domain defines the types and interfaces for batch contact delivery
package domain

import "time"

// ChunkParams controls a single chunk run
type ChunkParams struct {
	Zip           string
	Amount        int
	Tag           string
	WindowSeconds int
	Concurrency   int
}

// RowError records one failed row for client-side visibility
type RowError struct {
	ID     string `json:"id"`
	Status int    `json:"status"`
	Text   string `json:"text"`
}

// ChunkResult summarizes a chunk run
type ChunkResult struct {
	Zip                string         `json:"zip"`
	Attempted          int            `json:"attempted"`
	Succeeded          int            `json:"succeeded"`
	Failed             int            `json:"failed"`
	DedupeSkipped      int            `json:"dedupeSkipped"`
	Errors             []RowError     `json:"errors"`
	ErrorsSample       []RowError     `json:"errorsSample"`
	ErrorsByStatus     map[string]int `json:"errorsByStatus"`
	RateLimitBackoffMs int64          `json:"rate_limit_backoff_ms"`
	DurationMs         int64          `json:"duration_ms"`
	RateLimitRPS       int            `json:"rate_limit_rps"`
	CallCap            int            `json:"call_cap"`
}

// ContactPayload is the outbound CRM contact shape. Blank optional fields are omitted on the wire
type ContactPayload struct {
	LocationID string   `json:"locationId"`
	FirstName  string   `json:"firstName,omitempty"`
	LastName   string   `json:"lastName,omitempty"`
	Name       string   `json:"name,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Email      string   `json:"email,omitempty"`
	Address1   string   `json:"address1,omitempty"`
	City       string   `json:"city,omitempty"`
	State      string   `json:"state,omitempty"`
	PostalCode string   `json:"postalCode,omitempty"`
	Country    string   `json:"country,omitempty"`
	Source     string   `json:"source,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// SendResult is the outcome of one delivery attempt chain
type SendResult struct {
	OK         bool
	Status     int
	Body       string
	RetryAfter time.Duration
}
