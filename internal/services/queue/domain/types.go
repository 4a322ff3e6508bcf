// Package domain defines the types and interfaces for the contact queue
package domain

import "time"

// Row is a queued contact as the delivery path reads it
type Row struct {
	ID              string
	ClientContactID string
	LocationID      string
	FirstName       string
	LastName        string
	FullName        string
	Email1          string
	E164Phone       string
	WirelessChoice  string
	AddressStreet   string
	AddressCity     string
	AddressState    string
	AddressPostal   string
	Country         string
	Zip             string
	Uploaded        bool
	Status          string
	CreatedAt       time.Time
}

// InsertRow is a full contact row as CSV ingest writes it
type InsertRow struct {
	ClientContactID string
	LocationID      string
	Zip             string
	FirstName       string
	LastName        string
	FullName        string
	Email1          string
	Email2          string
	Email3          string
	Phone1          string
	Phone1Type      string
	Phone2          string
	Phone2Type      string
	Phone3          string
	Phone3Type      string
	WirelessChoice  string
	E164Phone       string
	PropertyAddress string
	AddressStreet   string
	AddressCity     string
	AddressState    string
	AddressPostal   string
	Country         string
	Source          string
	Status          string
	OldTag3         string
	RawData         []byte // original CSV record as json
}

// ExistingRow is the projection used for duplicate checks at ingest time
type ExistingRow struct {
	AddressPostal   string
	E164Phone       string
	PropertyAddress string
}

// BatchError records one failed insert batch
type BatchError struct {
	BatchStart int    `json:"batchStart"`
	Message    string `json:"message"`
}

// InsertOutcome summarizes a batched insert
type InsertOutcome struct {
	Inserted int
	Failed   int
	Errors   []BatchError
}
