package domain

import "context"

// ContactsPort lists distinct client contacts
type ContactsPort interface {
	List(ctx context.Context) ([]Contact, error)
}

// PulledZipsPort records which zips were pulled per contact and location
type PulledZipsPort interface {
	// Record adds one zip unless it already exists
	Record(ctx context.Context, clientContactID, locationID, zip string) (created bool, err error)

	// EnsureAll adds the missing zips from the list and reports how many were created
	EnsureAll(ctx context.Context, clientContactID, locationID string, zips []string) (created int, err error)

	// Zips returns the zips already pulled for a contact at a location, sorted
	Zips(ctx context.Context, clientContactID, locationID string) ([]string, error)
}
