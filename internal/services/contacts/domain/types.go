// Package domain defines the types and interfaces for client contacts
package domain

// Contact is a client contact option as the picker shows it
type Contact struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}
