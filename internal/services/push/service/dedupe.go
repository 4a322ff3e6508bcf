package service

import (
	"strings"

	queuedom "leadpush/internal/services/queue/domain"
)

// DedupeKey identifies a row within one chunk run.
// Preference order: phone, then email, then street+name, always scoped to the
// target location so two locations never collide
func DedupeKey(row queuedom.Row) string {
	phone := row.E164Phone
	if phone == "" {
		phone = ToE164US(row.WirelessChoice)
	}
	if phone != "" {
		return "loc:" + row.LocationID + "|phone:" + phone
	}

	email := strings.ToLower(strings.TrimSpace(row.Email1))
	if email != "" {
		return "loc:" + row.LocationID + "|email:" + email
	}

	street := strings.ToLower(strings.TrimSpace(row.AddressStreet))
	name := row.FullName
	if name == "" {
		name = row.FirstName + " " + row.LastName
	}
	name = strings.ToLower(strings.TrimSpace(name))
	return "loc:" + row.LocationID + "|street:" + street + "|name:" + name
}
