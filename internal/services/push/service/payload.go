package service

import (
	"strings"

	dom "leadpush/internal/services/push/domain"
	queuedom "leadpush/internal/services/queue/domain"
)

// ToE164US normalizes a US phone into E.164.
// 11 digits starting with 1 or a bare 10 digit number are accepted; an input
// already carrying + passes through untouched; anything else yields ""
func ToE164US(phone string) string {
	if phone == "" {
		return ""
	}
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) == 11 && strings.HasPrefix(d, "1") {
		return "+" + d
	}
	if len(d) == 10 {
		return "+1" + d
	}
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return ""
}

// BuildPayload maps a queue row to the outbound contact shape.
// At most one tag is ever attached
func BuildPayload(row queuedom.Row, tag string) dom.ContactPayload {
	firstName := row.FirstName

	lastName := row.LastName
	if lastName == "" && row.FullName != "" && firstName == "" {
		if parts := strings.Fields(row.FullName); len(parts) > 1 {
			lastName = strings.Join(parts[1:], " ")
		}
	}

	name := row.FullName
	if name == "" {
		name = strings.TrimSpace(row.FirstName + " " + row.LastName)
	}

	phone := row.E164Phone
	if phone == "" {
		phone = ToE164US(row.WirelessChoice)
	}

	postal := row.AddressPostal
	if postal == "" {
		postal = row.Zip
	}

	country := row.Country
	if country == "" {
		country = "US"
	}

	p := dom.ContactPayload{
		LocationID: row.LocationID,
		FirstName:  firstName,
		LastName:   lastName,
		Name:       name,
		Phone:      phone,
		Email:      row.Email1,
		Address1:   row.AddressStreet,
		City:       row.AddressCity,
		State:      row.AddressState,
		PostalCode: postal,
		Country:    country,
		Source:     row.ClientContactID,
	}

	if t := strings.TrimSpace(tag); t != "" {
		p.Tags = []string{t}
	}
	return p
}
