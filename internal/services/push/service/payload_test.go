package service

import (
	"encoding/json"
	"strings"
	"testing"

	queuedom "leadpush/internal/services/queue/domain"
)

func TestToE164US(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"5551234567", "+15551234567"},
		{"(555) 123-4567", "+15551234567"},
		{"15551234567", "+15551234567"},
		{"1-555-123-4567", "+15551234567"},
		{"+445551234567", "+445551234567"},
		{"123", ""},
		{"25551234567", ""},
	}
	for _, tt := range tests {
		if got := ToE164US(tt.in); got != tt.want {
			t.Fatalf("ToE164US(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildPayloadFallbacks(t *testing.T) {
	row := queuedom.Row{
		ID:              "r1",
		ClientContactID: "cc1",
		LocationID:      "loc1",
		FullName:        "Jane Q Doe",
		WirelessChoice:  "(555) 123-4567",
		Zip:             "62704",
	}

	p := BuildPayload(row, "")
	if p.LastName != "Q Doe" {
		t.Fatalf("LastName = %q, want split from full name", p.LastName)
	}
	if p.Name != "Jane Q Doe" {
		t.Fatalf("Name = %q", p.Name)
	}
	if p.Phone != "+15551234567" {
		t.Fatalf("Phone = %q, want normalized wireless choice", p.Phone)
	}
	if p.PostalCode != "62704" {
		t.Fatalf("PostalCode = %q, want zip fallback", p.PostalCode)
	}
	if p.Country != "US" {
		t.Fatalf("Country = %q, want US default", p.Country)
	}
	if p.Source != "cc1" {
		t.Fatalf("Source = %q, want client contact id", p.Source)
	}
	if p.Tags != nil {
		t.Fatalf("Tags = %v, want none for blank tag", p.Tags)
	}
}

func TestBuildPayloadKeepsExplicitFields(t *testing.T) {
	row := queuedom.Row{
		ID:            "r1",
		LocationID:    "loc1",
		FirstName:     "Jane",
		LastName:      "Doe",
		E164Phone:     "+15550001111",
		AddressPostal: "90210",
		Country:       "CA",
	}

	p := BuildPayload(row, "  spring-list  ")
	if p.Name != "Jane Doe" {
		t.Fatalf("Name = %q, want joined first and last", p.Name)
	}
	if p.Phone != "+15550001111" {
		t.Fatalf("Phone = %q, want stored e164 to win", p.Phone)
	}
	if p.PostalCode != "90210" || p.Country != "CA" {
		t.Fatalf("PostalCode/Country = %q/%q", p.PostalCode, p.Country)
	}
	if len(p.Tags) != 1 || p.Tags[0] != "spring-list" {
		t.Fatalf("Tags = %v, want one trimmed tag", p.Tags)
	}
}

func TestBuildPayloadNoLastNameSplitWhenFirstNameSet(t *testing.T) {
	row := queuedom.Row{
		LocationID: "loc1",
		FirstName:  "Jane",
		FullName:   "Jane Doe",
	}
	if p := BuildPayload(row, ""); p.LastName != "" {
		t.Fatalf("LastName = %q, want no split when first name is present", p.LastName)
	}
}

func TestContactPayloadOmitsBlanks(t *testing.T) {
	p := BuildPayload(queuedom.Row{LocationID: "loc1", Country: "US"}, "")
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	if !strings.Contains(s, `"locationId":"loc1"`) {
		t.Fatalf("payload %s missing locationId", s)
	}
	for _, key := range []string{"firstName", "lastName", "phone", "email", "tags", "address1"} {
		if strings.Contains(s, key) {
			t.Fatalf("payload %s should omit blank %s", s, key)
		}
	}
}
