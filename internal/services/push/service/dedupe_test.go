package service

import (
	"testing"

	queuedom "leadpush/internal/services/queue/domain"
)

func TestDedupeKeyPrecedence(t *testing.T) {
	tests := []struct {
		name string
		row  queuedom.Row
		want string
	}{
		{
			name: "phone wins",
			row: queuedom.Row{
				LocationID:    "loc1",
				E164Phone:     "+15551234567",
				Email1:        "a@b.com",
				AddressStreet: "123 Main St",
			},
			want: "loc:loc1|phone:+15551234567",
		},
		{
			name: "wireless choice normalized when e164 missing",
			row: queuedom.Row{
				LocationID:     "loc1",
				WirelessChoice: "(555) 123-4567",
			},
			want: "loc:loc1|phone:+15551234567",
		},
		{
			name: "email next",
			row: queuedom.Row{
				LocationID:    "loc1",
				Email1:        "  A@B.Com ",
				AddressStreet: "123 Main St",
			},
			want: "loc:loc1|email:a@b.com",
		},
		{
			name: "street plus name last",
			row: queuedom.Row{
				LocationID:    "loc1",
				AddressStreet: " 123 Main St ",
				FullName:      "Jane Doe",
			},
			want: "loc:loc1|street:123 main st|name:jane doe",
		},
		{
			name: "name falls back to first and last",
			row: queuedom.Row{
				LocationID:    "loc2",
				AddressStreet: "5 Oak Ave",
				FirstName:     "Jane",
				LastName:      "Doe",
			},
			want: "loc:loc2|street:5 oak ave|name:jane doe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DedupeKey(tt.row); got != tt.want {
				t.Fatalf("DedupeKey = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDedupeKeyScopedToLocation(t *testing.T) {
	a := queuedom.Row{LocationID: "loc1", E164Phone: "+15551234567"}
	b := queuedom.Row{LocationID: "loc2", E164Phone: "+15551234567"}
	if DedupeKey(a) == DedupeKey(b) {
		t.Fatal("same phone at different locations must not collide")
	}
}
