package service

import (
	"strings"
	"testing"
)

func TestReadRecordsBackfillsExpectedColumns(t *testing.T) {
	csv := strings.Join([]string{
		"firstName,lastName,propertyAddress,phone1,phone1_type",
		" jane , doe ,\"123 Main St, Springfield, IL 62704\",5551234567,W",
		",,,,",
	}, "\n")

	recs, err := ReadRecords(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want blank row dropped", len(recs))
	}

	rec := recs[0]
	if rec["firstName"] != "jane" || rec["lastName"] != "doe" {
		t.Fatalf("cells not trimmed: %q %q", rec["firstName"], rec["lastName"])
	}
	for _, key := range []string{"phone2", "phone2_type", "phone10", "phone10_type", "email1", "email3"} {
		if _, ok := rec[key]; !ok {
			t.Fatalf("missing backfilled column %q", key)
		}
	}
}

func TestReadRecordsToleratesRaggedRows(t *testing.T) {
	csv := "firstName,lastName,phone1\njane"
	recs, err := ReadRecords(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0]["firstName"] != "jane" {
		t.Fatalf("recs = %v", recs)
	}
	if recs[0]["lastName"] != "" {
		t.Fatalf("lastName = %q, want backfilled empty", recs[0]["lastName"])
	}
}

func TestReadRecordsEmptyInput(t *testing.T) {
	recs, err := ReadRecords(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Fatalf("recs = %v, want none", recs)
	}
}

func TestChooseWireless(t *testing.T) {
	rec := Record{
		"phone1": "5550001111", "phone1_type": "L",
		"phone2": "", "phone2_type": "W",
		"phone3": "5550003333", "phone3_type": "w",
		"phone4": "5550004444", "phone4_type": "W",
	}
	if got := ChooseWireless(rec); got != "5550003333" {
		t.Fatalf("ChooseWireless = %q, want first non-empty wireless", got)
	}

	if got := ChooseWireless(Record{"phone1": "5550001111", "phone1_type": "L"}); got != "" {
		t.Fatalf("ChooseWireless = %q, want none for landline-only", got)
	}
}

func TestNormalizeFirstName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"  ", ""},
		{"jane", "Jane"},
		{"JANE", "Jane"},
		{"mC", "Mc"},
	}
	for _, tt := range tests {
		if got := NormalizeFirstName(tt.in); got != tt.want {
			t.Fatalf("NormalizeFirstName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParsePropertyAddress(t *testing.T) {
	tests := []struct {
		in   string
		want Address
	}{
		{
			"123 Main St, Springfield, IL 62704",
			Address{Street: "123 Main St", City: "Springfield", State: "IL", Zip: "62704"},
		},
		{
			"123 Main St, Springfield IL 62704",
			Address{Street: "123 Main St", City: "Springfield IL 62704", State: "IL", Zip: "62704"},
		},
		{
			"123 Main St Springfield il 62704",
			Address{Street: "123 Main St Springfield il 62704", State: "IL", Zip: "62704"},
		},
		{
			"9 Oak Ave, Portland, OR 97205-1234",
			Address{Street: "9 Oak Ave", City: "Portland", State: "OR", Zip: "97205-1234"},
		},
		{"", Address{}},
		{"just a street", Address{Street: "just a street"}},
	}
	for _, tt := range tests {
		if got := ParsePropertyAddress(tt.in); got != tt.want {
			t.Fatalf("ParsePropertyAddress(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestValidZip(t *testing.T) {
	for zip, want := range map[string]bool{
		"62704":      true,
		"62704-1234": true,
		"6270":       false,
		"627041":     false,
		"abcde":      false,
		"":           false,
	} {
		if got := validZip(zip); got != want {
			t.Fatalf("validZip(%q) = %v, want %v", zip, got, want)
		}
	}
}
