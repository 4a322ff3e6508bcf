package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// phoneSlots is how many phoneN/phoneN_type column pairs a lead export carries
const phoneSlots = 10

// emailSlots is how many emailN columns a lead export carries
const emailSlots = 3

var stateZipRe = regexp.MustCompile(`([A-Za-z]{2})\s+(\d{5}(?:-\d{4})?)`)
var stateZipTailRe = regexp.MustCompile(`([A-Za-z]{2})\s+(\d{5}(?:-\d{4})?)$`)
var zipRe = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// validZip reports whether zip looks like a 5 or 9 digit US zip
func validZip(zip string) bool { return zipRe.MatchString(zip) }

// Record is one CSV row keyed by header
type Record map[string]string

// Address is a parsed property address
type Address struct {
	Street string
	City   string
	State  string
	Zip    string
}

// ReadRecords parses header-keyed CSV rows, trimming cells and backfilling the
// phone/email/name columns the rest of the pipeline expects
func ReadRecords(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var out []Record
	for {
		cells, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		rec := Record{}
		empty := true
		for i, h := range header {
			if h == "" || i >= len(cells) {
				continue
			}
			v := strings.TrimSpace(cells[i])
			rec[h] = v
			if v != "" {
				empty = false
			}
		}
		if empty {
			continue
		}

		for i := 1; i <= phoneSlots; i++ {
			ensureKey(rec, fmt.Sprintf("phone%d", i))
			ensureKey(rec, fmt.Sprintf("phone%d_type", i))
		}
		for i := 1; i <= emailSlots; i++ {
			ensureKey(rec, fmt.Sprintf("email%d", i))
		}
		ensureKey(rec, "firstName")
		ensureKey(rec, "lastName")
		ensureKey(rec, "propertyAddress")

		out = append(out, rec)
	}
	return out, nil
}

func ensureKey(rec Record, key string) {
	if _, ok := rec[key]; !ok {
		rec[key] = ""
	}
}

// ChooseWireless returns the first phone whose type column is W
func ChooseWireless(rec Record) string {
	for i := 1; i <= phoneSlots; i++ {
		p := strings.TrimSpace(rec[fmt.Sprintf("phone%d", i)])
		t := strings.ToUpper(strings.TrimSpace(rec[fmt.Sprintf("phone%d_type", i)]))
		if t == "W" && p != "" {
			return p
		}
	}
	return ""
}

// NormalizeAddress lowercases and trims for address comparison
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// NormalizeFirstName title-cases a first name
func NormalizeFirstName(name string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// ParsePropertyAddress splits "street, city, ST 12345" style addresses.
// State and zip fall back to a suffix match over the whole string
func ParsePropertyAddress(raw string) Address {
	var out Address
	s := strings.TrimSpace(raw)
	if s == "" {
		return out
	}

	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) >= 1 {
		out.Street = parts[0]
	}
	if len(parts) >= 2 {
		out.City = parts[1]
	}

	tail := ""
	switch {
	case len(parts) >= 3:
		tail = parts[2]
	case len(parts) >= 2:
		tail = parts[1]
	}
	if m := stateZipRe.FindStringSubmatch(tail); m != nil {
		out.State = strings.ToUpper(m[1])
		out.Zip = m[2]
	}
	if out.State == "" || out.Zip == "" {
		if m := stateZipTailRe.FindStringSubmatch(s); m != nil {
			if out.State == "" {
				out.State = strings.ToUpper(m[1])
			}
			if out.Zip == "" {
				out.Zip = m[2]
			}
		}
	}
	return out
}
