// Package service implements CSV lead ingest into the contact queue
package service

import (
	"bytes"
	"context"
	"encoding/json"

	"leadpush/internal/platform/logger"
	contactsdom "leadpush/internal/services/contacts/domain"
	pushsvc "leadpush/internal/services/push/service"
	queuedom "leadpush/internal/services/queue/domain"

	"github.com/google/uuid"
)

const (
	rowSource  = "csv pull-lists web"
	oldTag3    = "modern"
	initStatus = "pending"
)

// Summary reports what one upload did
type Summary struct {
	UploadID            string `json:"upload_id"`
	ReadFromCSV         int    `json:"read_from_csv"`
	KeptAfterClean      int    `json:"kept_after_clean"`
	DuplicatesSkippedDB int    `json:"duplicates_skipped_db"`
	AttemptedToInsert   int    `json:"attempted_to_insert"`
	InsertedOK          int    `json:"inserted_successfully"`
	FailedInserts       int    `json:"failed_inserts"`
	PulledZipsCreated   int    `json:"pulled_zips_created"`
}

// Result is the upload response body
type Result struct {
	Summary Summary               `json:"summary"`
	Errors  []queuedom.BatchError `json:"errors"`
}

// Service turns uploaded CSVs into queued contacts
type Service struct {
	queue queuedom.QueuePort
	zips  contactsdom.PulledZipsPort
	log   logger.Logger
}

// New constructs an ingest service
func New(queue queuedom.QueuePort, zips contactsdom.PulledZipsPort) *Service {
	return &Service{queue: queue, zips: zips, log: *logger.Named("ingest")}
}

// Upload parses, cleans, dedupes against the queue, and inserts the CSV rows.
// Rows without a wireless phone are dropped; rows matching an already queued
// contact by zip+phone or zip+address are skipped
func (s *Service) Upload(ctx context.Context, csvData []byte, clientContactID, locationID string) (Result, error) {
	res := Result{Summary: Summary{UploadID: uuid.NewString()}}

	records, err := ReadRecords(bytes.NewReader(csvData))
	if err != nil {
		return res, err
	}
	res.Summary.ReadFromCSV = len(records)

	cleaned := cleanRecords(records)
	res.Summary.KeptAfterClean = len(cleaned)

	rows := make([]queuedom.InsertRow, 0, len(cleaned))
	for _, rec := range cleaned {
		rows = append(rows, toQueueRow(rec, clientContactID, locationID))
	}

	// distinct valid zips in this upload
	zipSet := map[string]struct{}{}
	var zipList []string
	for _, row := range rows {
		z := row.AddressPostal
		if z == "" || !validZip(z) {
			continue
		}
		if _, dup := zipSet[z]; dup {
			continue
		}
		zipSet[z] = struct{}{}
		zipList = append(zipList, z)
	}

	// load queued rows under those zips and filter duplicates
	var existing []queuedom.ExistingRow
	if len(zipList) > 0 {
		existing, err = s.queue.ExistingByZips(ctx, zipList)
		if err != nil {
			return res, err
		}
	}
	byZipAndPhone, byZipAndAddr := buildExistingSets(existing)

	toInsert := make([]queuedom.InsertRow, 0, len(rows))
	for _, row := range rows {
		zip := row.AddressPostal
		addrNorm := NormalizeAddress(row.PropertyAddress)
		dupByPhone := zip != "" && row.E164Phone != "" && member(byZipAndPhone, zip+"__"+row.E164Phone)
		dupByAddr := zip != "" && addrNorm != "" && member(byZipAndAddr, zip+"__"+addrNorm)
		if dupByPhone || dupByAddr {
			res.Summary.DuplicatesSkippedDB++
			continue
		}
		toInsert = append(toInsert, row)
	}
	res.Summary.AttemptedToInsert = len(toInsert)

	outcome, err := s.queue.InsertBatch(ctx, toInsert)
	if err != nil {
		return res, err
	}
	res.Summary.InsertedOK = outcome.Inserted
	res.Summary.FailedInserts = outcome.Failed
	res.Errors = outcome.Errors
	if len(res.Errors) > 10 {
		res.Errors = res.Errors[:10]
	}

	if len(zipList) > 0 {
		created, err := s.zips.EnsureAll(ctx, clientContactID, locationID, zipList)
		if err != nil {
			return res, err
		}
		res.Summary.PulledZipsCreated = created
	}

	s.log.Info().
		Str("upload_id", res.Summary.UploadID).
		Int("read", res.Summary.ReadFromCSV).
		Int("kept", res.Summary.KeptAfterClean).
		Int("inserted", res.Summary.InsertedOK).
		Int("dupes", res.Summary.DuplicatesSkippedDB).
		Msg("csv upload done")

	return res, nil
}

// cleanRecords keeps rows that carry a wireless phone, normalizes first names,
// and drops in-file duplicates by normalized property address
func cleanRecords(records []Record) []Record {
	kept := make([]Record, 0, len(records))
	seenAddr := map[string]struct{}{}
	for _, rec := range records {
		wireless := ChooseWireless(rec)
		if wireless == "" {
			continue
		}
		addrNorm := NormalizeAddress(rec["propertyAddress"])
		if addrNorm != "" {
			if _, dup := seenAddr[addrNorm]; dup {
				continue
			}
			seenAddr[addrNorm] = struct{}{}
		}
		rec["firstName"] = NormalizeFirstName(rec["firstName"])
		rec["wireless_choice"] = wireless
		kept = append(kept, rec)
	}
	return kept
}

// toQueueRow maps a cleaned record to a queue insert row
func toQueueRow(rec Record, clientContactID, locationID string) queuedom.InsertRow {
	firstName := rec["firstName"]
	lastName := rec["lastName"]
	fullName := joinName(firstName, lastName)

	addressFull := rec["propertyAddress"]
	parsed := ParsePropertyAddress(addressFull)
	postal := ""
	if parsed.Zip != "" && validZip(parsed.Zip) {
		postal = parsed.Zip
	}

	raw, _ := json.Marshal(rec)

	return queuedom.InsertRow{
		ClientContactID: clientContactID,
		LocationID:      locationID,
		Zip:             postal,
		FirstName:       firstName,
		LastName:        lastName,
		FullName:        fullName,
		Email1:          rec["email1"],
		Email2:          rec["email2"],
		Email3:          rec["email3"],
		Phone1:          rec["phone1"],
		Phone1Type:      rec["phone1_type"],
		Phone2:          rec["phone2"],
		Phone2Type:      rec["phone2_type"],
		Phone3:          rec["phone3"],
		Phone3Type:      rec["phone3_type"],
		WirelessChoice:  rec["wireless_choice"],
		E164Phone:       pushsvc.ToE164US(rec["wireless_choice"]),
		PropertyAddress: addressFull,
		AddressStreet:   parsed.Street,
		AddressCity:     parsed.City,
		AddressState:    parsed.State,
		AddressPostal:   postal,
		Country:         "US",
		Source:          rowSource,
		Status:          initStatus,
		OldTag3:         oldTag3,
		RawData:         raw,
	}
}

func joinName(first, last string) string {
	out := first
	if last != "" {
		if out != "" {
			out += " "
		}
		out += last
	}
	return out
}

func buildExistingSets(existing []queuedom.ExistingRow) (byZipAndPhone, byZipAndAddr map[string]struct{}) {
	byZipAndPhone = map[string]struct{}{}
	byZipAndAddr = map[string]struct{}{}
	for _, r := range existing {
		zip := r.AddressPostal
		if zip == "" {
			continue
		}
		if r.E164Phone != "" {
			byZipAndPhone[zip+"__"+r.E164Phone] = struct{}{}
		}
		if addrNorm := NormalizeAddress(r.PropertyAddress); addrNorm != "" {
			byZipAndAddr[zip+"__"+addrNorm] = struct{}{}
		}
	}
	return byZipAndPhone, byZipAndAddr
}

func member(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}
