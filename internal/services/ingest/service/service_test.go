package service

import (
	"context"
	"strings"
	"testing"

	queuedom "leadpush/internal/services/queue/domain"

	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	existing   []queuedom.ExistingRow
	inserted   []queuedom.InsertRow
	zipsAsked  []string
	insertErrs []queuedom.BatchError
}

func (f *fakeQueue) FetchPending(context.Context, string, int, int) ([]queuedom.Row, error) {
	return nil, nil
}

func (f *fakeQueue) MarkSuccess(context.Context, string) error { return nil }

func (f *fakeQueue) MarkError(context.Context, string, string) error { return nil }

func (f *fakeQueue) InsertBatch(_ context.Context, rows []queuedom.InsertRow) (queuedom.InsertOutcome, error) {
	f.inserted = append(f.inserted, rows...)
	return queuedom.InsertOutcome{Inserted: len(rows), Errors: f.insertErrs, Failed: len(f.insertErrs)}, nil
}

func (f *fakeQueue) ExistingByZips(_ context.Context, zips []string) ([]queuedom.ExistingRow, error) {
	f.zipsAsked = zips
	return f.existing, nil
}

type fakeZips struct {
	ensured []string
	created int
}

func (f *fakeZips) Record(context.Context, string, string, string) (bool, error) {
	return false, nil
}

func (f *fakeZips) EnsureAll(_ context.Context, _, _ string, zips []string) (int, error) {
	f.ensured = zips
	return f.created, nil
}

func (f *fakeZips) Zips(context.Context, string, string) ([]string, error) {
	return nil, nil
}

const uploadHeader = "firstName,lastName,propertyAddress,phone1,phone1_type"

func uploadCSV(rows ...string) []byte {
	return []byte(strings.Join(append([]string{uploadHeader}, rows...), "\n"))
}

func TestUploadHappyPath(t *testing.T) {
	q := &fakeQueue{}
	z := &fakeZips{created: 1}
	svc := New(q, z)

	csv := uploadCSV(
		`jane,doe,"123 Main St, Springfield, IL 62704",5551234567,W`,
		`bob,smith,"9 Oak Ave, Springfield, IL 62704",5559876543,W`,
	)
	res, err := svc.Upload(context.Background(), csv, "cc1", "loc1")
	require.NoError(t, err)

	require.NotEmpty(t, res.Summary.UploadID)
	require.Equal(t, 2, res.Summary.ReadFromCSV)
	require.Equal(t, 2, res.Summary.KeptAfterClean)
	require.Equal(t, 0, res.Summary.DuplicatesSkippedDB)
	require.Equal(t, 2, res.Summary.AttemptedToInsert)
	require.Equal(t, 2, res.Summary.InsertedOK)
	require.Equal(t, 1, res.Summary.PulledZipsCreated)
	require.Equal(t, []string{"62704"}, z.ensured)

	require.Len(t, q.inserted, 2)
	row := q.inserted[0]
	require.Equal(t, "cc1", row.ClientContactID)
	require.Equal(t, "loc1", row.LocationID)
	require.Equal(t, "Jane", row.FirstName)
	require.Equal(t, "Jane doe", row.FullName)
	require.Equal(t, "62704", row.AddressPostal)
	require.Equal(t, "123 Main St", row.AddressStreet)
	require.Equal(t, "+15551234567", row.E164Phone)
	require.Equal(t, "US", row.Country)
	require.Equal(t, "pending", row.Status)
	require.NotEmpty(t, row.RawData)
}

func TestUploadDropsRowsWithoutWirelessPhone(t *testing.T) {
	q := &fakeQueue{}
	svc := New(q, &fakeZips{})

	csv := uploadCSV(
		`jane,doe,"123 Main St, Springfield, IL 62704",5551234567,W`,
		`bob,smith,"9 Oak Ave, Springfield, IL 62704",5559876543,L`,
	)
	res, err := svc.Upload(context.Background(), csv, "cc1", "loc1")
	require.NoError(t, err)

	require.Equal(t, 2, res.Summary.ReadFromCSV)
	require.Equal(t, 1, res.Summary.KeptAfterClean)
	require.Len(t, q.inserted, 1)
}

func TestUploadDropsInFileAddressDuplicates(t *testing.T) {
	q := &fakeQueue{}
	svc := New(q, &fakeZips{})

	csv := uploadCSV(
		`jane,doe,"123 Main St, Springfield, IL 62704",5551234567,W`,
		`janet,doe," 123 MAIN ST, SPRINGFIELD, IL 62704",5550001111,W`,
	)
	res, err := svc.Upload(context.Background(), csv, "cc1", "loc1")
	require.NoError(t, err)

	require.Equal(t, 1, res.Summary.KeptAfterClean)
	require.Len(t, q.inserted, 1)
}

func TestUploadSkipsQueuedDuplicates(t *testing.T) {
	q := &fakeQueue{existing: []queuedom.ExistingRow{
		{AddressPostal: "62704", E164Phone: "+15551234567"},
		{AddressPostal: "62704", PropertyAddress: "9 Oak Ave, Springfield, IL 62704"},
	}}
	svc := New(q, &fakeZips{})

	csv := uploadCSV(
		`jane,doe,"123 Main St, Springfield, IL 62704",5551234567,W`,
		`bob,smith,"9 OAK AVE, Springfield, IL 62704",5559876543,W`,
		`amy,lee,"77 Pine Rd, Springfield, IL 62704",5552223333,W`,
	)
	res, err := svc.Upload(context.Background(), csv, "cc1", "loc1")
	require.NoError(t, err)

	require.Equal(t, []string{"62704"}, q.zipsAsked)
	require.Equal(t, 2, res.Summary.DuplicatesSkippedDB)
	require.Equal(t, 1, res.Summary.AttemptedToInsert)
	require.Len(t, q.inserted, 1)
	require.Equal(t, "+15552223333", q.inserted[0].E164Phone)
}

func TestUploadCapsBatchErrors(t *testing.T) {
	errs := make([]queuedom.BatchError, 12)
	for i := range errs {
		errs[i] = queuedom.BatchError{BatchStart: i * 1000, Message: "insert failed"}
	}
	q := &fakeQueue{insertErrs: errs}
	svc := New(q, &fakeZips{})

	csv := uploadCSV(`jane,doe,"123 Main St, Springfield, IL 62704",5551234567,W`)
	res, err := svc.Upload(context.Background(), csv, "cc1", "loc1")
	require.NoError(t, err)
	require.Len(t, res.Errors, 10)
	require.Equal(t, 12, res.Summary.FailedInserts)
}

func TestUploadEmptyCSV(t *testing.T) {
	q := &fakeQueue{}
	z := &fakeZips{}
	svc := New(q, z)

	res, err := svc.Upload(context.Background(), []byte(uploadHeader), "cc1", "loc1")
	require.NoError(t, err)
	require.Equal(t, 0, res.Summary.ReadFromCSV)
	require.Equal(t, 0, res.Summary.AttemptedToInsert)
	require.Nil(t, z.ensured)
}
