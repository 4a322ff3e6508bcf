package service

import (
	"context"
	"sort"
	"strings"
	"testing"

	perr "leadpush/internal/platform/errors"
	"leadpush/internal/services/contacts/domain"
	"leadpush/internal/services/contacts/repo"

	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	contacts []repo.ContactRow
	zips     map[string]struct{}
	inserted []string
}

func newFakeRepo() *fakeRepo { return &fakeRepo{zips: map[string]struct{}{}} }

func (f *fakeRepo) key(contact, location, zip string) string {
	return contact + "|" + location + "|" + zip
}

func (f *fakeRepo) ListContacts(context.Context) ([]repo.ContactRow, error) {
	return f.contacts, nil
}

func (f *fakeRepo) PulledZipExists(_ context.Context, contact, location, zip string) (bool, error) {
	_, ok := f.zips[f.key(contact, location, zip)]
	return ok, nil
}

func (f *fakeRepo) ExistingPulledZips(_ context.Context, contact, location string, zips []string) ([]string, error) {
	var out []string
	for _, z := range zips {
		if _, ok := f.zips[f.key(contact, location, z)]; ok {
			out = append(out, z)
		}
	}
	return out, nil
}

func (f *fakeRepo) InsertPulledZips(_ context.Context, contact, location string, zips []string) (int, error) {
	for _, z := range zips {
		f.zips[f.key(contact, location, z)] = struct{}{}
		f.inserted = append(f.inserted, z)
	}
	return len(zips), nil
}

func (f *fakeRepo) ListPulledZips(_ context.Context, contact, location string) ([]string, error) {
	prefix := contact + "|" + location + "|"
	var out []string
	for k := range f.zips {
		if strings.HasPrefix(k, prefix) {
			out = append(out, strings.TrimPrefix(k, prefix))
		}
	}
	sort.Strings(out)
	return out, nil
}

func TestListDedupesAndSortsByLabel(t *testing.T) {
	r := newFakeRepo()
	r.contacts = []repo.ContactRow{
		{ContactID: "c3", FullName: "Zed Alpha"},
		{ContactID: "c1", FirstName: "Amy", LastName: "Lee"},
		{ContactID: "c1", FullName: "Amy Lee"},
		{ContactID: "", FullName: "Ghost"},
		{ContactID: "c2"},
	}
	svc := New(r)

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.Contact{
		{ID: "c1", Label: "Amy Lee"},
		{ID: "c2", Label: "c2"},
		{ID: "c3", Label: "Zed Alpha"},
	}, got)
}

func TestListOrderIgnoresLabelCase(t *testing.T) {
	r := newFakeRepo()
	r.contacts = []repo.ContactRow{
		{ContactID: "c1", FullName: "zed alpha"},
		{ContactID: "c2", FullName: "Bob"},
		{ContactID: "c3", FullName: "amy"},
	}
	svc := New(r)

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.Contact{
		{ID: "c3", Label: "amy"},
		{ID: "c2", Label: "Bob"},
		{ID: "c1", Label: "zed alpha"},
	}, got)
}

func TestRecordRejectsInvalidZip(t *testing.T) {
	svc := New(newFakeRepo())
	_, err := svc.Record(context.Background(), "cc1", "loc1", "999")
	require.Error(t, err)
	require.Equal(t, perr.ErrorCodeInvalidArgument, perr.CodeOf(err))
}

func TestRecordCreatesOnce(t *testing.T) {
	r := newFakeRepo()
	svc := New(r)

	created, err := svc.Record(context.Background(), "cc1", "loc1", "62704")
	require.NoError(t, err)
	require.True(t, created)

	created, err = svc.Record(context.Background(), "cc1", "loc1", "62704")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, []string{"62704"}, r.inserted)
}

func TestEnsureAllInsertsOnlyMissingValidZips(t *testing.T) {
	r := newFakeRepo()
	r.zips[r.key("cc1", "loc1", "62704")] = struct{}{}
	svc := New(r)

	created, err := svc.EnsureAll(context.Background(), "cc1", "loc1",
		[]string{"62704", "90210", "90210", "bogus", "90210-1234"})
	require.NoError(t, err)
	require.Equal(t, 2, created)
	require.Equal(t, []string{"90210", "90210-1234"}, r.inserted)
}

func TestEnsureAllNothingToDo(t *testing.T) {
	r := newFakeRepo()
	svc := New(r)

	created, err := svc.EnsureAll(context.Background(), "cc1", "loc1", []string{"nope"})
	require.NoError(t, err)
	require.Equal(t, 0, created)
	require.Empty(t, r.inserted)
}

func TestZipsListsForContact(t *testing.T) {
	r := newFakeRepo()
	r.zips[r.key("cc1", "loc1", "90210")] = struct{}{}
	r.zips[r.key("cc1", "loc1", "62704")] = struct{}{}
	r.zips[r.key("cc2", "loc1", "10001")] = struct{}{}
	svc := New(r)

	got, err := svc.Zips(context.Background(), "cc1", "loc1")
	require.NoError(t, err)
	require.Equal(t, []string{"62704", "90210"}, got)
}

func TestValidZip(t *testing.T) {
	require.True(t, ValidZip("62704"))
	require.True(t, ValidZip("62704-1234"))
	require.False(t, ValidZip("627"))
	require.False(t, ValidZip("62704-12"))
	require.False(t, ValidZip(""))
}
