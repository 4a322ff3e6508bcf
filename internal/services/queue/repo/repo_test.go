package repo

import (
	"strings"
	"testing"

	"leadpush/internal/platform/testkit"
	"leadpush/internal/services/queue/domain"
)

func TestBuildInsertArgNumbering(t *testing.T) {
	rows := []domain.InsertRow{
		{ClientContactID: "cc1", LocationID: "loc1", Zip: "62704", Country: "US", Source: "s", Status: "pending", OldTag3: "modern"},
		{ClientContactID: "cc1", LocationID: "loc1", Zip: "62705", Country: "US", Source: "s", Status: "pending", OldTag3: "modern"},
	}

	sql, args := buildInsert(rows)

	if len(args) != 2*27 {
		t.Fatalf("got %d args, want 27 per row", len(args))
	}
	testkit.MustContain(t, sql, "INSERT INTO contact_queue")
	// placeholders are numbered sequentially across rows
	testkit.MustContain(t, sql, "$1")
	testkit.MustContain(t, sql, "$54")
	if strings.Contains(sql, "$55") {
		t.Fatalf("sql has too many placeholders: %s", sql)
	}
	if got := strings.Count(sql, "("); got < 3 {
		t.Fatalf("want column list plus two value tuples, got %d groups", got)
	}
}

func TestBuildInsertNullsBlankOptionals(t *testing.T) {
	rows := []domain.InsertRow{{
		ClientContactID: "cc1",
		LocationID:      "loc1",
		Country:         "US",
		Source:          "s",
		Status:          "pending",
		OldTag3:         "modern",
	}}

	_, args := buildInsert(rows)

	// zip is the third arg and blank, so it must be NULL not ''
	if args[2] != nil {
		t.Fatalf("blank zip arg = %v, want nil", args[2])
	}
	// required columns keep their values
	if args[0] != "cc1" || args[1] != "loc1" {
		t.Fatalf("required args = %v %v", args[0], args[1])
	}
	if args[22] != "US" {
		t.Fatalf("country arg = %v, want US", args[22])
	}
}
