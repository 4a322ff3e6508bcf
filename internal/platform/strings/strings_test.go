package strings

import (
	"testing"

	"leadpush/internal/platform/testkit"
)

func TestIfEmpty(t *testing.T) {
	t.Parallel()

	// non-empty slice should be returned as-is
	in := []int{1, 2, 3}
	def := []int{9}
	got := IfEmpty(in, def)
	if len(got) != 3 || got[0] != 1 {
		t.Fatalf("IfEmpty returned wrong slice: %#v", got)
	}

	// empty slice should fall back to default
	var empty []string
	def2 := []string{"x"}
	got2 := IfEmpty(empty, def2)
	if len(got2) != 1 || got2[0] != "x" {
		t.Fatalf("IfEmpty did not return default: %#v", got2)
	}
}

func TestMustPrefix(t *testing.T) {
	cases := map[string]string{
		"/auth/":   "/auth",
		" auth  ":  "/auth",
		"//auth//": "/auth",
		"/":        "", // should panic
		"":         "", // should panic
	}
	for in, want := range cases {
		if want == "" {
			testkit.MustPanic(t, func() { _ = MustPrefix(in) })
			continue
		}
		if got := MustPrefix(in); got != want {
			t.Fatalf("in %q want %q got %q", in, want, got)
		}
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		s    string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 3, "hel"},
		{"hello", 0, ""},
		{"hello", -1, "hello"}, // negative disables
	}
	for _, c := range cases {
		if got := Truncate(c.s, c.n); got != c.want {
			t.Errorf("Truncate(%q,%d)=%q want %q", c.s, c.n, got, c.want)
		}
	}
}

func TestPtrAndDeref(t *testing.T) {
	t.Parallel()

	if Ptr("") != nil {
		t.Fatal("Ptr(\"\") should be nil")
	}
	p := Ptr("x")
	if p == nil || *p != "x" {
		t.Fatalf("Ptr(x) = %v", p)
	}
	if Deref(nil) != "" {
		t.Fatal("Deref(nil) should be empty")
	}
	if Deref(p) != "x" {
		t.Fatalf("Deref = %q", Deref(p))
	}
}

func TestSQLNull(t *testing.T) {
	t.Parallel()

	if SQLNull("") != nil || SQLNull("   ") != nil {
		t.Fatal("blank input should map to nil")
	}
	if got := SQLNull("x"); got != "x" {
		t.Fatalf("SQLNull(x) = %v", got)
	}
}
