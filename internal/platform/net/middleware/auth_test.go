package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	perr "leadpush/internal/platform/errors"
	"leadpush/internal/platform/net/middleware"
)

type fakeSessionPort struct {
	err error
}

func (f fakeSessionPort) Verify(*http.Request) error { return f.err }

func writeStub(w http.ResponseWriter, status int, body any) {
	w.WriteHeader(status)
}

func TestRequireSession_NilPortPassesThrough(t *testing.T) {
	var nextCalled bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(200)
	})

	mw := middleware.RequireSession(nil, writeStub)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	if !nextCalled {
		t.Fatal("expected next to be called")
	}
	if rr.Code != 200 {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
}

func TestRequireSession_RejectsWithoutSession(t *testing.T) {
	p := fakeSessionPort{err: perr.Unauthorizedf("authentication required")}
	mw := middleware.RequireSession(p, writeStub)

	var nextCalled bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	if nextCalled {
		t.Fatal("did not expect next to be called on auth error")
	}
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}

func TestRequireSession_PassesWithSession(t *testing.T) {
	p := fakeSessionPort{}
	mw := middleware.RequireSession(p, writeStub)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
}
