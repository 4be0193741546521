package logging

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	if _, err := New("debug", true); err != nil {
		t.Errorf("New(debug, dev): %v", err)
	}
	log, err := New("warn", false)
	if err != nil {
		t.Fatalf("New(warn): %v", err)
	}
	if log.Core().Enabled(zap.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if _, err := New("loud", false); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestRequests(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := Requests(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/heroes", nil))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/api/v1/heroes" || fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("fields = %v", fields)
	}
}
