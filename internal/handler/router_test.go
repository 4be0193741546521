package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/joestump/superheroes/internal/api"
	"github.com/joestump/superheroes/internal/confirm"
	"github.com/joestump/superheroes/internal/datasource"
	"github.com/joestump/superheroes/internal/loading"
	"github.com/joestump/superheroes/internal/notify"
	"github.com/joestump/superheroes/internal/store"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	hub := notify.NewHub(0)
	t.Cleanup(hub.Close)
	s := store.New(datasource.NewEcho(nil), store.WithNotifier(hub))
	if err := s.LoadInitial(context.Background()); err != nil {
		t.Fatalf("LoadInitial: %v", err)
	}
	return NewRouter(api.Deps{
		Store:    s,
		Confirm:  confirm.NewBroker(0),
		Hub:      hub,
		Loading:  loading.NewTracker(),
		Sessions: scs.New(),
	})
}

func TestRouter(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/healthz", http.StatusOK, "ok"},
		{"/metrics", http.StatusOK, "superheroes_heroes_total"},
		{"/api/v1/heroes?page_size=2", http.StatusOK, `"total":13`},
		{"/api/docs/doc.json", http.StatusOK, "superheroes API"},
		{"/nope", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if !strings.Contains(rr.Body.String(), tt.wantBody) {
				t.Errorf("body does not contain %q: %s", tt.wantBody, rr.Body.String())
			}
		})
	}
}
