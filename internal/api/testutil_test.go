package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/joestump/superheroes/internal/api"
	"github.com/joestump/superheroes/internal/confirm"
	"github.com/joestump/superheroes/internal/datasource"
	"github.com/joestump/superheroes/internal/loading"
	"github.com/joestump/superheroes/internal/notify"
	"github.com/joestump/superheroes/internal/store"
)

// testEnv holds the router and everything behind it.
type testEnv struct {
	Router http.Handler
	Store  *store.Store
	Hub    *notify.Hub
	Broker *confirm.Broker
}

// newTestEnv wires the API router over a store loaded from src.
func newTestEnv(t *testing.T, src datasource.Source) *testEnv {
	t.Helper()
	hub := notify.NewHub(0)
	t.Cleanup(hub.Close)

	s := store.New(src, store.WithNotifier(hub))
	if err := s.LoadInitial(context.Background()); err != nil {
		t.Fatalf("LoadInitial: %v", err)
	}
	broker := confirm.NewBroker(0)

	router := api.NewAPIRouter(api.Deps{
		Store:    s,
		Confirm:  broker,
		Hub:      hub,
		Loading:  loading.NewTracker(),
		Sessions: scs.New(),
	})
	return &testEnv{Router: router, Store: s, Hub: hub, Broker: broker}
}

func newEchoEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnv(t, datasource.NewEcho([]string{"Superman", "Batman"}))
}

// do sends a request with an optional JSON body through the router.
func (env *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
	return v
}

func assertError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, status, rr.Body.String())
	}
	if got := decode[api.ErrorResponse](t, rr); got.Code != code {
		t.Errorf("code = %q, want %q", got.Code, code)
	}
}
