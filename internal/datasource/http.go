package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joestump/superheroes/internal/heroes"
)

// DefaultBaseURL is the public placeholder API the HTTP source talks to.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com/users"

// HTTPSource performs a real round trip to a placeholder REST API for every
// call, then discards the response body and answers from its arguments. Only
// the status code matters: 404 becomes heroes.ErrNotFound, any other non-2xx
// status is a transport failure.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	roster  []string
}

// NewHTTPSource returns an HTTPSource for baseURL (DefaultBaseURL when empty).
// A nil client gets a 10s timeout client.
func NewHTTPSource(baseURL string, client *http.Client, roster []string) *HTTPSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if len(roster) == 0 {
		roster = heroes.DefaultRoster
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		roster:  append([]string(nil), roster...),
	}
}

func (s *HTTPSource) do(ctx context.Context, method, target string, body any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return heroes.ErrNotFound
	case resp.StatusCode >= 300:
		return fmt.Errorf("%s %s: unexpected status %d", method, target, resp.StatusCode)
	}
	return nil
}

func (s *HTTPSource) itemURL(id int) string {
	return s.baseURL + "/" + strconv.Itoa(id)
}

func (s *HTTPSource) GetAll(ctx context.Context) ([]heroes.Hero, error) {
	if err := s.do(ctx, http.MethodGet, s.baseURL, nil); err != nil {
		return nil, err
	}
	return []heroes.Hero{}, nil
}

func (s *HTTPSource) Create(ctx context.Context, hero heroes.Hero) (heroes.Hero, error) {
	if err := s.do(ctx, http.MethodPost, s.baseURL, map[string]string{"name": hero.Name}); err != nil {
		return heroes.Hero{}, err
	}
	return hero, nil
}

func (s *HTTPSource) Update(ctx context.Context, hero heroes.Hero) (heroes.Hero, error) {
	if err := s.do(ctx, http.MethodPut, s.itemURL(hero.ID), hero); err != nil {
		return heroes.Hero{}, err
	}
	return hero, nil
}

func (s *HTTPSource) Delete(ctx context.Context, id int) (int, error) {
	if err := s.do(ctx, http.MethodDelete, s.itemURL(id), nil); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *HTTPSource) FindByName(ctx context.Context, name string) ([]heroes.Hero, error) {
	target := s.baseURL + "?" + url.Values{"name": {name}}.Encode()
	if err := s.do(ctx, http.MethodGet, target, nil); err != nil {
		return nil, err
	}
	return []heroes.Hero{}, nil
}

func (s *HTTPSource) GetMockHeroes(ctx context.Context) ([]heroes.Hero, error) {
	if err := s.do(ctx, http.MethodGet, s.baseURL, nil); err != nil {
		return nil, err
	}
	return heroes.BuildRoster(heroes.NewSequence(), s.roster), nil
}
