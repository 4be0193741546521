package api

import (
	"github.com/joestump/superheroes/internal/heroes"
	"github.com/joestump/superheroes/internal/store"
)

// HeroRequest is the request body for POST /api/v1/heroes and
// PUT /api/v1/heroes/{id}.
type HeroRequest struct {
	Name string `json:"name"`
}

// HeroResponse is the JSON representation of a single hero.
type HeroResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func toHeroResponse(h heroes.Hero) HeroResponse {
	return HeroResponse{ID: h.ID, Name: h.Name}
}

func toHeroResponses(list []heroes.Hero) []HeroResponse {
	out := make([]HeroResponse, 0, len(list))
	for _, h := range list {
		out = append(out, toHeroResponse(h))
	}
	return out
}

// HeroListResponse is one page of the filtered hero list.
type HeroListResponse struct {
	Heroes     []HeroResponse `json:"heroes"`
	SearchTerm string         `json:"search_term"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Total      int            `json:"total"`
	LastPage   int            `json:"last_page"`
	Range      string         `json:"range"`
	Summary    string         `json:"summary"`
}

// StateResponse is the store state plus its derived views.
type StateResponse struct {
	Heroes       []HeroResponse `json:"heroes"`
	IsLoading    bool           `json:"is_loading"`
	ErrorMessage *string        `json:"error_message"`
	ErrorCode    *heroes.Code   `json:"error_code" swaggertype:"string"`
	SearchTerm   string         `json:"search_term"`
	HeroCount    int            `json:"hero_count"`
	HasHeroes    bool           `json:"has_heroes"`
	HasError     bool           `json:"has_error"`
}

func toStateResponse(st store.State) StateResponse {
	return StateResponse{
		Heroes:       toHeroResponses(st.Heroes),
		IsLoading:    st.IsLoading,
		ErrorMessage: st.ErrorMessage,
		ErrorCode:    st.ErrorCode,
		SearchTerm:   st.SearchTerm,
		HeroCount:    st.HeroCount(),
		HasHeroes:    st.HasHeroes(),
		HasError:     st.HasError(),
	}
}

// ConfirmationRequest is the request body for POST /api/v1/heroes/confirmations.
// Action is one of "create", "update" or "delete"; ID is required for update
// and delete, Name for create and update.
type ConfirmationRequest struct {
	Action string `json:"action"`
	ID     int    `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
}

// ResolveRequest is the request body for POST /api/v1/confirmations/{ticket}.
type ResolveRequest struct {
	Confirmed bool `json:"confirmed"`
}

// LoadingResponse reports whether anything is in flight.
type LoadingResponse struct {
	Loading      bool `json:"loading"`
	Outbound     int  `json:"outbound"`
	StoreLoading bool `json:"store_loading"`
}

// WelcomeResponse tells the client whether to show the welcome message.
type WelcomeResponse struct {
	Show bool `json:"show"`
}
