package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/superheroes/internal/heroes"
	"github.com/joestump/superheroes/internal/paginate"
	"github.com/joestump/superheroes/internal/store"
)

// heroesAPIHandler provides REST handlers for the hero collection.
type heroesAPIHandler struct {
	store *store.Store
}

func registerHeroRoutes(r chi.Router, s *store.Store) {
	h := &heroesAPIHandler{store: s}
	r.Get("/heroes", h.List)
	r.Post("/heroes", h.Create)
	r.Get("/heroes/{id}", h.Get)
	r.Put("/heroes/{id}", h.Update)
	r.Delete("/heroes/{id}", h.Delete)
}

// List returns one page of the filtered heroes. When q is present it becomes
// the store's search term.
// GET /api/v1/heroes
//
// @Summary      List heroes
// @Description  Returns one zero-based page of heroes whose name contains the search term.
// @Tags         Heroes
// @Produce      json
// @Param        q          query     string  false  "Search term; replaces the current one when present"
// @Param        page       query     int     false  "Zero-based page index"
// @Param        page_size  query     int     false  "Page size (default 5, max 100)"
// @Success      200        {object}  HeroListResponse
// @Failure      409        {object}  ErrorResponse
// @Failure      503        {object}  ErrorResponse
// @Router       /heroes [get]
func (h *heroesAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filtered []heroes.Hero
	if query.Has("q") {
		var err error
		filtered, err = h.store.FindByName(r.Context(), query.Get("q"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
	} else {
		filtered = h.store.FilteredHeroes()
	}

	index, _ := strconv.Atoi(query.Get("page"))
	size, _ := strconv.Atoi(query.Get("page_size"))
	page := paginate.Slice(filtered, index, size)

	writeJSON(w, http.StatusOK, HeroListResponse{
		Heroes:     toHeroResponses(page.Items),
		SearchTerm: h.store.SearchTerm(),
		Page:       page.Index,
		PageSize:   page.Size,
		Total:      page.Total,
		LastPage:   page.LastIndex,
		Range:      paginate.RangeLabel(page.Index, page.Size, page.Total),
		Summary:    paginate.Summary(page.Index, page.Size, page.Total),
	})
}

// Get returns a single hero.
// GET /api/v1/heroes/{id}
//
// @Summary      Get a hero
// @Tags         Heroes
// @Produce      json
// @Param        id   path      int  true  "Hero ID"
// @Success      200  {object}  HeroResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /heroes/{id} [get]
func (h *heroesAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := heroID(w, r)
	if !ok {
		return
	}
	hero, found := h.store.HeroByID(id)
	if !found {
		writeError(w, http.StatusNotFound, heroes.ErrNotFound.Message, string(heroes.CodeNotFound))
		return
	}
	writeJSON(w, http.StatusOK, toHeroResponse(hero))
}

// Create adds a hero.
// POST /api/v1/heroes
//
// @Summary      Create a hero
// @Description  Validates and capitalizes the name, then adds the hero with the next free ID.
// @Tags         Heroes
// @Accept       json
// @Produce      json
// @Param        body  body      HeroRequest  true  "Hero to create"
// @Success      201   {object}  HeroResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      503   {object}  ErrorResponse
// @Router       /heroes [post]
func (h *heroesAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeName(w, r)
	if !ok {
		return
	}
	hero, err := h.store.Create(r.Context(), name)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHeroResponse(hero))
}

// Update renames a hero.
// PUT /api/v1/heroes/{id}
//
// @Summary      Update a hero
// @Tags         Heroes
// @Accept       json
// @Produce      json
// @Param        id    path      int          true  "Hero ID"
// @Param        body  body      HeroRequest  true  "New name"
// @Success      200   {object}  HeroResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      503   {object}  ErrorResponse
// @Router       /heroes/{id} [put]
func (h *heroesAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := heroID(w, r)
	if !ok {
		return
	}
	name, ok := decodeName(w, r)
	if !ok {
		return
	}
	hero, err := h.store.Update(r.Context(), heroes.Hero{ID: id, Name: name})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHeroResponse(hero))
}

// Delete removes a hero.
// DELETE /api/v1/heroes/{id}
//
// @Summary      Delete a hero
// @Tags         Heroes
// @Param        id   path  int  true  "Hero ID"
// @Success      204
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /heroes/{id} [delete]
func (h *heroesAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := heroID(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func heroID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "id must be a positive integer", "BAD_REQUEST")
		return 0, false
	}
	return id, true
}

// decodeName reads a HeroRequest and returns the validated, capitalized name.
func decodeName(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req HeroRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return "", false
	}
	return formName(w, req.Name)
}

func formName(w http.ResponseWriter, raw string) (string, bool) {
	name := strings.TrimSpace(raw)
	if err := heroes.ValidateFormName(name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), string(heroes.CodeInvalidName))
		return "", false
	}
	return heroes.CapitalizeWords(name), true
}
