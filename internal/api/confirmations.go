package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/superheroes/internal/confirm"
	"github.com/joestump/superheroes/internal/heroes"
	"github.com/joestump/superheroes/internal/store"
)

// confirmationsAPIHandler issues and resolves confirmation tickets that guard
// hero mutations.
type confirmationsAPIHandler struct {
	store  *store.Store
	broker *confirm.Broker
}

func registerConfirmationRoutes(r chi.Router, s *store.Store, b *confirm.Broker) {
	h := &confirmationsAPIHandler{store: s, broker: b}
	r.Post("/heroes/confirmations", h.Request)
	r.Post("/confirmations/{ticket}", h.Resolve)
}

// Request issues a ticket for a create, update or delete. Nothing changes
// until the ticket is resolved as confirmed.
// POST /api/v1/heroes/confirmations
//
// @Summary      Request a confirmation ticket
// @Description  Returns the prompt to show the user and a ticket to resolve with their answer.
// @Tags         Confirmations
// @Accept       json
// @Produce      json
// @Param        body  body      ConfirmationRequest  true  "Action to confirm"
// @Success      202   {object}  confirm.Ticket
// @Failure      400   {object}  ErrorResponse
// @Router       /heroes/confirmations [post]
func (h *confirmationsAPIHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req ConfirmationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	var (
		prompt confirm.Prompt
		run    confirm.Continuation
	)
	switch req.Action {
	case "create":
		name, ok := formName(w, req.Name)
		if !ok {
			return
		}
		prompt = confirm.CreatePrompt
		run = func(ctx context.Context) (any, error) {
			hero, err := h.store.Create(ctx, name)
			if err != nil {
				return nil, err
			}
			return toHeroResponse(hero), nil
		}
	case "update":
		if req.ID <= 0 {
			writeError(w, http.StatusBadRequest, "id is required", "BAD_REQUEST")
			return
		}
		name, ok := formName(w, req.Name)
		if !ok {
			return
		}
		prompt = confirm.UpdatePrompt
		run = func(ctx context.Context) (any, error) {
			hero, err := h.store.Update(ctx, heroes.Hero{ID: req.ID, Name: name})
			if err != nil {
				return nil, err
			}
			return toHeroResponse(hero), nil
		}
	case "delete":
		if req.ID <= 0 {
			writeError(w, http.StatusBadRequest, "id is required", "BAD_REQUEST")
			return
		}
		prompt = confirm.DeletePrompt
		run = func(ctx context.Context) (any, error) {
			return nil, h.store.Delete(ctx, req.ID)
		}
	default:
		writeError(w, http.StatusBadRequest, "action must be create, update, or delete", "BAD_REQUEST")
		return
	}

	writeJSON(w, http.StatusAccepted, h.broker.Request(prompt, run))
}

// Resolve answers a ticket. A confirmed ticket runs its action and reports
// the result; a declined one does nothing.
// POST /api/v1/confirmations/{ticket}
//
// @Summary      Resolve a confirmation ticket
// @Tags         Confirmations
// @Accept       json
// @Produce      json
// @Param        ticket  path      string          true  "Ticket ID"
// @Param        body    body      ResolveRequest  true  "The user's answer"
// @Success      200     {object}  confirm.Outcome
// @Failure      400     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Failure      409     {object}  ErrorResponse
// @Failure      503     {object}  ErrorResponse
// @Router       /confirmations/{ticket} [post]
func (h *confirmationsAPIHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	out, err := h.broker.Resolve(r.Context(), chi.URLParam(r, "ticket"), req.Confirmed)
	if errors.Is(err, confirm.ErrUnknownTicket) {
		writeError(w, http.StatusNotFound, err.Error(), "UNKNOWN_TICKET")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
