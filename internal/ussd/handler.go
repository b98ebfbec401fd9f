package ussd

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler serves the gateway callback endpoint.
type Handler struct {
	machine *Machine
}

// NewHandler creates a handler around the state machine.
func NewHandler(machine *Machine) *Handler {
	return &Handler{machine: machine}
}

// RegisterRoutes mounts the USSD callback route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/ussd", h.Callback)
}

// Callback handles one gateway turn. The aggregator POSTs form fields
// sessionId, phoneNumber and text (the accumulated *-joined input), and
// expects a plain-text "CON ..." or "END ..." body.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	sessionID := r.FormValue("sessionId")
	phone := r.FormValue("phoneNumber")
	text := r.FormValue("text")

	if sessionID == "" || phone == "" {
		http.Error(w, "sessionId and phoneNumber are required", http.StatusBadRequest)
		return
	}

	reply := h.machine.Handle(r.Context(), sessionID, phone, text)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(reply.Wire())); err != nil {
		slog.Warn("Failed to write USSD reply", "session_id", sessionID, "error", err)
	}
}
