package editor

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the source view API.
func RegisterRoutes(r chi.Router, ctrl *Controller) {
	r.Route("/api/source", func(r chi.Router) {
		r.Get("/", handleGet(ctrl))
		r.Post("/apply", handleApply(ctrl))
		r.Post("/format", handleFormat(ctrl))
		r.Put("/js", handleSetJS(ctrl))
		r.Post("/advanced", handleAdvanced(ctrl))
	})
}

// sourceResponse is the JSON shape of the synced source view.
type sourceResponse struct {
	HTML     string `json:"html"`
	CSS      string `json:"css"`
	JS       string `json:"js"`
	Advanced bool   `json:"advanced"`
}

// tabRequest carries one tab's text for apply/format.
type tabRequest struct {
	Tab  Tab    `json:"tab"`
	Text string `json:"text"`
}

func handleGet(ctrl *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		src := ctrl.Source()
		writeJSON(w, http.StatusOK, sourceResponse{
			HTML:     src.HTML,
			CSS:      src.CSS,
			JS:       src.JS,
			Advanced: ctrl.Advanced(),
		})
	}
}

func handleApply(ctrl *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tabRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		if err := ctrl.Apply(req.Tab, req.Text); err != nil {
			writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
			return
		}

		status := "applied"
		if req.Tab == TabJS {
			status = "saved for export"
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": status})
	}
}

func handleFormat(ctrl *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tabRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		formatted, err := ctrl.Format(req.Tab, req.Text)
		if err != nil {
			writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"text": formatted})
	}
}

func handleSetJS(ctrl *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		ctrl.SetJS(req.Text)
		writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
	}
}

func handleAdvanced(ctrl *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Enabled bool `json:"enabled"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		ctrl.SetAdvanced(req.Enabled)
		writeJSON(w, http.StatusOK, map[string]bool{"advanced": req.Enabled})
	}
}

// statusFor maps apply/format failures onto HTTP statuses: precondition
// failures are 409s, bad input is a 422.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrAdvancedMode), errors.Is(err, ErrNoSelection):
		return http.StatusConflict
	case errors.Is(err, ErrUnknownTab):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
