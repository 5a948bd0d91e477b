package settings

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// updateRequest carries a partial settings update; absent fields are left
// unchanged.
type updateRequest struct {
	Theme          *ThemeChoice  `json:"theme"`
	Head           *HeadSettings `json:"head"`
	PaletteEnabled *bool         `json:"palette_enabled"`
	Palette        *Palette      `json:"palette"`
}

// RegisterRoutes mounts the settings API.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Route("/api/settings", func(r chi.Router) {
		r.Get("/", handleGet(store))
		r.Put("/", handleUpdate(store))
	})
}

func handleGet(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.Values())
	}
}

func handleUpdate(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		ctx := r.Context()
		if req.Theme != nil {
			if err := store.SetTheme(ctx, *req.Theme); err != nil {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
				return
			}
		}
		if req.Head != nil {
			if err := store.SetHead(ctx, *req.Head); err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
		}
		if req.PaletteEnabled != nil {
			if err := store.SetPaletteEnabled(ctx, *req.PaletteEnabled); err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
		}
		if req.Palette != nil {
			if err := store.SetPalette(ctx, *req.Palette); err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
		}

		writeJSON(w, http.StatusOK, store.Values())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
