package export

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// InputFunc supplies the current export input (synced source plus the
// effective export settings) at request time.
type InputFunc func() Input

// RegisterRoutes mounts the export API. The browser receives the bundle
// as JSON and triggers the three downloads itself.
func RegisterRoutes(r chi.Router, current InputFunc) {
	r.Post("/api/export", func(w http.ResponseWriter, r *http.Request) {
		var overrides struct {
			Title    *string `json:"title"`
			BaseName *string `json:"base_name"`
		}
		// An empty body means "export with the stored settings".
		if err := json.NewDecoder(r.Body).Decode(&overrides); err != nil && !errors.Is(err, io.EOF) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid request body"})
			return
		}

		in := current()
		if overrides.Title != nil {
			in.Title = *overrides.Title
		}
		if overrides.BaseName != nil {
			in.BaseName = *overrides.BaseName
		}

		bundle := Assemble(in)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(bundle)
	})
}
