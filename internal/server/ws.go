package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/halmert/pagemason/internal/editor"
	"github.com/halmert/pagemason/internal/theme"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// CORS middleware already gates the HTTP side; the socket is
	// local-editor traffic.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// outbound is a message pushed to the editor page.
type outbound struct {
	Type   string         `json:"type"`
	Source *editor.Source `json:"source,omitempty"`
	Scheme theme.Scheme   `json:"scheme,omitempty"`
}

// inbound is a message received from the editor page.
type inbound struct {
	Type   string `json:"type"`
	ID     string `json:"id,omitempty"`
	Scheme string `json:"scheme,omitempty"`
}

// handleWS upgrades to a websocket and mirrors engine state to the
// client: the current source on connect, every coalesced sync after, and
// resolved-theme changes. The client sends selection changes and host
// color-scheme reports.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	// Writes funnel through one channel so the sync and theme callbacks
	// never race on the connection.
	send := make(chan outbound, 16)
	done := make(chan struct{})

	cancelSync := s.ctrl.OnSync(func(src editor.Source) {
		select {
		case send <- outbound{Type: "source", Source: &src}:
		case <-done:
		}
	})
	defer cancelSync()

	cancelTheme := s.resolver.OnChange(func(scheme theme.Scheme) {
		select {
		case send <- outbound{Type: "theme", Scheme: scheme}:
		case <-done:
		}
	})
	defer cancelTheme()

	go func() {
		for {
			select {
			case msg := <-send:
				if err := conn.WriteJSON(msg); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	initial := s.ctrl.Source()
	send <- outbound{Type: "source", Source: &initial}
	send <- outbound{Type: "theme", Scheme: s.resolver.Resolved()}

	for {
		var msg inbound
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		s.handleInbound(msg)
	}

	close(done)
}

func (s *Server) handleInbound(msg inbound) {
	switch msg.Type {
	case "select":
		if err := s.dom.Select(msg.ID); err != nil {
			log.Printf("select %s: %v", msg.ID, err)
		}
	case "deselect":
		s.dom.Deselect()
	case "preference":
		switch theme.Scheme(msg.Scheme) {
		case theme.SchemeLight, theme.SchemeDark:
			s.host.Set(theme.Scheme(msg.Scheme))
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
