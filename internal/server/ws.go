package server

import (
	"net/http"

	"github.com/raysh454/vulnscan-web/internal/logging"
	"github.com/raysh454/vulnscan-web/internal/model"
	"github.com/raysh454/vulnscan-web/internal/submission"
)

// statusSnapshot is the first message on a status socket.
type statusSnapshot struct {
	Type  string           `json:"type"`
	State submission.State `json:"state"`
	Mode  model.ScanKind   `json:"mode"`
	Error string           `json:"error,omitempty"`
}

// handleStatusWS streams the session's form transitions until the client
// goes away.
func (s *Server) handleStatusWS(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r.Context())

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	events, cancel := st.Broker.Subscribe()
	defer cancel()

	snap := st.Form.Snapshot()
	if err := conn.WriteJSON(statusSnapshot{Type: "snapshot", State: snap.State, Mode: snap.Mode, Error: snap.Error}); err != nil {
		return
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case t, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(t); err != nil {
				s.logger.Debug("status socket write", logging.Field{Key: "error", Value: err.Error()})
				return
			}
		}
	}
}
