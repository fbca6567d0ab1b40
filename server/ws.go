package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"
)

const wsIdlePingInterval = 30 * time.Second

// handleWS answers every text frame, a plain or base64 FEN, with the same text the
// /fen route would return.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		hlog.FromRequest(r).Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	log := hlog.FromRequest(r)

	send := make(chan []byte, 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, send); err != nil {
			log.Debug().Err(err).Msg("websocket write failed")
		}
	}()
	defer close(send)

	for {
		kind, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		answer := []byte(NotAvailable)
		if reply, err := s.svc.MoveEncoded(r.Context(), string(message)); err != nil {
			log.Warn().Err(err).Msg("websocket move failed")
		} else {
			answer = []byte(reply.Text())
		}
		select {
		case send <- answer:
		case <-writerDone:
			return
		}
	}
}

func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
