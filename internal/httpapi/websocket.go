package httpapi

import (
	"encoding/base64"
	"net/http"

	"github.com/gorilla/websocket"

	"neuttsd/internal/audio"
	"neuttsd/internal/tts"
	"neuttsd/pkg/types"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// Same policy as the REST surface: CORS is enforced (or not) by
		// deployment configuration, not per-connection.
		return true
	},
}

// wsSession holds the per-connection synthesis parameters set by a start
// message.
type wsSession struct {
	started bool
	model   string
	voice   string
	format  string
}

// handleSpeechWS drives the WebSocket synthesis protocol: a start message
// fixes model/voice/format for the session, each text message produces
// audio frames followed by done, errors are reported as frames without
// closing the connection.
func (s *server) handleSpeechWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		return
	}
	defer conn.Close()

	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()

	wsError := func(msg string) bool {
		return conn.WriteJSON(types.WSServerMessage{Type: types.WSTypeError, Message: msg}) == nil
	}

	var sess wsSession
	for {
		var msg types.WSClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case types.WSTypePing:
			if conn.WriteJSON(types.WSServerMessage{Type: types.WSTypePong}) != nil {
				return
			}

		case types.WSTypeStop:
			return

		case types.WSTypeStart:
			formatStr := msg.ResponseFormat
			if formatStr == "" {
				formatStr = s.defaultFormat
			}
			if _, err := audio.ParseFormat(formatStr); err != nil {
				if !wsError(err.Error()) {
					return
				}
				continue
			}
			sess = wsSession{started: true, model: msg.Model, voice: msg.Voice, format: formatStr}

		case types.WSTypeText:
			if !sess.started {
				if !wsError("start message required before text") {
					return
				}
				continue
			}
			format, _ := audio.ParseFormat(sess.format)
			countSynthesis(sess.format, "ws")
			err := s.speech.Stream(ctx, tts.Request{
				Model:  sess.model,
				Input:  msg.Text,
				Voice:  sess.voice,
				Format: format,
			}, func(b []byte) error {
				return conn.WriteJSON(types.WSServerMessage{
					Type:   types.WSTypeAudio,
					Data:   base64.StdEncoding.EncodeToString(b),
					Format: sess.format,
				})
			})
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if !wsError(err.Error()) {
					return
				}
				continue
			}
			if conn.WriteJSON(types.WSServerMessage{Type: types.WSTypeDone}) != nil {
				return
			}

		default:
			if !wsError("unknown message type: " + msg.Type) {
				return
			}
		}
	}
}
