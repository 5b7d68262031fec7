package httpapi

import (
	"encoding/base64"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"neuttsd/pkg/types"
)

var errTestSynthesis = errors.New("synthesis failed")

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/audio/speech/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func readWS(t *testing.T, conn *websocket.Conn) types.WSServerMessage {
	t.Helper()
	var msg types.WSServerMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestWSPingPong(t *testing.T) {
	srv := newTestServer(nil, nil, nil)
	defer srv.Close()
	conn := dialWS(t, srv)
	defer conn.Close()

	conn.WriteJSON(types.WSClientMessage{Type: types.WSTypePing})
	if msg := readWS(t, conn); msg.Type != types.WSTypePong {
		t.Fatalf("expected pong, got %+v", msg)
	}
}

func TestWSTextBeforeStart(t *testing.T) {
	srv := newTestServer(nil, nil, nil)
	defer srv.Close()
	conn := dialWS(t, srv)
	defer conn.Close()

	conn.WriteJSON(types.WSClientMessage{Type: types.WSTypeText, Text: "hello"})
	msg := readWS(t, conn)
	if msg.Type != types.WSTypeError {
		t.Fatalf("expected error frame, got %+v", msg)
	}

	// Session survives the error: ping still answered.
	conn.WriteJSON(types.WSClientMessage{Type: types.WSTypePing})
	if msg := readWS(t, conn); msg.Type != types.WSTypePong {
		t.Fatalf("connection should stay open after error, got %+v", msg)
	}
}

func TestWSSynthesis(t *testing.T) {
	sp := &mockSpeech{chunks: [][]byte{[]byte("aa"), []byte("bb")}}
	srv := newTestServer(sp, nil, nil)
	defer srv.Close()
	conn := dialWS(t, srv)
	defer conn.Close()

	conn.WriteJSON(types.WSClientMessage{Type: types.WSTypeStart, Model: "neutts-nano-q4-gguf", Voice: "jo", ResponseFormat: "pcm"})
	conn.WriteJSON(types.WSClientMessage{Type: types.WSTypeText, Text: "hello"})

	var payload []byte
	for {
		msg := readWS(t, conn)
		if msg.Type == types.WSTypeDone {
			break
		}
		if msg.Type != types.WSTypeAudio {
			t.Fatalf("unexpected frame %+v", msg)
		}
		if msg.Format != "pcm" {
			t.Fatalf("audio frame format %q", msg.Format)
		}
		raw, err := base64.StdEncoding.DecodeString(msg.Data)
		if err != nil {
			t.Fatalf("bad base64: %v", err)
		}
		payload = append(payload, raw...)
	}
	if string(payload) != "aabb" {
		t.Fatalf("audio payload %q", payload)
	}
	if sp.lastReq.Model != "neutts-nano-q4-gguf" || sp.lastReq.Voice != "jo" {
		t.Fatalf("session parameters not applied: %+v", sp.lastReq)
	}

	// A second text message reuses the session.
	conn.WriteJSON(types.WSClientMessage{Type: types.WSTypeText, Text: "again"})
	frames := 0
	for {
		msg := readWS(t, conn)
		if msg.Type == types.WSTypeDone {
			break
		}
		frames++
	}
	if frames != 2 {
		t.Fatalf("expected 2 audio frames on second utterance, got %d", frames)
	}
}

func TestWSSynthesisError(t *testing.T) {
	sp := &mockSpeech{err: errTestSynthesis}
	srv := newTestServer(sp, nil, nil)
	defer srv.Close()
	conn := dialWS(t, srv)
	defer conn.Close()

	conn.WriteJSON(types.WSClientMessage{Type: types.WSTypeStart, ResponseFormat: "pcm"})
	conn.WriteJSON(types.WSClientMessage{Type: types.WSTypeText, Text: "hello"})
	msg := readWS(t, conn)
	if msg.Type != types.WSTypeError || msg.Message == "" {
		t.Fatalf("expected error frame, got %+v", msg)
	}

	// Connection stays usable.
	conn.WriteJSON(types.WSClientMessage{Type: types.WSTypePing})
	if msg := readWS(t, conn); msg.Type != types.WSTypePong {
		t.Fatalf("connection should stay open after synthesis error")
	}
}
