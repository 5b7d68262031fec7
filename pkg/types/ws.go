package types

// WebSocket message types for /v1/audio/speech/stream.
const (
	WSTypeStart = "start"
	WSTypeText  = "text"
	WSTypeStop  = "stop"
	WSTypePing  = "ping"
	WSTypePong  = "pong"
	WSTypeAudio = "audio"
	WSTypeDone  = "done"
	WSTypeError = "error"
)

// WSClientMessage is any message received from a WebSocket client.
// The Type field selects which other fields are meaningful.
type WSClientMessage struct {
	// One of: start, text, stop, ping.
	// example: start
	Type string `json:"type" example:"start"`
	// Session model id (start only).
	// example: neutts-nano-q4-gguf
	Model string `json:"model,omitempty" example:"neutts-nano-q4-gguf"`
	// Session voice (start only).
	// example: jo
	Voice string `json:"voice,omitempty" example:"jo"`
	// Session output format (start only).
	// example: pcm
	ResponseFormat string `json:"response_format,omitempty" example:"pcm"`
	// Text to synthesize (text only).
	// example: Hello there.
	Text string `json:"text,omitempty" example:"Hello there."`
}

// WSServerMessage is any message sent to a WebSocket client.
type WSServerMessage struct {
	// One of: audio, done, error, pong.
	// example: audio
	Type string `json:"type" example:"audio"`
	// Base64-encoded audio payload (audio only).
	Data string `json:"data,omitempty"`
	// Audio format of the payload (audio only).
	// example: pcm
	Format string `json:"format,omitempty" example:"pcm"`
	// Error message (error only).
	Message string `json:"message,omitempty"`
}
