package types

// SpeechRequest is the OpenAI-compatible TTS request for POST /v1/audio/speech.
type SpeechRequest struct {
	// Identifier of a loaded backbone model.
	// example: neutts-nano-q4-gguf
	Model string `json:"model" example:"neutts-nano-q4-gguf"`
	// Text to synthesize (1-10000 characters).
	// example: The quick brown fox jumped over the lazy dog.
	Input string `json:"input" example:"The quick brown fox jumped over the lazy dog."`
	// Voice name (built-in or custom).
	// example: jo
	Voice string `json:"voice" example:"jo"`
	// Output audio format.
	// example: mp3
	ResponseFormat string `json:"response_format,omitempty" example:"mp3"`
	// Playback speed multiplier in [0.25, 4.0].
	// example: 1.0
	Speed float64 `json:"speed,omitempty" example:"1.0"`
	// If true, the response body is chunked as audio is generated.
	// example: false
	Stream bool `json:"stream,omitempty" example:"false"`
}

// ErrorResponse is the structured error payload returned by all endpoints.
type ErrorResponse struct {
	// Human-readable error message.
	// example: Model 'neutts-air' is not loaded
	Message string `json:"message" example:"Model 'neutts-air' is not loaded"`
	// Error category.
	// example: invalid_request_error
	Type string `json:"type" example:"invalid_request_error"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// LoadModelRequest starts an asynchronous model load.
type LoadModelRequest struct {
	// Backbone model identifier from the registry.
	// example: neutts-nano-q4-gguf
	ModelID string `json:"model_id" example:"neutts-nano-q4-gguf"`
	// Optional codec identifier; server default when empty.
	// example: neuphonic/neucodec-onnx-decoder
	Codec string `json:"codec,omitempty" example:"neuphonic/neucodec-onnx-decoder"`
	// Optional backbone device (cpu/cuda); server default when empty.
	// example: cpu
	BackboneDevice string `json:"backbone_device,omitempty" example:"cpu"`
	// Optional codec device (cpu/cuda); server default when empty.
	// example: cpu
	CodecDevice string `json:"codec_device,omitempty" example:"cpu"`
}

// SwitchDeviceRequest moves a loaded model to different devices.
type SwitchDeviceRequest struct {
	// Target backbone device (cpu/cuda).
	// example: cuda
	BackboneDevice string `json:"backbone_device,omitempty" example:"cuda"`
	// Target codec device (cpu/cuda).
	// example: cpu
	CodecDevice string `json:"codec_device,omitempty" example:"cpu"`
}

// LoadTaskResponse reports the state of an asynchronous load operation.
type LoadTaskResponse struct {
	// Unique task identifier for polling.
	// example: 7b2a6cce-6f50-4a3e-9f0e-0a8f4de35f31
	TaskID string `json:"task_id" example:"7b2a6cce-6f50-4a3e-9f0e-0a8f4de35f31"`
	// Model this task is loading.
	// example: neutts-nano-q4-gguf
	ModelID string `json:"model_id" example:"neutts-nano-q4-gguf"`
	// Task status: pending, downloading, loading, ready or error.
	// example: loading
	Status string `json:"status" example:"loading"`
	// Human-readable progress message.
	// example: Initializing model...
	ProgressMessage string `json:"progress_message" example:"Initializing model..."`
	// Failure message, set only when status is error.
	ErrorMessage string `json:"error_message,omitempty"`
	// Seconds elapsed since the task started.
	// example: 4.21
	ElapsedSeconds float64 `json:"elapsed_seconds" example:"4.21"`
}

// LoadedModelInfo describes one loaded model instance.
type LoadedModelInfo struct {
	// example: neutts-nano-q4-gguf
	ModelID string `json:"model_id" example:"neutts-nano-q4-gguf"`
	// example: neuphonic/neucodec-onnx-decoder
	Codec string `json:"codec" example:"neuphonic/neucodec-onnx-decoder"`
	// example: cpu
	BackboneDevice string `json:"backbone_device" example:"cpu"`
	// example: cpu
	CodecDevice string `json:"codec_device" example:"cpu"`
	// example: en-us
	Language string `json:"language,omitempty" example:"en-us"`
	// example: gguf
	Backend string `json:"backend,omitempty" example:"gguf"`
	// example: true
	SupportsStreaming bool `json:"supports_streaming" example:"true"`
}

// LoadedModelsResponse wraps GET /v1/models/loaded.
type LoadedModelsResponse struct {
	Models []LoadedModelInfo `json:"models"`
}

// UnloadModelResponse confirms a model unload.
type UnloadModelResponse struct {
	// example: neutts-nano-q4-gguf
	ModelID string `json:"model_id" example:"neutts-nano-q4-gguf"`
	// example: unloaded
	Status string `json:"status" example:"unloaded"`
}

// RegistryBackboneInfo describes one registry backbone entry.
type RegistryBackboneInfo struct {
	// example: neutts-nano-q4-gguf
	ModelID string `json:"model_id" example:"neutts-nano-q4-gguf"`
	// example: neuphonic/neutts-nano-q4-gguf
	Repo string `json:"repo" example:"neuphonic/neutts-nano-q4-gguf"`
	// example: en-us
	Language string `json:"language" example:"en-us"`
	// example: gguf
	Backend string `json:"backend" example:"gguf"`
	// example: true
	SupportsStreaming bool `json:"supports_streaming" example:"true"`
	Description       string `json:"description"`
	// Whether this model is currently loaded.
	// example: false
	Loaded bool `json:"loaded" example:"false"`
}

// RegistryCodecInfo describes one registry codec entry.
type RegistryCodecInfo struct {
	// example: neuphonic/neucodec
	CodecID string `json:"codec_id" example:"neuphonic/neucodec"`
	// example: neuphonic/neucodec
	Repo string `json:"repo" example:"neuphonic/neucodec"`
	// example: pytorch
	Type        string `json:"type" example:"pytorch"`
	Description string `json:"description"`
}

// RegistryResponse wraps GET /v1/models/registry.
type RegistryResponse struct {
	Backbones []RegistryBackboneInfo `json:"backbones"`
	Codecs    []RegistryCodecInfo    `json:"codecs"`
}

// ModelInfo is the OpenAI-style model listing entry for GET /v1/models.
type ModelInfo struct {
	// example: neutts-nano-q4-gguf
	ID string `json:"id" example:"neutts-nano-q4-gguf"`
	// example: model
	Object string `json:"object" example:"model"`
	// example: en-us
	Language string `json:"language,omitempty" example:"en-us"`
	// example: gguf
	Backend string `json:"backend,omitempty" example:"gguf"`
	// example: true
	SupportsStreaming bool `json:"supports_streaming" example:"true"`
	// example: cpu
	BackboneDevice string `json:"backbone_device,omitempty" example:"cpu"`
	// example: cpu
	CodecDevice string `json:"codec_device,omitempty" example:"cpu"`
}

// ModelListResponse wraps GET /v1/models.
type ModelListResponse struct {
	// example: list
	Object string      `json:"object" example:"list"`
	Data   []ModelInfo `json:"data"`
}

// ModelDetailResponse is returned by GET /v1/models/{id}.
type ModelDetailResponse struct {
	// example: neutts-nano-q4-gguf
	ID string `json:"id" example:"neutts-nano-q4-gguf"`
	// example: en-us
	Language string `json:"language" example:"en-us"`
	// example: gguf
	Backend string `json:"backend" example:"gguf"`
	// example: true
	SupportsStreaming bool `json:"supports_streaming" example:"true"`
	// example: true
	Loaded bool `json:"loaded" example:"true"`
	// example: neuphonic/neucodec-onnx-decoder
	Codec string `json:"codec,omitempty" example:"neuphonic/neucodec-onnx-decoder"`
}

// VoiceInfo describes one available voice.
type VoiceInfo struct {
	// example: jo
	VoiceID string `json:"voice_id" example:"jo"`
	// example: jo
	Name string `json:"name" example:"jo"`
	// example: en-us
	Language string `json:"language" example:"en-us"`
	// example: female
	Gender string `json:"gender" example:"female"`
	// example: false
	Custom bool `json:"custom" example:"false"`
	// True only when both reference waveform and transcript exist on disk.
	// example: true
	Available bool `json:"available" example:"true"`
}

// VoiceListResponse wraps GET /v1/audio/voices.
type VoiceListResponse struct {
	Voices []VoiceInfo `json:"voices"`
}

// VoiceUploadResponse confirms a custom voice upload.
type VoiceUploadResponse struct {
	// example: my-voice
	VoiceID string `json:"voice_id" example:"my-voice"`
	// example: uploaded
	Status string `json:"status" example:"uploaded"`
	// example: Voice uploaded (5.2s, 24000Hz)
	Message string `json:"message" example:"Voice uploaded (5.2s, 24000Hz)"`
	// example: en-us
	Language string `json:"language" example:"en-us"`
	// example: female
	Gender string `json:"gender" example:"female"`
}

// VoiceEncodeRequest optionally selects the codec to pre-encode for.
type VoiceEncodeRequest struct {
	// example: neuphonic/neucodec-onnx-decoder
	Codec string `json:"codec,omitempty" example:"neuphonic/neucodec-onnx-decoder"`
}

// VoiceEncodeResponse confirms a reference pre-encode.
type VoiceEncodeResponse struct {
	// example: jo
	VoiceID string `json:"voice_id" example:"jo"`
	// example: neuphonic/neucodec-onnx-decoder
	Codec string `json:"codec" example:"neuphonic/neucodec-onnx-decoder"`
	// example: encoded
	Status string `json:"status" example:"encoded"`
}

// VoiceDeleteResponse confirms a custom voice deletion.
type VoiceDeleteResponse struct {
	// example: my-voice
	VoiceID string `json:"voice_id" example:"my-voice"`
	// example: deleted
	Status string `json:"status" example:"deleted"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	// example: ok
	Status string `json:"status" example:"ok"`
	// example: 0.1.0
	Version string `json:"version" example:"0.1.0"`
	// example: 1
	ModelsLoaded int `json:"models_loaded" example:"1"`
	// True when the binary includes the in-process GGUF runtime.
	// example: false
	GGUFEnabled bool `json:"gguf_enabled" example:"false"`
}
