// Package httpapi exposes the OpenAI-compatible HTTP and WebSocket surface
// over the lifecycle manager, voice store and synthesis orchestrator.
package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"neuttsd/internal/audio"
	"neuttsd/internal/engine"
	"neuttsd/internal/manager"
	"neuttsd/internal/registry"
	"neuttsd/internal/tts"
	"neuttsd/internal/voices"
	"neuttsd/pkg/types"
)

// Speech is the synthesis surface required by the speech endpoints.
type Speech interface {
	Generate(ctx context.Context, req tts.Request) ([]byte, error)
	Stream(ctx context.Context, req tts.Request, emit func([]byte) error) error
}

// ModelService is the lifecycle surface required by the model endpoints.
type ModelService interface {
	RequestLoad(req manager.LoadRequest) (manager.LoadTask, error)
	GetTask(taskID string) (manager.LoadTask, error)
	Loaded() []*manager.Handle
	IsLoaded(modelID string) bool
	Unload(modelID string) error
	SwitchDevice(modelID, backboneDevice, codecDevice string) (manager.LoadTask, error)
	CleanupOldTasks(maxAge time.Duration) int
	TaskRetention() time.Duration
	EncodeReference(ctx context.Context, modelID, wavPath string) ([]byte, error)
}

// VoiceService is the voice store surface required by the voice endpoints.
type VoiceService interface {
	Voices() []voices.Entry
	Voice(name string) (voices.Entry, error)
	Upload(name string, wavData []byte, refText, language, gender string) (string, error)
	Delete(name string) error
	GetOrEncodeReferenceCodes(ctx context.Context, name, codecID, modelID string, enc voices.Encoder) ([]byte, error)
}

// Deps bundles the services the mux routes to.
type Deps struct {
	Speech Speech
	Models ModelService
	Voices VoiceService
	// DefaultFormat is used when a speech request omits response_format.
	DefaultFormat string
	Version       string
}

type server struct {
	speech        Speech
	models        ModelService
	voices        VoiceService
	defaultFormat string
	version       string
}

func NewMux(deps Deps) http.Handler {
	s := &server{
		speech:        deps.Speech,
		models:        deps.Models,
		voices:        deps.Voices,
		defaultFormat: deps.DefaultFormat,
		version:       deps.Version,
	}
	if s.defaultFormat == "" {
		s.defaultFormat = string(audio.FormatMP3)
	}

	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints; audio content types are not in the
	// default compressible set.
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}

	r.Post("/v1/audio/speech", s.handleSpeech)
	r.Get("/v1/audio/speech/stream", s.handleSpeechWS)
	r.Get("/v1/audio/voices", s.handleListVoices)
	r.Post("/v1/audio/voices/upload", s.handleUploadVoice)
	r.Post("/v1/audio/voices/{id}/encode", s.handleEncodeVoice)
	r.Delete("/v1/audio/voices/{id}", s.handleDeleteVoice)

	r.Get("/v1/models", s.handleListModels)
	r.Post("/v1/models/load", s.handleLoadModel)
	r.Get("/v1/models/load/{task_id}", s.handleLoadStatus)
	r.Get("/v1/models/loaded", s.handleLoadedModels)
	r.Get("/v1/models/registry", s.handleRegistry)
	r.Get("/v1/models/{id}", s.handleModelDetail)
	r.Post("/v1/models/{id}/switch-device", s.handleSwitchDevice)
	r.Delete("/v1/models/{id}", s.handleUnloadModel)

	r.Get("/health", s.handleHealth)

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// decodeJSON enforces the JSON content type and body limit shared by the
// non-multipart POST endpoints.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, errTypeInvalidRequest, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, errTypeInvalidRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *server) handleSpeech(w http.ResponseWriter, r *http.Request) {
	var req types.SpeechRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		writeJSONError(w, http.StatusBadRequest, errTypeInvalidRequest, "input is required")
		return
	}
	formatStr := req.ResponseFormat
	if formatStr == "" {
		formatStr = s.defaultFormat
	}
	format, err := audio.ParseFormat(formatStr)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, errTypeInvalidRequest, err.Error())
		return
	}

	ttsReq := tts.Request{
		Model:  req.Model,
		Input:  req.Input,
		Voice:  req.Voice,
		Format: format,
		Speed:  req.Speed,
	}

	lvl := requestLogLevel(r)
	start := time.Now()
	if lvl >= LevelInfo && zlog != nil {
		z := zlog.Info().Str("model", req.Model).Str("voice", req.Voice).Str("format", formatStr).Bool("stream", req.Stream)
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			z = z.Str("request_id", rid)
		}
		z.Msg("speech start")
	}

	// Join server base context with request context so shutdown cancels work too.
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()

	if !req.Stream {
		countSynthesis(formatStr, "full")
		data, err := s.speech.Generate(ctx, ttsReq)
		if err != nil {
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			writeServiceError(w, err)
			s.logSpeechEnd(r, lvl, start, err)
			return
		}
		w.Header().Set("Content-Type", audio.ContentType(format))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		s.logSpeechEnd(r, lvl, start, nil)
		return
	}

	countSynthesis(formatStr, "stream")
	flush := func() {}
	if f, ok := w.(http.Flusher); ok {
		flush = f.Flush
	}
	wrote := false
	err = s.speech.Stream(ctx, ttsReq, func(b []byte) error {
		if !wrote {
			w.Header().Set("Content-Type", audio.ContentType(format))
			w.WriteHeader(http.StatusOK)
			wrote = true
		}
		if _, werr := w.Write(b); werr != nil {
			return werr
		}
		flush()
		return nil
	})
	if err != nil {
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			return
		}
		if !wrote {
			writeServiceError(w, err)
		}
		// Headers already sent: the truncated body is all the client gets.
		s.logSpeechEnd(r, lvl, start, err)
		return
	}
	if !wrote {
		w.Header().Set("Content-Type", audio.ContentType(format))
		w.WriteHeader(http.StatusOK)
	}
	s.logSpeechEnd(r, lvl, start, nil)
}

func (s *server) logSpeechEnd(r *http.Request, lvl LogLevel, start time.Time, err error) {
	if lvl < LevelInfo || zlog == nil {
		return
	}
	z := zlog.Info().Dur("dur", time.Since(start))
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	if err != nil {
		z = z.Err(err)
	}
	z.Msg("speech end")
}

func (s *server) handleListVoices(w http.ResponseWriter, r *http.Request) {
	entries := s.voices.Voices()
	resp := types.VoiceListResponse{Voices: make([]types.VoiceInfo, 0, len(entries))}
	for _, e := range entries {
		resp.Voices = append(resp.Voices, types.VoiceInfo{
			VoiceID:   e.Name,
			Name:      e.Name,
			Language:  e.Language,
			Gender:    e.Gender,
			Custom:    !e.Builtin,
			Available: e.Available,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleUploadVoice(w http.ResponseWriter, r *http.Request) {
	if !allowVoiceUpload {
		writeJSONError(w, http.StatusForbidden, errTypeInvalidRequest, "voice upload is disabled")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSONError(w, http.StatusBadRequest, errTypeInvalidRequest, "invalid multipart form")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	refText := strings.TrimSpace(r.FormValue("reference_text"))
	language := r.FormValue("language")
	gender := r.FormValue("gender")
	if name == "" {
		writeJSONError(w, http.StatusBadRequest, errTypeInvalidRequest, "name is required")
		return
	}
	if refText == "" {
		writeJSONError(w, http.StatusBadRequest, errTypeInvalidRequest, "reference_text is required")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, errTypeInvalidRequest, "file is required")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, errTypeInvalidRequest, "could not read uploaded file")
		return
	}

	if err := voices.ValidateReference(data); err != nil {
		writeServiceError(w, err)
		return
	}
	if _, err := s.voices.Upload(name, data, refText, language, gender); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.VoiceUploadResponse{
		VoiceID:  name,
		Status:   "uploaded",
		Message:  "voice uploaded and registered",
		Language: language,
		Gender:   gender,
	})
}

func (s *server) handleEncodeVoice(w http.ResponseWriter, r *http.Request) {
	voiceID := chi.URLParam(r, "id")
	var req types.VoiceEncodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// Pre-encoding needs a loaded engine. Prefer one already using the
	// requested codec.
	loaded := s.models.Loaded()
	if len(loaded) == 0 {
		writeServiceError(w, manager.ErrNotLoaded("any"))
		return
	}
	h := loaded[0]
	if req.Codec != "" {
		for _, cand := range loaded {
			if cand.CodecID == req.Codec {
				h = cand
				break
			}
		}
	}
	codec := req.Codec
	if codec == "" {
		codec = h.CodecID
	}

	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	if _, err := s.voices.GetOrEncodeReferenceCodes(ctx, voiceID, codec, h.ModelID, s.models); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.VoiceEncodeResponse{VoiceID: voiceID, Codec: codec, Status: "encoded"})
}

func (s *server) handleDeleteVoice(w http.ResponseWriter, r *http.Request) {
	if !allowVoiceUpload {
		writeJSONError(w, http.StatusForbidden, errTypeInvalidRequest, "voice management is disabled")
		return
	}
	voiceID := chi.URLParam(r, "id")
	if err := s.voices.Delete(voiceID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.VoiceDeleteResponse{VoiceID: voiceID, Status: "deleted"})
}

func taskResponse(t manager.LoadTask) types.LoadTaskResponse {
	return types.LoadTaskResponse{
		TaskID:          t.TaskID,
		ModelID:         t.ModelID,
		Status:          string(t.Status),
		ProgressMessage: t.ProgressMessage,
		ErrorMessage:    t.ErrorMessage,
		ElapsedSeconds:  t.Elapsed().Seconds(),
	}
}

func (s *server) handleLoadModel(w http.ResponseWriter, r *http.Request) {
	var req types.LoadModelRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ModelID) == "" {
		writeJSONError(w, http.StatusBadRequest, errTypeInvalidRequest, "model_id is required")
		return
	}

	// Opportunistic housekeeping on the task table.
	s.models.CleanupOldTasks(s.models.TaskRetention())

	task, err := s.models.RequestLoad(manager.LoadRequest{
		ModelID:        req.ModelID,
		CodecID:        req.Codec,
		BackboneDevice: req.BackboneDevice,
		CodecDevice:    req.CodecDevice,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse(task))
}

func (s *server) handleLoadStatus(w http.ResponseWriter, r *http.Request) {
	task, err := s.models.GetTask(chi.URLParam(r, "task_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse(task))
}

func (s *server) handleLoadedModels(w http.ResponseWriter, r *http.Request) {
	loaded := s.models.Loaded()
	resp := types.LoadedModelsResponse{Models: make([]types.LoadedModelInfo, 0, len(loaded))}
	for _, h := range loaded {
		resp.Models = append(resp.Models, types.LoadedModelInfo{
			ModelID:           h.ModelID,
			Codec:             h.CodecID,
			BackboneDevice:    h.BackboneDevice,
			CodecDevice:       h.CodecDevice,
			Language:          h.Backbone.Language,
			Backend:           string(h.Backbone.Backend),
			SupportsStreaming: h.Backbone.SupportsStreaming,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleUnloadModel(w http.ResponseWriter, r *http.Request) {
	modelID := chi.URLParam(r, "id")
	if err := s.models.Unload(modelID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.UnloadModelResponse{ModelID: modelID, Status: "unloaded"})
}

func (s *server) handleSwitchDevice(w http.ResponseWriter, r *http.Request) {
	modelID := chi.URLParam(r, "id")
	var req types.SwitchDeviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	task, err := s.models.SwitchDevice(modelID, req.BackboneDevice, req.CodecDevice)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse(task))
}

func (s *server) handleRegistry(w http.ResponseWriter, r *http.Request) {
	resp := types.RegistryResponse{}
	for _, b := range registry.Backbones() {
		resp.Backbones = append(resp.Backbones, types.RegistryBackboneInfo{
			ModelID:           b.ID,
			Repo:              b.Repo,
			Language:          b.Language,
			Backend:           string(b.Backend),
			SupportsStreaming: b.SupportsStreaming,
			Description:       b.Description,
			Loaded:            s.models.IsLoaded(b.ID),
		})
	}
	for _, c := range registry.Codecs() {
		resp.Codecs = append(resp.Codecs, types.RegistryCodecInfo{
			CodecID:     c.ID,
			Repo:        c.Repo,
			Type:        c.Type,
			Description: c.Description,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleListModels(w http.ResponseWriter, r *http.Request) {
	resp := types.ModelListResponse{Object: "list", Data: []types.ModelInfo{}}
	for _, h := range s.models.Loaded() {
		resp.Data = append(resp.Data, types.ModelInfo{
			ID:                h.ModelID,
			Object:            "model",
			Language:          h.Backbone.Language,
			Backend:           string(h.Backbone.Backend),
			SupportsStreaming: h.Backbone.SupportsStreaming,
			BackboneDevice:    h.BackboneDevice,
			CodecDevice:       h.CodecDevice,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleModelDetail(w http.ResponseWriter, r *http.Request) {
	modelID := chi.URLParam(r, "id")
	b, ok := registry.BackboneByID(modelID)
	if !ok {
		writeServiceError(w, manager.ErrModelNotFound(modelID))
		return
	}
	resp := types.ModelDetailResponse{
		ID:                b.ID,
		Language:          b.Language,
		Backend:           string(b.Backend),
		SupportsStreaming: b.SupportsStreaming,
		Loaded:            s.models.IsLoaded(b.ID),
	}
	for _, h := range s.models.Loaded() {
		if h.ModelID == b.ID {
			resp.Codec = h.CodecID
			break
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:       "ok",
		Version:      s.version,
		ModelsLoaded: len(s.models.Loaded()),
		GGUFEnabled:  engine.GGUFBuilt(),
	})
}
