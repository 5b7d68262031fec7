package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by Normalize.
type Config struct {
	Addr      string `json:"addr" yaml:"addr" toml:"addr"`
	VoicesDir string `json:"voices_dir" yaml:"voices_dir" toml:"voices_dir"`
	// ModelsDir holds local GGUF backbone weights.
	ModelsDir string `json:"models_dir" yaml:"models_dir" toml:"models_dir"`

	// Comma-separated model ids loaded at startup.
	DefaultModels  string `json:"default_models" yaml:"default_models" toml:"default_models"`
	DefaultCodec   string `json:"default_codec" yaml:"default_codec" toml:"default_codec"`
	BackboneDevice string `json:"backbone_device" yaml:"backbone_device" toml:"backbone_device"`
	CodecDevice    string `json:"codec_device" yaml:"codec_device" toml:"codec_device"`

	DefaultVoice  string `json:"default_voice" yaml:"default_voice" toml:"default_voice"`
	SampleRate    int    `json:"sample_rate" yaml:"sample_rate" toml:"sample_rate"`
	DefaultFormat string `json:"default_format" yaml:"default_format" toml:"default_format"`

	// Bounded pool for blocking engine work.
	MaxWorkers int `json:"max_workers" yaml:"max_workers" toml:"max_workers"`

	// Sidecar command used by the exec engine for torch/onnx backbones.
	EngineCommand string `json:"engine_command" yaml:"engine_command" toml:"engine_command"`
	// ffmpeg binary used by the incremental audio encoder for container formats.
	FFmpegPath string `json:"ffmpeg_path" yaml:"ffmpeg_path" toml:"ffmpeg_path"`

	CORSEnabled bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`

	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`
	// DisableVoiceUpload turns off the custom voice upload/delete endpoints.
	DisableVoiceUpload bool          `json:"disable_voice_upload" yaml:"disable_voice_upload" toml:"disable_voice_upload"`
	TaskRetention      time.Duration `json:"task_retention" yaml:"task_retention" toml:"task_retention"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// FromEnv overlays NEUTTSD_* environment variables onto cfg.
// Only variables that are set override existing values.
func FromEnv(cfg Config) Config {
	if v := os.Getenv("NEUTTSD_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("NEUTTSD_VOICES_DIR"); v != "" {
		cfg.VoicesDir = v
	}
	if v := os.Getenv("NEUTTSD_MODELS_DIR"); v != "" {
		cfg.ModelsDir = v
	}
	if v := os.Getenv("NEUTTSD_DEFAULT_MODELS"); v != "" {
		cfg.DefaultModels = v
	}
	if v := os.Getenv("NEUTTSD_DEFAULT_CODEC"); v != "" {
		cfg.DefaultCodec = v
	}
	if v := os.Getenv("NEUTTSD_BACKBONE_DEVICE"); v != "" {
		cfg.BackboneDevice = v
	}
	if v := os.Getenv("NEUTTSD_CODEC_DEVICE"); v != "" {
		cfg.CodecDevice = v
	}
	if v := os.Getenv("NEUTTSD_DEFAULT_VOICE"); v != "" {
		cfg.DefaultVoice = v
	}
	if v := os.Getenv("NEUTTSD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("NEUTTSD_ENGINE_COMMAND"); v != "" {
		cfg.EngineCommand = v
	}
	if v := os.Getenv("NEUTTSD_FFMPEG"); v != "" {
		cfg.FFmpegPath = v
	}
	if v := os.Getenv("NEUTTSD_MAX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxWorkers = n
		}
	}
	return cfg
}

// Normalize fills unset fields with defaults and returns the result.
func Normalize(cfg Config) Config {
	if cfg.Addr == "" {
		cfg.Addr = ":8880"
	}
	if cfg.VoicesDir == "" {
		cfg.VoicesDir = "voices"
	}
	if cfg.ModelsDir == "" {
		cfg.ModelsDir = "models"
	}
	if cfg.DefaultModels == "" {
		cfg.DefaultModels = "neutts-nano-q4-gguf"
	}
	if cfg.DefaultCodec == "" {
		cfg.DefaultCodec = "neuphonic/neucodec-onnx-decoder"
	}
	if cfg.BackboneDevice == "" {
		cfg.BackboneDevice = "auto"
	}
	if cfg.CodecDevice == "" {
		cfg.CodecDevice = "cpu"
	}
	if cfg.DefaultVoice == "" {
		cfg.DefaultVoice = "jo"
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 24000
	}
	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = "mp3"
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 4
	}
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.TaskRetention <= 0 {
		cfg.TaskRetention = time.Hour
	}
	return cfg
}

// DefaultModelsList splits the comma-separated DefaultModels field.
func (c Config) DefaultModelsList() []string {
	var out []string
	for _, part := range strings.Split(c.DefaultModels, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
