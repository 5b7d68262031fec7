package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"neuttsd/internal/common/fsutil"
	"neuttsd/internal/config"
	"neuttsd/internal/engine"
	"neuttsd/internal/httpapi"
	"neuttsd/internal/manager"
	"neuttsd/internal/tts"
	"neuttsd/internal/voices"
)

const version = "0.1.0"

func main() {
	root := buildRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	var configPath string
	var flags config.Config

	root := &cobra.Command{
		Use:           "neuttsd",
		Short:         "OpenAI-compatible TTS server over local NeuTTS models",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath, flags)
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "Config file (.yaml/.json/.toml)")
	root.Flags().StringVar(&flags.Addr, "addr", "", "HTTP listen address, e.g. :8880")
	root.Flags().StringVar(&flags.VoicesDir, "voices-dir", "", "Directory holding voice references and cached codes")
	root.Flags().StringVar(&flags.ModelsDir, "models-dir", "", "Directory holding local GGUF backbone weights")
	root.Flags().StringVar(&flags.DefaultModels, "default-models", "", "Comma-separated model ids loaded at startup")
	root.Flags().StringVar(&flags.DefaultCodec, "default-codec", "", "Codec id used when a load request omits one")
	root.Flags().StringVar(&flags.BackboneDevice, "backbone-device", "", "Default backbone device: auto|cpu|cuda")
	root.Flags().StringVar(&flags.CodecDevice, "codec-device", "", "Default codec device: cpu|cuda")
	root.Flags().StringVar(&flags.DefaultVoice, "default-voice", "", "Voice used when a request omits one")
	root.Flags().StringVar(&flags.EngineCommand, "engine-command", "", "Sidecar command for torch/onnx inference")
	root.Flags().StringVar(&flags.FFmpegPath, "ffmpeg", "", "ffmpeg binary for container audio formats")
	root.Flags().StringVar(&flags.LogLevel, "log-level", "", "Log level: debug|info|warn|error")
	root.Flags().IntVar(&flags.MaxWorkers, "max-workers", 0, "Bounded pool size for blocking engine work")

	return root
}

// overlay applies non-zero flag values on top of cfg.
func overlay(cfg, flags config.Config) config.Config {
	if flags.Addr != "" {
		cfg.Addr = flags.Addr
	}
	if flags.VoicesDir != "" {
		cfg.VoicesDir = flags.VoicesDir
	}
	if flags.ModelsDir != "" {
		cfg.ModelsDir = flags.ModelsDir
	}
	if flags.DefaultModels != "" {
		cfg.DefaultModels = flags.DefaultModels
	}
	if flags.DefaultCodec != "" {
		cfg.DefaultCodec = flags.DefaultCodec
	}
	if flags.BackboneDevice != "" {
		cfg.BackboneDevice = flags.BackboneDevice
	}
	if flags.CodecDevice != "" {
		cfg.CodecDevice = flags.CodecDevice
	}
	if flags.DefaultVoice != "" {
		cfg.DefaultVoice = flags.DefaultVoice
	}
	if flags.EngineCommand != "" {
		cfg.EngineCommand = flags.EngineCommand
	}
	if flags.FFmpegPath != "" {
		cfg.FFmpegPath = flags.FFmpegPath
	}
	if flags.LogLevel != "" {
		cfg.LogLevel = flags.LogLevel
	}
	if flags.MaxWorkers > 0 {
		cfg.MaxWorkers = flags.MaxWorkers
	}
	return cfg
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
}

func serve(configPath string, flags config.Config) error {
	var cfg config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}
	cfg = config.Normalize(overlay(config.FromEnv(cfg), flags))
	if cfg.VoicesDir, err = fsutil.ExpandHome(cfg.VoicesDir); err != nil {
		return fmt.Errorf("voices dir: %w", err)
	}
	if cfg.ModelsDir, err = fsutil.ExpandHome(cfg.ModelsDir); err != nil {
		return fmt.Errorf("models dir: %w", err)
	}

	log := newLogger(cfg.LogLevel)

	factory := engine.DefaultFactory(engine.Config{
		ModelsDir:      cfg.ModelsDir,
		SidecarCommand: cfg.EngineCommand,
		SampleRate:     cfg.SampleRate,
	})

	mgrLog := log.With().Str("component", "manager").Logger()
	mgr := manager.New(manager.Config{
		Factory:        factory,
		DefaultCodec:   cfg.DefaultCodec,
		BackboneDevice: cfg.BackboneDevice,
		CodecDevice:    cfg.CodecDevice,
		MaxWorkers:     cfg.MaxWorkers,
		TaskRetention:  cfg.TaskRetention,
		Logger:         &mgrLog,
	})

	voicesLog := log.With().Str("component", "voices").Logger()
	store := voices.NewStore(voices.Config{Dir: cfg.VoicesDir, Logger: &voicesLog})

	ttsLog := log.With().Str("component", "tts").Logger()
	orch := tts.New(mgr, store, tts.Config{
		DefaultModel: firstModel(cfg),
		DefaultVoice: cfg.DefaultVoice,
		SampleRate:   cfg.SampleRate,
		FFmpegPath:   cfg.FFmpegPath,
		Logger:       &ttsLog,
	})

	httpapi.SetLogger(log.With().Str("component", "http").Logger())
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins,
		[]string{"GET", "POST", "DELETE", "OPTIONS"},
		[]string{"Accept", "Content-Type", "X-Log-Level"})
	httpapi.SetAllowVoiceUpload(!cfg.DisableVoiceUpload)

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	mux := httpapi.NewMux(httpapi.Deps{
		Speech:        orch,
		Models:        mgr,
		Voices:        store,
		DefaultFormat: cfg.DefaultFormat,
		Version:       version,
	})
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	// Default models load in the background so the API answers immediately;
	// requests against a still-loading model see NotLoaded until ready.
	go mgr.Startup(cfg.DefaultModelsList())

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("voices_dir", cfg.VoicesDir).Msg("neuttsd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	mgr.Shutdown()
	return nil
}

func firstModel(cfg config.Config) string {
	models := cfg.DefaultModelsList()
	if len(models) == 0 {
		return ""
	}
	return models[0]
}
