package engine

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/go-audio/wav"
	shellwords "github.com/mattn/go-shellwords"
)

// execEngine shells out to a sidecar process for every operation. It carries
// the torch/onnx backbones, whose runtimes live outside this process.
type execEngine struct {
	argv []string
	spec Spec
}

func newExecEngine(cfg Config, spec Spec) (Engine, error) {
	if strings.TrimSpace(cfg.SidecarCommand) == "" {
		return nil, fmt.Errorf("no sidecar command configured for backend %q", spec.Backbone.Backend)
	}
	argv, err := shellwords.NewParser().Parse(cfg.SidecarCommand)
	if err != nil {
		return nil, fmt.Errorf("parse sidecar command: %w", err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("sidecar command is empty")
	}
	if _, err := exec.LookPath(argv[0]); err != nil {
		return nil, fmt.Errorf("sidecar binary: %w", err)
	}
	return &execEngine{argv: argv, spec: spec}, nil
}

func (e *execEngine) baseArgs(op string) []string {
	args := append([]string{}, e.argv[1:]...)
	args = append(args, op,
		"--backbone", e.spec.Backbone.Repo,
		"--codec", e.spec.CodecID,
		"--backbone-device", e.spec.BackboneDevice,
		"--codec-device", e.spec.CodecDevice,
	)
	return args
}

func (e *execEngine) run(args []string, stdin []byte) ([]byte, error) {
	cmd := exec.Command(e.argv[0], args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("sidecar %s failed: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

func (e *execEngine) Infer(text string, refCodes []byte, refText string) ([]float32, error) {
	codesFile, err := os.CreateTemp("", "neuttsd_codes_*.bin")
	if err != nil {
		return nil, fmt.Errorf("temp file: %w", err)
	}
	defer os.Remove(codesFile.Name())
	if _, err := codesFile.Write(refCodes); err != nil {
		codesFile.Close()
		return nil, fmt.Errorf("write codes: %w", err)
	}
	if err := codesFile.Close(); err != nil {
		return nil, err
	}

	args := e.baseArgs("infer")
	args = append(args, "--ref-codes", codesFile.Name(), "--ref-text", refText)
	out, err := e.run(args, []byte(text))
	if err != nil {
		return nil, err
	}
	return decodeWAV(out)
}

func (e *execEngine) InferStream(text string, refCodes []byte, refText string, emit func([]float32) error) error {
	return fmt.Errorf("backend %q does not stream", e.spec.Backbone.Backend)
}

func (e *execEngine) EncodeReference(wavPath string) ([]byte, error) {
	args := e.baseArgs("encode")
	args = append(args, "--audio", wavPath)
	return e.run(args, nil)
}

func (e *execEngine) Close() error { return nil }

// decodeWAV reads a mono 16-bit WAV payload into float32 samples.
func decodeWAV(data []byte) ([]float32, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode sidecar wav: %w", err)
	}
	if buf.Format != nil && buf.Format.NumChannels != 1 {
		return nil, fmt.Errorf("sidecar wav must be mono, got %d channels", buf.Format.NumChannels)
	}
	out := make([]float32, len(buf.Data))
	for i, s := range buf.Data {
		out[i] = float32(s) / 32768
	}
	return out, nil
}
