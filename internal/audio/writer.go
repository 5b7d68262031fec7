package audio

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Writer encodes a sequence of float32 PCM chunks into a target format,
// handing back encoded bytes as they become available. Raw PCM needs no
// state; WAV is encoded in-process; mp3/opus/aac/flac are piped through an
// ffmpeg subprocess.
type Writer struct {
	format     Format
	sampleRate int

	// wav state
	buf     *memWriteSeeker
	wavEnc  *wav.Encoder
	readPos int

	// ffmpeg state
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	sink   *drainBuffer
	waited bool

	closed bool
}

// Options configure a Writer.
type Options struct {
	// FFmpegPath is the ffmpeg binary used for container formats.
	// Defaults to "ffmpeg" on PATH.
	FFmpegPath string
}

// NewWriter opens an incremental encoder for the given format and sample
// rate. Opus is always encoded at 48 kHz regardless of sampleRate; that is a
// codec constraint, not a preference.
func NewWriter(format Format, sampleRate int, opts Options) (*Writer, error) {
	if _, ok := contentTypes[format]; !ok {
		return nil, fmt.Errorf("unsupported audio format: %q", format)
	}
	w := &Writer{format: format, sampleRate: sampleRate}
	switch format {
	case FormatPCM:
		return w, nil
	case FormatWAV:
		w.buf = &memWriteSeeker{}
		w.wavEnc = wav.NewEncoder(w.buf, sampleRate, 16, 1, 1)
		return w, nil
	default:
		return w, w.startFFmpeg(opts)
	}
}

func (w *Writer) startFFmpeg(opts Options) error {
	bin := opts.FFmpegPath
	if bin == "" {
		bin = "ffmpeg"
	}
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "s16le", "-ar", strconv.Itoa(w.sampleRate), "-ac", "1",
		"-i", "pipe:0",
	}
	args = append(args, ffmpegMuxArgs(w.format)...)
	args = append(args, "pipe:1")

	cmd := exec.Command(bin, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	sink := &drainBuffer{}
	cmd.Stdout = sink
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", bin, err)
	}
	w.cmd = cmd
	w.stdin = stdin
	w.sink = sink
	return nil
}

// WriteChunk encodes one chunk of float32 PCM and returns the bytes newly
// produced by the encoder since the previous call. The result may be empty
// while the codec is buffering.
func (w *Writer) WriteChunk(samples []float32) ([]byte, error) {
	if w.closed {
		return nil, errors.New("audio writer is closed")
	}
	switch w.format {
	case FormatPCM:
		return pcm16Bytes(samples), nil
	case FormatWAV:
		ib := &gaudio.IntBuffer{
			Format:         &gaudio.Format{NumChannels: 1, SampleRate: w.sampleRate},
			Data:           pcm16Ints(samples),
			SourceBitDepth: 16,
		}
		if err := w.wavEnc.Write(ib); err != nil {
			return nil, err
		}
		return w.newWAVBytes(), nil
	default:
		if _, err := w.stdin.Write(pcm16Bytes(samples)); err != nil {
			return nil, fmt.Errorf("feed encoder: %w", err)
		}
		return w.sink.take(), nil
	}
}

// Finalize flushes the encoder, closes the container and returns any trailing
// bytes. For raw PCM it is a no-op returning nil.
func (w *Writer) Finalize() ([]byte, error) {
	if w.closed {
		return nil, errors.New("audio writer is closed")
	}
	switch w.format {
	case FormatPCM:
		return nil, nil
	case FormatWAV:
		if err := w.wavEnc.Close(); err != nil {
			return nil, err
		}
		return w.newWAVBytes(), nil
	default:
		if err := w.stdin.Close(); err != nil {
			return nil, err
		}
		w.waited = true
		if err := w.cmd.Wait(); err != nil {
			return nil, fmt.Errorf("encoder exit: %w", err)
		}
		return w.sink.take(), nil
	}
}

// Close releases encoder resources. Safe to call multiple times and after
// Finalize.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.cmd != nil && !w.waited {
		_ = w.stdin.Close()
		_ = w.cmd.Process.Kill()
		_ = w.cmd.Wait()
	}
	return nil
}

// newWAVBytes returns the bytes appended to the WAV buffer since the last
// hand-off. The RIFF header is emitted with provisional sizes when streaming;
// EncodeComplete returns the fully patched container.
func (w *Writer) newWAVBytes() []byte {
	data := w.buf.Bytes()
	if w.readPos >= len(data) {
		return nil
	}
	out := make([]byte, len(data)-w.readPos)
	copy(out, data[w.readPos:])
	w.readPos = len(data)
	return out
}

// EncodeComplete encodes a whole utterance in one call: construct, write
// once, finalize. For WAV the returned container has correct header sizes.
func EncodeComplete(samples []float32, format Format, sampleRate int, opts Options) ([]byte, error) {
	if format == FormatPCM {
		return pcm16Bytes(samples), nil
	}
	if format == FormatWAV {
		buf := &memWriteSeeker{}
		enc := wav.NewEncoder(buf, sampleRate, 16, 1, 1)
		ib := &gaudio.IntBuffer{
			Format:         &gaudio.Format{NumChannels: 1, SampleRate: sampleRate},
			Data:           pcm16Ints(samples),
			SourceBitDepth: 16,
		}
		if err := enc.Write(ib); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	w, err := NewWriter(format, sampleRate, opts)
	if err != nil {
		return nil, err
	}
	defer w.Close()
	head, err := w.WriteChunk(samples)
	if err != nil {
		return nil, err
	}
	tail, err := w.Finalize()
	if err != nil {
		return nil, err
	}
	return append(head, tail...), nil
}

// drainBuffer collects encoder output written by the subprocess and lets the
// caller take ownership of whatever has accumulated so far.
type drainBuffer struct {
	mu   sync.Mutex
	data []byte
}

func (b *drainBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	b.data = append(b.data, p...)
	b.mu.Unlock()
	return len(p), nil
}

func (b *drainBuffer) take() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.data) == 0 {
		return nil
	}
	out := b.data
	b.data = nil
	return out
}

// memWriteSeeker is an in-memory io.WriteSeeker backing the WAV encoder,
// which needs to seek back and patch chunk sizes on close.
type memWriteSeeker struct {
	buf []byte
	pos int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	if need := m.pos + len(p); need > len(m.buf) {
		grown := make([]byte, need)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:], p)
	m.pos += len(p)
	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var next int
	switch whence {
	case io.SeekStart:
		next = int(offset)
	case io.SeekCurrent:
		next = m.pos + int(offset)
	case io.SeekEnd:
		next = len(m.buf) + int(offset)
	default:
		return 0, errors.New("invalid whence")
	}
	if next < 0 {
		return 0, errors.New("negative seek position")
	}
	m.pos = next
	return int64(next), nil
}

func (m *memWriteSeeker) Bytes() []byte { return m.buf }
