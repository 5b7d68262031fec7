// Package audio converts float32 PCM produced by the inference engines into
// client-facing audio formats, incrementally where the container allows it.
package audio

import "fmt"

// Format is a supported output audio format.
type Format string

const (
	FormatMP3  Format = "mp3"
	FormatOpus Format = "opus"
	FormatAAC  Format = "aac"
	FormatFLAC Format = "flac"
	FormatWAV  Format = "wav"
	FormatPCM  Format = "pcm"
)

// opusRate is the only sample rate the opus codec accepts.
const opusRate = 48000

var contentTypes = map[Format]string{
	FormatMP3:  "audio/mpeg",
	FormatOpus: "audio/ogg",
	FormatAAC:  "audio/aac",
	FormatFLAC: "audio/flac",
	FormatWAV:  "audio/wav",
	FormatPCM:  "audio/pcm",
}

// ParseFormat validates a client-supplied format string.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if _, ok := contentTypes[f]; !ok {
		return "", fmt.Errorf("unsupported audio format: %q", s)
	}
	return f, nil
}

// ContentType returns the MIME type served for a format.
func ContentType(f Format) string {
	if ct, ok := contentTypes[f]; ok {
		return ct
	}
	return "application/octet-stream"
}

// ffmpegMuxArgs returns the output muxer/codec arguments for container
// formats encoded through ffmpeg.
func ffmpegMuxArgs(f Format) []string {
	switch f {
	case FormatMP3:
		return []string{"-f", "mp3"}
	case FormatOpus:
		return []string{"-c:a", "libopus", "-ar", "48000", "-f", "ogg"}
	case FormatAAC:
		return []string{"-c:a", "aac", "-f", "adts"}
	case FormatFLAC:
		return []string{"-f", "flac"}
	default:
		return nil
	}
}
