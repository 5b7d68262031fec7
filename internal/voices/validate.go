package voices

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-audio/wav"
)

// Reference audio constraints. Engines were trained on short mono clips;
// anything outside these bounds degrades cloning quality badly enough that
// the upload is rejected outright.
const (
	minSampleRate = 8000
	maxSampleRate = 48000
	minDuration   = 1 * time.Second
	maxDuration   = 30 * time.Second
)

// ValidateReference checks uploaded reference audio: WAV container, mono,
// sample rate within [8000, 48000] Hz, duration within [1s, 30s].
func ValidateReference(data []byte) error {
	d := wav.NewDecoder(bytes.NewReader(data))
	d.ReadInfo()
	if !d.IsValidFile() {
		return ErrValidation("reference audio is not a valid WAV file")
	}
	if d.NumChans != 1 {
		return ErrValidation(fmt.Sprintf("reference audio must be mono, got %d channels", d.NumChans))
	}
	if d.SampleRate < minSampleRate || d.SampleRate > maxSampleRate {
		return ErrValidation(fmt.Sprintf("reference sample rate %d Hz outside [%d, %d]", d.SampleRate, minSampleRate, maxSampleRate))
	}
	dur, err := d.Duration()
	if err != nil {
		return ErrValidation("could not determine reference audio duration")
	}
	if dur < minDuration || dur > maxDuration {
		return ErrValidation(fmt.Sprintf("reference duration %.1fs outside [%.0fs, %.0fs]", dur.Seconds(), minDuration.Seconds(), maxDuration.Seconds()))
	}
	return nil
}
