package audio

import "encoding/binary"

// pcm16Bytes converts float32 samples in [-1, 1] to little-endian 16-bit
// signed PCM, clipping out-of-range values.
func pcm16Bytes(samples []float32) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(clip16(s)))
	}
	return out
}

// pcm16Ints converts float32 samples to int samples for go-audio buffers.
func pcm16Ints(samples []float32) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		out[i] = int(clip16(s))
	}
	return out
}

func clip16(s float32) int16 {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return int16(s * 32767)
}

// ApplySpeed resamples wav by the given speed factor using linear
// interpolation. Values above 1 shorten the audio; below 1 stretch it.
func ApplySpeed(wav []float32, speed float64) []float32 {
	if speed == 1.0 || len(wav) < 2 {
		return wav
	}
	n := int(float64(len(wav)) / speed)
	if n < 1 {
		n = 1
	}
	out := make([]float32, n)
	step := float64(len(wav)-1) / float64(maxInt(n-1, 1))
	for i := range out {
		pos := float64(i) * step
		j := int(pos)
		if j >= len(wav)-1 {
			out[i] = wav[len(wav)-1]
			continue
		}
		frac := float32(pos - float64(j))
		out[i] = wav[j] + (wav[j+1]-wav[j])*frac
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
