package entities

import (
	"encoding/binary"
	"errors"
)

// AudioData is a decoded, normalized audio buffer: mono signed 16-bit
// samples at a fixed sample rate, ready for a recognition model.
type AudioData struct {
	Samples      []int16
	SampleRate   int
	SourceFormat string
}

// Duration returns the buffer length in seconds.
func (a *AudioData) Duration() float64 {
	if a.SampleRate <= 0 {
		return 0
	}
	return float64(len(a.Samples)) / float64(a.SampleRate)
}

// Peak returns the largest absolute sample amplitude normalized to [0, 1].
// A recording of silence stays well below 0.01.
func (a *AudioData) Peak() float64 {
	var peak float64
	for _, s := range a.Samples {
		v := float64(s)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	return peak / 32768.0
}

// PCM returns the samples as little-endian 16-bit PCM bytes, the layout
// cloud recognizers accept as LINEAR16 content.
func (a *AudioData) PCM() []byte {
	out := make([]byte, len(a.Samples)*2)
	for i, s := range a.Samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func (a *AudioData) Validate() error {
	if len(a.Samples) == 0 {
		return errors.New("audio has no samples")
	}
	if a.SampleRate <= 0 {
		return errors.New("sample rate must be positive")
	}
	return nil
}
