// Package tone synthesizes the short oscillator blips the game uses for
// sound effects, so no audio files are needed.
package tone

import (
	"encoding/binary"
	"math"
	"time"

	"SpaceInvaders/internal/arcade"
)

// Wave is the oscillator shape.
type Wave int

const (
	Sine Wave = iota
	Square
	Sawtooth
)

// floor is where the exponential gain ramp ends
const floor = 0.0001

// Tone is one oscillator note with a gain that ramps exponentially from
// Volume down to nearly silent over Duration.
type Tone struct {
	Freq     float64
	Wave     Wave
	Duration time.Duration
	Volume   float64
}

// Effects maps every game sound to its tone.
var Effects = map[arcade.Sound]Tone{
	arcade.SoundShoot:     {Freq: 800, Wave: Sine, Duration: 100 * time.Millisecond, Volume: 0.05},
	arcade.SoundHit:       {Freq: 200, Wave: Square, Duration: 100 * time.Millisecond, Volume: 0.1},
	arcade.SoundStep:      {Freq: 100, Wave: Square, Duration: 200 * time.Millisecond, Volume: 0.05},
	arcade.SoundDamage:    {Freq: 50, Wave: Sawtooth, Duration: 500 * time.Millisecond, Volume: 0.1},
	arcade.SoundLevelUp:   {Freq: 600, Wave: Sine, Duration: 500 * time.Millisecond, Volume: 0.1},
	arcade.SoundSuperShot: {Freq: 400, Wave: Sawtooth, Duration: 300 * time.Millisecond, Volume: 0.08},
	arcade.SoundGameOver:  {Freq: 80, Wave: Square, Duration: 800 * time.Millisecond, Volume: 0.1},
}

// Len is the number of samples the tone lasts at rate.
func (t Tone) Len(rate int) int {
	return int(float64(rate) * t.Duration.Seconds())
}

// At returns sample i of the tone at rate, in [-Volume, Volume].
func (t Tone) At(i, rate int) float64 {
	n := t.Len(rate)
	if i < 0 || i >= n || t.Volume <= 0 {
		return 0
	}
	sec := float64(i) / float64(rate)
	phase := math.Mod(t.Freq*sec, 1)

	var v float64
	switch t.Wave {
	case Square:
		v = 1
		if phase >= 0.5 {
			v = -1
		}
	case Sawtooth:
		v = 2*phase - 1
	default:
		v = math.Sin(2 * math.Pi * phase)
	}
	return v * t.gain(float64(i)/float64(n))
}

// gain follows v0 * (floor/v0)^p, the exponential ramp to floor
func (t Tone) gain(p float64) float64 {
	if t.Volume <= floor {
		return t.Volume
	}
	return t.Volume * math.Pow(floor/t.Volume, p)
}

// PCM16 renders the tone as 16-bit little-endian stereo.
func (t Tone) PCM16(rate int) []byte {
	n := t.Len(rate)
	pcm := make([]byte, n*4)
	for i := 0; i < n; i++ {
		s := uint16(int16(t.At(i, rate) * 32767))
		binary.LittleEndian.PutUint16(pcm[4*i:], s)
		binary.LittleEndian.PutUint16(pcm[4*i+2:], s)
	}
	return pcm
}
