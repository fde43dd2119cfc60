package main

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"SpaceInvaders/internal/arcade"
	"SpaceInvaders/internal/tone"
)

// speakerSounder plays tones through beep's speaker. If the speaker could
// not start it stays silent.
type speakerSounder struct {
	mu    sync.Mutex
	rate  beep.SampleRate
	ready bool
	muted bool
}

func newSpeakerSounder(rate int, muted bool) (*speakerSounder, error) {
	s := &speakerSounder{rate: beep.SampleRate(rate), muted: muted}
	if err := speaker.Init(s.rate, s.rate.N(time.Second/10)); err != nil {
		return s, err
	}
	s.ready = true
	return s, nil
}

func (s *speakerSounder) Play(snd arcade.Sound) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready || s.muted {
		return
	}
	tn, ok := tone.Effects[snd]
	if !ok {
		return
	}
	speaker.Play(toneStreamer(tn, int(s.rate)))
}

func (s *speakerSounder) toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = !s.muted
	if s.muted && s.ready {
		speaker.Clear()
	}
	return s.muted
}

func (s *speakerSounder) isMuted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// toneStreamer streams tn once, in both channels.
func toneStreamer(tn tone.Tone, rate int) beep.Streamer {
	pos, n := 0, tn.Len(rate)
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= n {
			return 0, false
		}
		i := 0
		for ; i < len(samples) && pos < n; i++ {
			v := tn.At(pos, rate)
			samples[i][0], samples[i][1] = v, v
			pos++
		}
		return i, true
	})
}
