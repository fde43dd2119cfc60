// Package sound plays the game's effects through ebiten's audio context.
// Each effect is a synthesized tone unless a matching wav, mp3 or ogg file
// sits in the asset directory.
package sound

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"SpaceInvaders/internal/arcade"
	"SpaceInvaders/internal/tone"
)

// Bank holds one player per effect.
type Bank struct {
	ctx     *audio.Context
	players map[arcade.Sound]*audio.Player
	muted   bool
}

// New builds the bank. Missing or broken asset files fall back to tones.
func New(ctx *audio.Context, assetDir string, muted bool) *Bank {
	b := &Bank{
		ctx:     ctx,
		players: make(map[arcade.Sound]*audio.Player),
		muted:   muted,
	}
	for s, tn := range tone.Effects {
		p, err := b.loadFile(assetDir, s)
		if err == nil {
			b.players[s] = p
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("sound %s: %v; using tone", s, err)
		}
		b.players[s] = ctx.NewPlayerFromBytes(tn.PCM16(ctx.SampleRate()))
	}
	return b
}

func (b *Bank) loadFile(dir string, s arcade.Sound) (*audio.Player, error) {
	var lastErr error = fs.ErrNotExist
	for _, ext := range []string{".wav", ".mp3", ".ogg"} {
		path := filepath.Join(dir, s.String()+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		pcm, err := decode(ext, data, b.ctx.SampleRate())
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", path, err)
			continue
		}
		return b.ctx.NewPlayerFromBytes(pcm), nil
	}
	return nil, lastErr
}

// decode turns a whole file into 16-bit stereo PCM at rate.
func decode(ext string, data []byte, rate int) ([]byte, error) {
	r := bytes.NewReader(data)
	var (
		s   io.Reader
		err error
	)
	switch ext {
	case ".wav":
		s, err = wav.DecodeWithSampleRate(rate, r)
	case ".mp3":
		s, err = mp3.DecodeWithSampleRate(rate, r)
	case ".ogg":
		s, err = vorbis.DecodeWithSampleRate(rate, r)
	default:
		return nil, fmt.Errorf("unsupported audio format %q", ext)
	}
	if err != nil {
		return nil, err
	}
	return io.ReadAll(s)
}

// Play restarts the effect. Muted banks and unknown sounds are silent.
func (b *Bank) Play(s arcade.Sound) {
	if b == nil || b.muted {
		return
	}
	p := b.players[s]
	if p == nil {
		return
	}
	_ = p.Rewind()
	p.Play()
}

func (b *Bank) Muted() bool { return b.muted }

// Toggle flips mute and returns the new state.
func (b *Bank) Toggle() bool {
	b.muted = !b.muted
	if b.muted {
		for _, p := range b.players {
			p.Pause()
		}
	}
	return b.muted
}
