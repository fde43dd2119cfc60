// Package hiscore keeps the best score in a small TOML file.
package hiscore

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

type record struct {
	HighScore int       `toml:"high_score"`
	Updated   time.Time `toml:"updated,omitempty"`
}

// File is a high-score store backed by one file. The value is read once at
// Open and written through on every Set.
type File struct {
	path string
	best int
}

// DefaultPath is hiscore.toml under the user's config dir, or the working
// directory when there is none.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "hiscore.toml"
	}
	return filepath.Join(dir, "space-invaders", "hiscore.toml")
}

// Open loads path. A missing file is a zero score, not an error.
func Open(path string) (*File, error) {
	f := &File{path: path}
	var r record
	_, err := toml.DecodeFile(path, &r)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return f, nil
	case err != nil:
		return f, fmt.Errorf("hiscore: read %s: %w", path, err)
	}
	if r.HighScore > 0 {
		f.best = r.HighScore
	}
	return f, nil
}

func (f *File) Path() string { return f.path }

func (f *File) Get() int { return f.best }

// Set records score and logs write failures; the game keeps going either way.
func (f *File) Set(score int) {
	if err := f.Save(score); err != nil {
		log.Printf("high score not saved: %v", err)
	}
}

// Save stores score, replacing the file atomically.
func (f *File) Save(score int) error {
	if score < 0 {
		score = 0
	}
	f.best = score

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("hiscore: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".hiscore-*")
	if err != nil {
		return fmt.Errorf("hiscore: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(record{HighScore: score, Updated: time.Now().UTC()}); err != nil {
		tmp.Close()
		return fmt.Errorf("hiscore: encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("hiscore: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("hiscore: %w", err)
	}
	return nil
}
