package main

import (
	"sync"
	"time"

	"SpaceInvaders/internal/arcade"
)

// terminals send key presses (and auto-repeats) but never releases, so a key
// counts as held for holdFor after its last press
const holdFor = 150 * time.Millisecond

type action int

const (
	actLeft action = iota
	actRight
	actFire
	actSuper
	numActions
)

// latch is written by the event goroutine and read once per frame by the
// loop goroutine.
type latch struct {
	mu    sync.Mutex
	until [numActions]time.Time

	pointer  bool
	pointerX float64
}

func (l *latch) press(a action, now time.Time) {
	l.mu.Lock()
	l.until[a] = now.Add(holdFor)
	l.mu.Unlock()
}

func (l *latch) drag(x float64) {
	l.mu.Lock()
	l.pointer, l.pointerX = true, x
	l.mu.Unlock()
}

func (l *latch) release() {
	l.mu.Lock()
	l.pointer = false
	l.mu.Unlock()
}

// snapshot is the input for the frame starting at now.
func (l *latch) snapshot(now time.Time) arcade.Input {
	l.mu.Lock()
	defer l.mu.Unlock()
	held := func(a action) bool { return now.Before(l.until[a]) }
	return arcade.Input{
		Left:     held(actLeft),
		Right:    held(actRight),
		Fire:     held(actFire),
		Super:    held(actSuper),
		Pointer:  l.pointer,
		PointerX: l.pointerX,
	}
}
