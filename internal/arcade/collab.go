package arcade

// HUD receives "set current value" calls. It never feeds back into the loop.
type HUD interface {
	SetScore(score int)
	SetLives(lives int)
	SetLevel(label string)
	SetCharge(percent int)
}

// HighScoreStore persists the single best score. Get returns 0 when nothing is stored.
type HighScoreStore interface {
	Get() int
	Set(score int)
}

// Sounder plays effects. Implementations must swallow audio failures.
type Sounder interface {
	Play(s Sound)
}

type nopHUD struct{}

func (nopHUD) SetScore(int)    {}
func (nopHUD) SetLives(int)    {}
func (nopHUD) SetLevel(string) {}
func (nopHUD) SetCharge(int)   {}

type nopSounder struct{}

func (nopSounder) Play(Sound) {}

// MemoryStore keeps the high score in memory only.
type MemoryStore struct{ best int }

func (m *MemoryStore) Get() int      { return m.best }
func (m *MemoryStore) Set(score int) { m.best = score }
