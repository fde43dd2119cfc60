package arcade

import "math"

// Formation is the shape the swarm is laid out in for a level.
type Formation int

const (
	FormationBlock Formation = iota // dense grid
	FormationVee                    // centre columns hang lower
	FormationWing                   // wide spacing, split down the middle
)

func (f Formation) String() string {
	switch f {
	case FormationBlock:
		return "block"
	case FormationVee:
		return "vee"
	case FormationWing:
		return "wing"
	}
	return "unknown"
}

// FormationFor cycles block, vee, wing starting at level 1.
func FormationFor(level int) Formation {
	if level < 1 {
		level = 1
	}
	return Formation((level - 1) % 3)
}

// Slot is one enemy position produced by a formation.
type Slot struct {
	X, Y     float64
	Row, Col int
}

// Layout returns Rows*Cols slots. Layouts that would not fit in fieldW are
// shifted and, if still too wide, squeezed horizontally.
func (f Formation) Layout(g Grid, enemyW, fieldW float64) []Slot {
	if g.Rows <= 0 || g.Cols <= 0 {
		return nil
	}
	slots := make([]Slot, 0, g.Rows*g.Cols)
	centre := float64(g.Cols-1) / 2
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			x := g.OriginX + float64(c)*g.Spacing
			y := g.OriginY + float64(r)*g.Spacing
			switch f {
			case FormationVee:
				y += (centre - math.Abs(float64(c)-centre)) * g.Spacing / 4
			case FormationWing:
				x = g.OriginX + float64(c)*g.Spacing*1.25
				if c >= g.Cols/2 {
					x += g.Spacing
				}
			}
			slots = append(slots, Slot{X: x, Y: y, Row: r, Col: c})
		}
	}
	fit(slots, enemyW, fieldW)
	return slots
}

// fit keeps every slot inside [0, fieldW].
func fit(slots []Slot, enemyW, fieldW float64) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, s := range slots {
		minX = math.Min(minX, s.X)
		maxX = math.Max(maxX, s.X)
	}
	width := maxX + enemyW - minX
	if minX >= 0 && maxX+enemyW <= fieldW {
		return
	}
	if width <= fieldW {
		dx := (fieldW-width)/2 - minX
		for i := range slots {
			slots[i].X += dx
		}
		return
	}
	span := maxX - minX
	if span <= 0 {
		return
	}
	k := (fieldW - enemyW) / span
	for i := range slots {
		slots[i].X = (slots[i].X - minX) * k
	}
}

func tierForRow(row int) Tier {
	if row < 2 {
		return TierRed
	}
	return TierCyan
}
