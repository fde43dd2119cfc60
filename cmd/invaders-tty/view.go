package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"SpaceInvaders/internal/arcade"
)

// canvas is the part of tcell.Screen the renderer draws on.
type canvas interface {
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
	Size() (int, int)
}

var (
	styleShip   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleRed    = tcell.StyleDefault.Foreground(tcell.NewHexColor(0xff5555))
	styleCyan   = tcell.StyleDefault.Foreground(tcell.NewHexColor(0x55ffff))
	styleShot   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	stylePower  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleBomb   = tcell.StyleDefault.Foreground(tcell.NewHexColor(0xff5555))
	styleHUD    = tcell.StyleDefault.Reverse(true)
	styleBanner = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// board is the HUD for the terminal. The loop goroutine is its only user.
type board struct {
	score, lives, charge int
	level                string
}

func (b *board) SetScore(s int)    { b.score = s }
func (b *board) SetLives(l int)    { b.lives = l }
func (b *board) SetLevel(l string) { b.level = l }
func (b *board) SetCharge(c int)   { b.charge = c }

func (b *board) line(muted bool) string {
	snd := "on"
	if muted {
		snd = "off"
	}
	return fmt.Sprintf(" SCORE %-7d %-10s LIVES %-6s CHARGE %3d%%  sound %s  [h]elp [m]ute [q]uit",
		b.score, b.level, strings.Repeat("♥", b.lives), b.charge, snd)
}

// view maps playfield pixels onto terminal cells; the last row is the HUD.
type view struct {
	fieldW, fieldH float64
	cols, rows     int
}

func newView(c canvas, p arcade.Params) view {
	cols, rows := c.Size()
	if rows > 1 {
		rows--
	}
	return view{fieldW: p.FieldW, fieldH: p.FieldH, cols: cols, rows: rows}
}

func (v view) cellX(x float64) int { return int(x / v.fieldW * float64(v.cols)) }
func (v view) cellY(y float64) int { return int(y / v.fieldH * float64(v.rows)) }

// fieldX is the playfield x at the centre of terminal column col.
func (v view) fieldX(col int) float64 {
	return (float64(col) + 0.5) * v.fieldW / float64(v.cols)
}

// fill paints every cell the box touches, at least one.
func (v view) fill(c canvas, x, y, w, h float64, r rune, st tcell.Style) {
	x0, y0 := v.cellX(x), v.cellY(y)
	x1, y1 := v.cellX(x+w), v.cellY(y+h)
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	for cy := y0; cy < y1; cy++ {
		for cx := x0; cx < x1; cx++ {
			if cx >= 0 && cx < v.cols && cy >= 0 && cy < v.rows {
				c.SetContent(cx, cy, r, nil, st)
			}
		}
	}
}

func (v view) text(c canvas, x, y int, s string, st tcell.Style) {
	for _, r := range s {
		c.SetContent(x, y, r, nil, st)
		x++
	}
}

func (v view) centred(c canvas, y int, s string, st tcell.Style) {
	x := (v.cols - len([]rune(s))) / 2
	if x < 0 {
		x = 0
	}
	v.text(c, x, y, s, st)
}

// draw renders one snapshot. The caller clears and shows the screen.
func (v view) draw(c canvas, s arcade.Snapshot, b *board, muted, help bool) {
	mid := v.rows / 2
	if s.State == arcade.StateIdle {
		if s.GameOver {
			v.centred(c, mid-1, "GAME OVER", styleBanner)
			v.centred(c, mid+1, fmt.Sprintf("final score %d   high score %d", s.Score, s.HighScore), styleShot)
		} else {
			v.centred(c, mid-1, "SPACE INVADERS", styleBanner)
			v.centred(c, mid+1, fmt.Sprintf("high score %d", s.HighScore), styleShot)
		}
		v.centred(c, mid+3, "press ENTER to start, q to quit", styleShot)
		return
	}

	for _, e := range s.Enemies {
		st := styleRed
		if e.Tier == arcade.TierCyan {
			st = styleCyan
		}
		v.fill(c, e.X, e.Y, e.W, e.H, '▓', st)
	}
	for _, sh := range s.Shots {
		switch {
		case sh.Kind == arcade.EnemyShot:
			v.fill(c, sh.X, sh.Y, sh.W, sh.H, '!', styleBomb)
		case sh.Power:
			v.fill(c, sh.X, sh.Y, sh.W, sh.H, '‖', stylePower)
		default:
			v.fill(c, sh.X, sh.Y, sh.W, sh.H, '|', styleShot)
		}
	}
	pl := s.Player
	v.fill(c, pl.X, pl.Y, pl.W, pl.H, '█', styleShip)

	cols, _ := c.Size()
	line := []rune(b.line(muted))
	for x := 0; x < cols; x++ {
		r := ' '
		if x < len(line) {
			r = line[x]
		}
		c.SetContent(x, v.rows, r, nil, styleHUD)
	}

	if help {
		v.centred(c, mid-2, "HOW TO PLAY", styleBanner)
		v.centred(c, mid, "a/d or arrows move   space fire   x super shot", styleShot)
		v.centred(c, mid+1, "mouse: drag to move", styleShot)
		v.centred(c, mid+3, "h or ENTER to resume, ESC for menu", styleShot)
	}
}
