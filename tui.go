package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
)

// Terminals report key presses but not releases. A held control is released
// once no repeat for it has arrived within holdFrames frames.
const holdFrames = 12

var (
	styleNone    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleTeamA   = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleTeamB   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleLocal   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleEffect  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleStar    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	classGlyphs  = [...]rune{'l', 'H', 'M'}
	teamStyleFor = map[Team]tcell.Style{TeamNone: styleNone, TeamA: styleTeamA, TeamB: styleTeamB}
)

// TUI is a terminal radar view of the match that also flies the local ship
type TUI struct {
	screen tcell.Screen
	game   *Game
	log    zerolog.Logger
	levelW int
	levelH int
	fps    int

	frame uint64
	held  map[InputEvent]uint64 // begin event -> frame of the last press
}

// NewTUI creates a radar bound to game. The screen must already be initialized.
func NewTUI(screen tcell.Screen, game *Game, log zerolog.Logger) *TUI {
	w := game.Welcome("tui")
	return &TUI{
		screen: screen,
		game:   game,
		log:    log.With().Str("component", "tui").Logger(),
		levelW: w.LevelWidth,
		levelH: w.LevelHeight,
		fps:    w.FPS,
		held:   make(map[InputEvent]uint64),
	}
}

// Run draws at the game's frame rate and feeds key presses to the game until
// ctx is cancelled or the user quits. It finalizes the screen on return.
func (t *TUI) Run(ctx context.Context) {
	defer t.screen.Fini()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(t.fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if t.HandleKey(ev) {
					t.log.Info().Msg("quit from terminal")
					return
				}
			case *tcell.EventResize:
				t.screen.Sync()
			}
		case <-ticker.C:
			t.Frame()
		}
	}
}

// Frame releases stale held keys and redraws
func (t *TUI) Frame() {
	t.frame++
	for begin, last := range t.held {
		if t.frame-last > holdFrames {
			t.game.Enqueue(begin + 1)
			delete(t.held, begin)
		}
	}
	t.Draw(t.game.Snapshot())
}

// HandleKey maps a key press to game input. Returns true when the user quits.
func (t *TUI) HandleKey(ev *tcell.EventKey) bool {
	return t.handle(ev.Key(), ev.Rune())
}

func (t *TUI) handle(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		t.press(InputThrustBegin)
	case tcell.KeyDown:
		t.press(InputBrakeBegin)
	case tcell.KeyLeft:
		t.press(InputLeftBegin)
	case tcell.KeyRight:
		t.press(InputRightBegin)
	case tcell.KeyRune:
		switch r {
		case 'q':
			return true
		case 'w':
			t.press(InputThrustBegin)
		case 's':
			t.press(InputBrakeBegin)
		case 'a':
			t.press(InputLeftBegin)
		case 'd':
			t.press(InputRightBegin)
		case ' ':
			t.press(InputFireBegin)
		case '1':
			t.game.Enqueue(InputRespawnLight)
		case '2':
			t.game.Enqueue(InputRespawnHeavy)
		case 'p':
			if t.game.Paused() {
				t.game.Resume()
			} else {
				t.game.Pause()
			}
		case 'r':
			t.held = make(map[InputEvent]uint64)
			t.game.Reset()
		}
	}
	return false
}

// press starts a held control, or refreshes it on key repeat
func (t *TUI) press(begin InputEvent) {
	if _, ok := t.held[begin]; !ok {
		t.game.Enqueue(begin)
	}
	t.held[begin] = t.frame
}

// cell maps world coordinates onto the radar area
func (t *TUI) cell(x, y, cols, rows int) (int, int) {
	cx := Clamp(x*cols/t.levelW, 0, cols-1)
	cy := Clamp(y*rows/t.levelH, 0, rows-1)
	return cx, cy
}

// Draw renders snap: planets by owner, friendly ships always, enemy ships
// only while revealed, plus shots, pods and explosions. The last row is status.
func (t *TUI) Draw(snap Snapshot) {
	cols, h := t.screen.Size()
	rows := h - 1
	if cols <= 0 || rows <= 0 || t.levelW <= 0 || t.levelH <= 0 {
		return
	}
	t.screen.Clear()

	put := func(x, y int, r rune, st tcell.Style) {
		cx, cy := t.cell(x, y, cols, rows)
		t.screen.SetContent(cx, cy, r, nil, st)
	}

	for _, s := range snap.Stars {
		put(s.X, s.Y, '·', styleStar)
	}
	for _, p := range snap.Planets {
		put(p.X+p.W/2, p.Y+p.H/2, 'O', teamStyleFor[Team(p.Owner)])
	}

	localTeam := TeamNone
	var local *ShipState
	if snap.Local >= 0 && snap.Local < len(snap.Ships) {
		local = &snap.Ships[snap.Local]
		localTeam = ShipKind(local.Kind).Team()
	}
	for i := range snap.Ships {
		s := &snap.Ships[i]
		if s.State != LifeAlive.String() || s == local {
			continue
		}
		kind := ShipKind(s.Kind)
		if kind.Team() != localTeam && !s.Revealed {
			continue
		}
		put(s.X+s.Size/2, s.Y+s.Size/2, classGlyphs[kind.Class()], teamStyleFor[kind.Team()])
	}
	for _, p := range snap.Projectiles {
		put(p.X, p.Y, '.', styleEffect)
	}
	for _, p := range snap.Pods {
		put(p.X, p.Y, 'o', styleEffect)
	}
	for _, e := range snap.Explosions {
		put(e.X, e.Y, '*', styleEffect)
	}
	if local != nil && local.State == LifeAlive.String() {
		put(local.X+local.Size/2, local.Y+local.Size/2, '@', styleLocal)
	}

	t.drawStatus(snap, local, cols, h-1)
	t.screen.Show()
}

func (t *TUI) drawStatus(snap Snapshot, local *ShipState, cols, row int) {
	a, b := 0, 0
	for _, p := range snap.Planets {
		switch Team(p.Owner) {
		case TeamA:
			a++
		case TeamB:
			b++
		}
	}
	line := fmt.Sprintf(" frame %d  planets A:%d B:%d/%d", snap.Frame, a, b, len(snap.Planets))
	if local != nil {
		line += fmt.Sprintf("  %s hp %d sh %d", local.State, local.Health, local.Shield)
	}
	if snap.Paused {
		line += "  PAUSED"
	}
	if snap.Winner != int(TeamNone) {
		line += "  WINNER " + Team(snap.Winner).String()
	}
	for x := 0; x < cols; x++ {
		r := ' '
		if x < len(line) {
			r = rune(line[x])
		}
		t.screen.SetContent(x, row, r, nil, styleStatus)
	}
}
