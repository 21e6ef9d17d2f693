// Package gui runs the Colors level in a desktop window with Ebitengine.
// The logical screen is the simulation field, so pointer positions are
// already in world units.
package gui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/vovakirdan/superstudent/internal/core"
	"github.com/vovakirdan/superstudent/internal/levels/colors"
	"github.com/vovakirdan/superstudent/internal/levels/colors/sim"
	"github.com/vovakirdan/superstudent/internal/platform/session"
)

// ghostRadius is the radius of the target notification circle.
const ghostRadius = 150

// Game implements ebiten.Game for the Colors level.
type Game struct {
	level   *colors.Level
	session *session.Session
	config  core.RuntimeConfig
	input   core.InputFrame
	touches []ebiten.TouchID
}

// NewGame creates a Game and starts a run.
func NewGame(level *colors.Level, sess *session.Session, cfg core.RuntimeConfig, resume bool) *Game {
	g := &Game{
		level:   level,
		session: sess,
		config:  cfg,
		input:   core.NewInputFrame(),
	}
	sess.Start(cfg)
	if resume {
		sess.Resume()
	}
	return g
}

// Update is called every tick by Ebitengine.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.session.Finish()
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.session.Finish()
		g.config.Seed++
		g.session.Start(g.config)
		return nil
	}

	g.input.Clear()
	g.input.World = true
	g.input.DT = 1 / float64(ebiten.TPS())
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.input.Set(core.ActionPause)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.input.Set(core.ActionConfirm)
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.input.AddPointer(core.InputEvent{Pos: core.V(float64(x), float64(y)), Kind: core.PointerDown})
	}
	g.touches = inpututil.AppendJustPressedTouchIDs(g.touches[:0])
	for _, id := range g.touches {
		x, y := ebiten.TouchPosition(id)
		g.input.AddPointer(core.InputEvent{Pos: core.V(float64(x), float64(y)), Kind: core.PointerDown, Source: int(id)})
	}

	g.session.Step(g.input)
	return nil
}

// Draw is called each frame by Ebitengine.
func (g *Game) Draw(screen *ebiten.Image) {
	s := g.level.Sim()
	cfg := s.Config()
	screen.Fill(rgba(cfg.Background, 255))

	target := s.TargetColor()

	if n := s.Notification(); n.Active() {
		nc := s.ColorOf(n.Color)
		cx, cy := cfg.Width/2, cfg.Height/2
		vector.DrawFilledCircle(screen, float32(cx), float32(cy), ghostRadius, rgba(nc.Color, n.Alpha()/3), true)
		ebitenutil.DebugPrintAt(screen, nc.Name, int(cx)-len(nc.Name)*3, int(cy)-8)
	}

	if pos, r, shown := s.Mother(); shown {
		vector.DrawFilledCircle(screen, float32(pos.X), float32(pos.Y), float32(r), rgba(target.Color, 255), true)
		ebitenutil.DebugPrintAt(screen, target.Name, int(pos.X)-len(target.Name)*3, int(pos.Y+r)+8)
		if s.Phase() == sim.PhaseWaitingForClick {
			msg := "Click anywhere to release the dots"
			ebitenutil.DebugPrintAt(screen, msg, int(pos.X)-len(msg)*3, int(pos.Y+r)+28)
		}
	}

	s.EachExplosion(func(e sim.Explosion) {
		vector.StrokeCircle(screen, float32(e.Pos.X), float32(e.Pos.Y), float32(e.Radius), 3, rgba(e.Color, e.Opacity()), true)
	})

	s.EachDot(func(d sim.Dot) {
		vector.DrawFilledCircle(screen, float32(d.Pos.X), float32(d.Pos.Y), float32(d.Radius), rgba(s.ColorOf(d.Color).Color, 255), true)
	})

	s.EachParticle(func(p sim.Particle) {
		vector.DrawFilledCircle(screen, float32(p.Pos.X), float32(p.Pos.Y), float32(p.Radius), rgba(p.Color, p.Opacity()), true)
	})

	g.drawHUD(screen, s)
}

func (g *Game) drawHUD(screen *ebiten.Image, s *sim.Simulation) {
	p := s.Progress()
	cfg := s.Config()

	hud := fmt.Sprintf("Target: %s   Hits %d/%d   Left %d   Destroyed %d   Score %d",
		p.TargetColor.Name, p.HitsOnTarget, p.HitQuota, p.TargetsLeft, p.TotalDestroyed, p.Score)
	ebitenutil.DebugPrintAt(screen, hud, 10, 10)
	vector.DrawFilledRect(screen, float32(cfg.Width-50), 10, 40, 40, rgba(p.TargetColor.Color, 255), true)

	state := g.session.State()
	switch {
	case state.Checkpoint:
		w, h := float32(360), float32(140)
		x, y := float32(cfg.Width)/2-w/2, float32(cfg.Height)/2-h/2
		vector.DrawFilledRect(screen, x, y, w, h, color.RGBA{0, 0, 0, 220}, true)
		vector.StrokeRect(screen, x, y, w, h, 2, color.White, true)
		lines := []string{
			"CHECKPOINT",
			fmt.Sprintf("%d dots destroyed   Score %d", p.TotalDestroyed, p.Score),
			"Next target: " + p.TargetColor.Name,
			"Press Enter or click to continue",
		}
		for i, line := range lines {
			ebitenutil.DebugPrintAt(screen, line, int(x)+20, int(y)+20+i*26)
		}
	case state.Paused:
		ebitenutil.DebugPrintAt(screen, "PAUSED - press P to resume", int(cfg.Width)/2-78, int(cfg.Height)/2)
	}
}

// Layout returns the logical screen size: the simulation field.
func (g *Game) Layout(_, _ int) (int, int) {
	cfg := g.level.Sim().Config()
	return int(cfg.Width), int(cfg.Height)
}

// rgba converts a palette color with alpha to a premultiplied color.RGBA.
func rgba(c core.Color, a uint8) color.RGBA {
	f := float64(a) / 255
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: a,
	}
}

// Run opens the window and blocks until it is closed or the player quits.
func Run(level *colors.Level, sess *session.Session, cfg core.RuntimeConfig, resume bool) error {
	g := NewGame(level, sess, cfg, resume)
	sc := level.Sim().Config()

	ebiten.SetWindowSize(int(sc.Width), int(sc.Height))
	ebiten.SetWindowTitle("SuperStudent - " + level.Title())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if cfg.TickRate > 0 {
		ebiten.SetTPS(cfg.TickRate)
	}

	return ebiten.RunGame(g)
}
