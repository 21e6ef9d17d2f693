package colors

import (
	"fmt"
	"math"

	"github.com/vovakirdan/superstudent/internal/core"
	"github.com/vovakirdan/superstudent/internal/levels/colors/sim"
)

// Visual characters for rendering
const (
	DotChar      = '●'
	DiscChar     = '█'
	ParticleChar = '·'
	RingChar     = '○'
	MotherChar   = '█'
)

// viewport maps world units onto the playfield cells of a screen.
type viewport struct {
	w, h   int     // Playfield size in cells
	sx, sy float64 // World units per cell
	top    int     // First playfield row
}

func (l *Level) viewport(dst *core.Screen) viewport {
	sc := l.sim.Config()
	w, h := dst.Width(), dst.Height()-hudRows
	if w <= 0 || h <= 0 {
		return viewport{}
	}
	return viewport{
		w:   w,
		h:   h,
		sx:  sc.Width / float64(w),
		sy:  sc.Height / float64(h),
		top: hudRows,
	}
}

// cell returns the screen cell containing world point p.
func (v viewport) cell(p core.Vec2) (int, int) {
	return int(p.X / v.sx), int(p.Y/v.sy) + v.top
}

// center returns the world point at the middle of screen cell (x, y).
func (v viewport) center(x, y int) core.Vec2 {
	return core.V((float64(x)+0.5)*v.sx, (float64(y-v.top)+0.5)*v.sy)
}

// disc fills every cell whose center lies inside the circle. The cell under
// the center is always drawn so small circles stay visible.
func (v viewport) disc(dst *core.Screen, c core.Vec2, r float64, ch rune, col core.Color) {
	x0, y0 := v.cell(c.Sub(core.V(r, r)))
	x1, y1 := v.cell(c.Add(core.V(r, r)))
	r2 := r * r
	for y := max(y0, v.top); y <= min(y1, v.top+v.h-1); y++ {
		for x := max(x0, 0); x <= min(x1, v.w-1); x++ {
			if v.center(x, y).Sub(c).LenSq() <= r2 {
				dst.SetCell(x, y, ch, col)
			}
		}
	}
	if cx, cy := v.cell(c); cy >= v.top {
		dst.SetCell(cx, cy, ch, col)
	}
}

// ring draws the cells within one cell of the circle outline.
func (v viewport) ring(dst *core.Screen, c core.Vec2, r float64, ch rune, col core.Color) {
	band := math.Max(v.sx, v.sy)
	x0, y0 := v.cell(c.Sub(core.V(r+band, r+band)))
	x1, y1 := v.cell(c.Add(core.V(r+band, r+band)))
	for y := max(y0, v.top); y <= min(y1, v.top+v.h-1); y++ {
		for x := max(x0, 0); x <= min(x1, v.w-1); x++ {
			if d := v.center(x, y).Dist(c); math.Abs(d-r) <= band/2 {
				dst.SetCell(x, y, ch, col)
			}
		}
	}
}

// Render draws the current level state to the screen.
func (l *Level) Render(dst *core.Screen) {
	dst.Clear()
	if l.sim == nil {
		return
	}

	v := l.viewport(dst)
	if v.w == 0 {
		return
	}
	s := l.sim
	target := s.TargetColor()

	if pos, r, shown := s.Mother(); shown {
		v.disc(dst, pos, r, MotherChar, target.Color)
		_, cy := v.cell(pos.Add(core.V(0, r)))
		dst.DrawTextCentered(min(cy+1, dst.Height()-1), target.Name, target.Color)
		if s.Phase() == sim.PhaseWaitingForClick {
			dst.DrawTextCentered(min(cy+3, dst.Height()-1), "Click anywhere to release the dots", core.ColorWhite)
		}
	}

	s.EachExplosion(func(e sim.Explosion) {
		v.ring(dst, e.Pos, e.Radius, RingChar, e.Color.Scale(float64(e.Opacity())/255))
	})

	s.EachDot(func(d sim.Dot) {
		col := s.ColorOf(d.Color).Color
		if d.Radius < math.Max(v.sx, v.sy) {
			x, y := v.cell(d.Pos)
			dst.SetCell(x, y, DotChar, col)
			return
		}
		v.disc(dst, d.Pos, d.Radius, DiscChar, col)
	})

	s.EachParticle(func(p sim.Particle) {
		x, y := v.cell(p.Pos)
		if y >= v.top && x >= 0 && x < v.w {
			dst.SetCell(x, y, ParticleChar, p.Color.Scale(float64(p.Opacity())/255))
		}
	})

	if n := s.Notification(); n.Active() {
		nc := s.ColorOf(n.Color)
		col := nc.Color.Scale(float64(n.Alpha()) / 255)
		mid := v.top + v.h/2
		dst.DrawTextCentered(mid-1, "Find every", col)
		dst.DrawTextCentered(mid, fmt.Sprintf(">>> %s <<<", nc.Name), col)
	}

	l.renderHUD(dst)

	switch {
	case l.checkpoint:
		l.renderCheckpoint(dst)
	case l.paused:
		dst.DrawTextCentered(dst.Height()/2, " PAUSED ", core.ColorWhite)
		dst.DrawTextCentered(dst.Height()/2+1, " Press P to resume ", core.ColorGray)
	}
}

func (l *Level) renderHUD(dst *core.Screen) {
	p := l.sim.Progress()
	dst.FillRect(core.NewRect(0, 0, dst.Width(), hudRows), ' ', core.ColorDefault)

	x := 1
	dst.DrawTextColored(x, 0, "Target:", core.ColorWhite)
	x += len("Target: ")
	dst.DrawTextColored(x, 0, p.TargetColor.Name, p.TargetColor.Color)
	x += len(p.TargetColor.Name) + 2

	status := fmt.Sprintf("Hits %d/%d  Left %d  Destroyed %d  Score %d",
		p.HitsOnTarget, p.HitQuota, p.TargetsLeft, p.TotalDestroyed, p.Score)
	if p.Phase != sim.PhaseGameplay {
		status = p.Phase.String()
	}
	dst.DrawTextColored(x, 0, status, core.ColorGray)

	if w := dst.Width(); w > 4 {
		dst.SetCell(w-3, 0, DiscChar, p.TargetColor.Color)
		dst.SetCell(w-2, 0, DiscChar, p.TargetColor.Color)
	}
}

func (l *Level) renderCheckpoint(dst *core.Screen) {
	p := l.sim.Progress()
	lines := []string{
		"CHECKPOINT",
		"",
		fmt.Sprintf("%d dots destroyed", p.TotalDestroyed),
		fmt.Sprintf("Score %d", p.Score),
		fmt.Sprintf("Next target: %s", p.TargetColor.Name),
		"",
		"Press Enter or click to continue",
	}

	bw, bh := 40, len(lines)+2
	if bw > dst.Width() {
		bw = dst.Width()
	}
	box := core.NewRect((dst.Width()-bw)/2, (dst.Height()-bh)/2, bw, bh)
	dst.FillRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorWhite)
	for i, line := range lines {
		col := core.ColorWhite
		if i == 4 {
			col = p.TargetColor.Color
		}
		dst.DrawTextCentered(box.Y+1+i, line, col)
	}
}
