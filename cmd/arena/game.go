package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/hostile/ecs"
	"github.com/milk9111/hostile/ecs/component"
	"github.com/milk9111/hostile/ecs/system"
	"github.com/milk9111/hostile/logger"
	"github.com/milk9111/hostile/prefabs"
	"github.com/milk9111/hostile/sim"
	"github.com/sirupsen/logrus"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
)

const clickDamage = 10

type Game struct {
	arena   *sim.Arena
	watcher *prefabs.Watcher
	log     *logrus.Entry

	debugPhysics bool
	clipboardOK  bool
	lastCue      map[ecs.Entity]string
	status       string
}

func NewGame(arena *sim.Arena, watch bool) *Game {
	g := &Game{
		arena:   arena,
		log:     logger.For("viewer"),
		lastCue: make(map[ecs.Entity]string),
	}
	for _, s := range arena.Scheduler.Systems() {
		if cues, ok := s.(*system.CueSystem); ok {
			cues.AddSink(system.CueSinkFunc(func(e ecs.Entity, name string) {
				g.lastCue[e] = name
			}))
		}
	}

	if watch {
		w, err := prefabs.NewWatcher()
		if err != nil {
			g.log.WithError(err).Warn("prefab watcher disabled")
		} else {
			g.watcher = w
		}
	}
	g.clipboardOK = clipboard.Init() == nil
	return g
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.drainWatcher()

	mx, my := ebiten.CursorPosition()
	g.arena.Player.MoveTo(cp.Vector{X: float64(mx), Y: float64(my)})

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.damageNearest(cp.Vector{X: float64(mx), Y: float64(my)})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.debugPhysics = !g.debugPhysics
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyTimeline()
	}

	g.arena.Step(1.0 / float64(ebiten.TPS()))
	return nil
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Changes:
			if !ok {
				g.Close()
				g.watcher = nil
				return
			}
			var err error
			switch change.Kind {
			case prefabs.ChangePrefab:
				err = g.arena.ReloadPrefab(change.Name)
			case prefabs.ChangeScript:
				err = g.arena.ReloadScript(change.Name)
			}
			if err != nil {
				g.log.WithError(err).WithField("file", change.Path).Warn("reload failed")
				g.status = "reload failed: " + change.Name
			} else {
				g.status = "reloaded " + change.Name
			}
		case err := <-g.watcher.Errors:
			g.log.WithError(err).Warn("watcher error")
		default:
			return
		}
	}
}

// damageNearest hits the closest living hostile as if the player struck it.
func (g *Game) damageNearest(at cp.Vector) {
	best, bestDist := -1, 0.0
	for i, h := range g.arena.Hostiles {
		pos, ok := h.Position()
		if !ok || !h.Alive() {
			continue
		}
		if d := pos.Distance(at); best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return
	}
	if err := g.arena.Damage(best, clickDamage); err != nil {
		g.log.WithError(err).Warn("damage")
	}
}

func (g *Game) copyTimeline() {
	if !g.clipboardOK {
		g.status = "clipboard unavailable"
		return
	}
	var b strings.Builder
	for _, t := range g.arena.Transitions() {
		b.WriteString(t.String())
		b.WriteByte('\n')
	}
	clipboard.Write(clipboard.FmtText, []byte(b.String()))
	g.status = "timeline copied"
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)

	for _, bb := range g.arena.Obstacles {
		vector.FillRect(screen, float32(bb.L), float32(bb.B), float32(bb.R-bb.L), float32(bb.T-bb.B), colornames.Slategray, false)
	}

	targetPos, hasTarget := g.arena.Player.Position()
	if hasTarget {
		vector.FillCircle(screen, float32(targetPos.X), float32(targetPos.Y), 6, colornames.Gold, true)
	}

	w := g.arena.World
	ecs.ForEach(w, component.ProjectileComponent.Kind(), func(e ecs.Entity, _ *component.Projectile) {
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			vector.FillCircle(screen, float32(t.X), float32(t.Y), 2, colornames.Orangered, true)
		}
	})

	for i, h := range g.arena.Hostiles {
		pos, ok := h.Position()
		if !ok {
			if t, found := ecs.Get(w, h.Entity, component.TransformComponent.Kind()); found {
				pos, ok = cp.Vector{X: t.X, Y: t.Y}, true
			}
		}
		if !ok {
			continue
		}
		state := h.State()
		if p, found := ecs.Get(w, h.Entity, component.PerceptionComponent.Kind()); found && hasTarget && state != component.StateDead {
			ray := colornames.Dimgray
			if p.HasLineOfSight {
				ray = colornames.Limegreen
			}
			vector.StrokeLine(screen, float32(pos.X), float32(pos.Y), float32(targetPos.X), float32(targetPos.Y), 1, ray, true)
		}
		vector.FillCircle(screen, float32(pos.X), float32(pos.Y), 10, stateColor(state), true)

		hp, max := h.Health()
		label := fmt.Sprintf("#%d %s %d/%d %s", i, state, hp, max, g.lastCue[h.Entity])
		ebitenutil.DebugPrintAt(screen, label, int(pos.X)-20, int(pos.Y)+12)
	}

	if g.debugPhysics {
		drawSpace(screen, w.PhysicsWorld())
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf("t=%.2fs  FPS %.0f  click: hit  P: physics  C: copy timeline  %s", g.arena.Now(), ebiten.ActualFPS(), g.status))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.arena.Spec.Width), int(g.arena.Spec.Height)
}

func stateColor(s component.BehaviorState) color.Color {
	switch s {
	case component.StatePatrol:
		return colornames.Steelblue
	case component.StateChase:
		return colornames.Orange
	case component.StateInvestigate:
		return colornames.Khaki
	case component.StateShoot:
		return colornames.Crimson
	case component.StateCharge:
		return colornames.Magenta
	case component.StateRetreat:
		return colornames.Cyan
	default:
		return colornames.Gray
	}
}
