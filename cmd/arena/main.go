// Command arena runs the battle environment with a keyboard-driven player
// tank, for watching the bot and debugging layouts. Hold WASD or the arrow
// keys to drive, space to fire. R restarts the episode, P toggles the bot
// path overlay, G the occupancy grid, C copies a diagnostics report to the
// clipboard.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"tanktrouble/internal/arena"
)

var (
	colBackground = color.RGBA{R: 24, G: 26, B: 30, A: 255}
	colWall       = color.RGBA{R: 90, G: 96, B: 104, A: 255}
	colWallEdge   = color.RGBA{R: 130, G: 138, B: 148, A: 255}
	colPlayer     = color.RGBA{R: 90, G: 170, B: 250, A: 255}
	colBot        = color.RGBA{R: 230, G: 90, B: 80, A: 255}
	colDeadTank   = color.RGBA{R: 70, G: 70, B: 70, A: 255}
	colBullet     = color.RGBA{R: 250, G: 220, B: 120, A: 255}
	colPath       = color.RGBA{R: 120, G: 220, B: 120, A: 180}
	colGridCell   = color.RGBA{R: 200, G: 80, B: 80, A: 60}
)

type viewer struct {
	env  *arena.Env
	cfg  arena.Config
	seed int64

	reward   float64 // cumulative over the episode
	last     arena.StepResult
	finished bool

	showPath bool
	showGrid bool
	status   string
	prevKeys map[ebiten.Key]bool
}

func newViewer(cfg arena.Config, seed int64) (*viewer, error) {
	env, err := arena.NewEnv(cfg)
	if err != nil {
		return nil, err
	}
	v := &viewer{
		env:      env,
		cfg:      cfg,
		seed:     seed,
		showPath: true,
		prevKeys: map[ebiten.Key]bool{},
	}
	v.restart()
	return v, nil
}

func (v *viewer) restart() {
	_, info := v.env.Reset(v.seed)
	v.seed++
	v.reward = 0
	v.finished = false
	v.last = arena.StepResult{}
	v.status = fmt.Sprintf("episode %s", info.EpisodeID[:8])
}

// pressed reports an edge-triggered keypress via the prevKeys map.
func (v *viewer) pressed(k ebiten.Key) bool {
	cur := ebiten.IsKeyPressed(k)
	was := v.prevKeys[k]
	v.prevKeys[k] = cur
	return cur && !was
}

// playerAction maps held keys to the single action the environment accepts
// per tick. Fire wins over movement so a burst is never swallowed by
// steering.
func playerAction() arena.Action {
	switch {
	case ebiten.IsKeyPressed(ebiten.KeySpace):
		return arena.ActionFire
	case ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp):
		return arena.ActionMoveForward
	case ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown):
		return arena.ActionMoveBackward
	case ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight):
		return arena.ActionRotateCW
	case ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft):
		return arena.ActionRotateCCW
	default:
		return arena.ActionNoOp
	}
}

func (v *viewer) Update() error {
	if v.pressed(ebiten.KeyR) {
		v.restart()
		return nil
	}
	if v.pressed(ebiten.KeyP) {
		v.showPath = !v.showPath
	}
	if v.pressed(ebiten.KeyG) {
		v.showGrid = !v.showGrid
	}
	if v.pressed(ebiten.KeyC) {
		if err := clipboard.WriteAll(v.diagnosticsReport()); err != nil {
			v.status = fmt.Sprintf("clipboard: %v", err)
		} else {
			v.status = "report copied"
		}
	}
	if v.finished {
		return nil
	}

	res, err := v.env.Step(playerAction())
	if err != nil {
		return err
	}
	v.last = res
	v.reward += res.Reward
	if res.Terminated || res.Truncated {
		v.finished = true
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)

	for _, w := range v.env.Walls() {
		vector.FillRect(screen, float32(w.X), float32(w.Y), float32(w.W), float32(w.H), colWall, false)
		vector.StrokeRect(screen, float32(w.X), float32(w.Y), float32(w.W), float32(w.H), 1.0, colWallEdge, false)
	}

	if v.showGrid {
		v.drawGrid(screen)
	}
	if v.showPath {
		v.drawPath(screen)
	}

	v.drawTank(screen, v.env.PlayerTank(), colPlayer)
	v.drawTank(screen, v.env.BotTank(), colBot)

	for _, b := range v.env.Bullets() {
		vector.FillCircle(screen, float32(b.Pos.X), float32(b.Pos.Y), float32(b.Radius), colBullet, false)
	}

	info := v.last.Info
	hud := fmt.Sprintf("tick=%d reward=%.3f mode=%s outcome=%s\n%s\n[R]estart [P]ath [G]rid [C]opy report",
		info.Tick, v.reward, info.BotMode, info.Outcome, v.status)
	ebitenutil.DebugPrintAt(screen, hud, 14, 14)
}

func (v *viewer) drawTank(screen *ebiten.Image, t *arena.Tank, col color.RGBA) {
	body := col
	if !t.Alive {
		body = colDeadTank
	}
	cx, cy := float32(t.Pos.X), float32(t.Pos.Y)
	vector.FillCircle(screen, cx, cy, float32(t.Radius), body, false)

	// Barrel line shows the heading.
	bx := cx + float32(math.Cos(t.Heading)*t.Radius*1.4)
	by := cy + float32(math.Sin(t.Heading)*t.Radius*1.4)
	vector.StrokeLine(screen, cx, cy, bx, by, 2.0, color.RGBA{R: 240, G: 240, B: 240, A: 255}, false)
}

func (v *viewer) drawPath(screen *ebiten.Image) {
	path := v.env.BotPath()
	if len(path) == 0 {
		return
	}
	grid := v.env.Grid()
	prev := v.env.BotTank().Pos
	for _, c := range path {
		p := grid.CellToWorld(c)
		vector.StrokeLine(screen, float32(prev.X), float32(prev.Y), float32(p.X), float32(p.Y), 1.0, colPath, false)
		vector.FillCircle(screen, float32(p.X), float32(p.Y), 2.0, colPath, false)
		prev = p
	}
}

func (v *viewer) drawGrid(screen *ebiten.Image) {
	grid := v.env.Grid()
	cell := float32(v.cfg.CellSize)
	for cy := 0; cy < grid.Rows(); cy++ {
		for cx := 0; cx < grid.Cols(); cx++ {
			if grid.IsBlocked(arena.Cell{X: cx, Y: cy}, true) {
				vector.FillRect(screen, float32(cx)*cell, float32(cy)*cell, cell, cell, colGridCell, false)
			}
		}
	}
}

// diagnosticsReport renders the episode event log plus a state snapshot as
// plain text for pasting into an issue.
func (v *viewer) diagnosticsReport() string {
	var b strings.Builder
	info := v.last.Info
	fmt.Fprintf(&b, "--- arena diagnostics ---\n")
	fmt.Fprintf(&b, "generated=%s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "episode=%s tick=%d outcome=%s bot_mode=%s reward_total=%.4f\n",
		info.EpisodeID, info.Tick, info.Outcome, info.BotMode, v.reward)
	p, bot := v.env.PlayerTank(), v.env.BotTank()
	fmt.Fprintf(&b, "player: pos=(%.1f,%.1f) heading=%.2f alive=%v cooldown=%d\n",
		p.Pos.X, p.Pos.Y, p.Heading, p.Alive, p.Cooldown)
	fmt.Fprintf(&b, "bot:    pos=(%.1f,%.1f) heading=%.2f alive=%v cooldown=%d\n",
		bot.Pos.X, bot.Pos.Y, bot.Heading, bot.Alive, bot.Cooldown)
	fmt.Fprintf(&b, "bullets=%d\n\n", len(v.env.Bullets()))
	b.WriteString(v.env.Log().Format())
	return b.String()
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return int(v.cfg.ArenaWidth), int(v.cfg.ArenaHeight)
}

func main() {
	var configPath string
	var seed int64
	flag.StringVar(&configPath, "config", "", "optional YAML config file")
	flag.Int64Var(&seed, "seed", -1, "episode seed (-1 = random)")
	flag.Parse()

	cfg := arena.DefaultConfig()
	if configPath != "" {
		loaded, err := arena.LoadConfig(configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}

	v, err := newViewer(cfg, seed)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowTitle("Tank Trouble")
	ebiten.SetWindowSize(int(cfg.ArenaWidth)*2, int(cfg.ArenaHeight)*2)
	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
