package arena

// borderThickness is the width of the arena boundary walls, px.
const borderThickness = 10

// buildWalls assembles the episode's wall set: boundary walls around the
// arena plus either the configured layout or the stock maze.
func buildWalls(cfg Config) []Rect {
	w, h := cfg.ArenaWidth, cfg.ArenaHeight
	walls := []Rect{
		{X: 0, Y: 0, W: w, H: borderThickness},
		{X: 0, Y: h - borderThickness, W: w, H: borderThickness},
		{X: 0, Y: 0, W: borderThickness, H: h},
		{X: w - borderThickness, Y: 0, W: borderThickness, H: h},
	}
	if len(cfg.Walls) > 0 {
		return append(walls, cfg.Walls...)
	}
	return append(walls, mazeWalls()...)
}

// mazeWalls is the stock interior layout, sized for the 600x600 arena.
func mazeWalls() []Rect {
	return []Rect{
		{X: 100, Y: 100, W: 20, H: 200},
		{X: 100, Y: 300, W: 200, H: 20},
		{X: 400, Y: 100, W: 20, H: 250},
		{X: 300, Y: 450, W: 150, H: 20},
		{X: 150, Y: 450, W: 20, H: 100},
	}
}
