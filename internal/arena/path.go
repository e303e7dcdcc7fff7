package arena

// pathNeighbors is the fixed BFS visit order. 4-connected on purpose:
// diagonal moves cut wall corners on a coarse grid.
var pathNeighbors = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

// nearestWalkableRadius bounds the spiral search for a reachable stand-in
// when the requested goal cell is blocked.
const nearestWalkableRadius = 5

// FindPath runs a breadth-first search over the inflated grid from start to
// goal and returns the cell sequence excluding the start cell. Unweighted
// edges make BFS shortest-by-hops, and the fixed neighbor order makes ties
// deterministic. An unreachable goal yields nil — callers fall back to
// direct-line movement.
func FindPath(g *GridMap, start, goal Cell) []Cell {
	if g.IsBlocked(goal, true) {
		var ok bool
		goal, ok = nearestWalkable(g, goal)
		if !ok {
			return nil
		}
	}

	// The start cell is allowed to be blocked: a tank standing inside the
	// clearance band still needs a way out.
	queue := []Cell{start}
	cameFrom := map[Cell]Cell{start: start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == goal {
			break
		}
		for _, d := range pathNeighbors {
			next := Cell{X: cur.X + d[0], Y: cur.Y + d[1]}
			if g.IsBlocked(next, true) {
				continue
			}
			if _, seen := cameFrom[next]; seen {
				continue
			}
			cameFrom[next] = cur
			queue = append(queue, next)
		}
	}

	if _, ok := cameFrom[goal]; !ok {
		return nil
	}

	var path []Cell
	for cur := goal; cur != start; cur = cameFrom[cur] {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// nearestWalkable spirals outward from c looking for an unblocked inflated
// cell, scanning rings in a fixed order for determinism.
func nearestWalkable(g *GridMap, c Cell) (Cell, bool) {
	for r := 1; r <= nearestWalkableRadius; r++ {
		for dx := -r; dx <= r; dx++ {
			for dy := -r; dy <= r; dy++ {
				n := Cell{X: c.X + dx, Y: c.Y + dy}
				if !g.IsBlocked(n, true) {
					return n, true
				}
			}
		}
	}
	return Cell{}, false
}
