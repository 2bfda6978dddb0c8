package world

// Line returns the tiles on the Bresenham line from a to b, both ends included.
func Line(a, b Point) []Point {
	dx := b.X - a.X
	dy := b.Y - a.Y

	absDx, absDy := abs(dx), abs(dy)

	// Bresenham: step along the longer axis
	var stepX, stepY int
	if dx > 0 {
		stepX = 1
	} else if dx < 0 {
		stepX = -1
	}
	if dy > 0 {
		stepY = 1
	} else if dy < 0 {
		stepY = -1
	}

	out := make([]Point, 0, max(absDx, absDy)+1)
	x, y := a.X, a.Y
	out = append(out, Point{X: x, Y: y})

	if absDx >= absDy {
		err := 2*absDy - absDx
		for x != b.X {
			x += stepX
			if err > 0 {
				y += stepY
				err -= 2 * absDx
			}
			err += 2 * absDy
			out = append(out, Point{X: x, Y: y})
		}
	} else {
		err := 2*absDx - absDy
		for y != b.Y {
			y += stepY
			if err > 0 {
				x += stepX
				err -= 2 * absDy
			}
			err += 2 * absDx
			out = append(out, Point{X: x, Y: y})
		}
	}

	return out
}
