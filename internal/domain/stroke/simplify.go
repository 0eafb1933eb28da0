package stroke

import "math"

// Simplify reduces s to the vertices whose removal would move the polyline
// by more than epsilon (Ramer–Douglas–Peucker).
//
// The first and last points are always kept. Strokes of two points or fewer,
// and any epsilon that is not positive, yield an unchanged copy. When several
// points share the maximum deviation the lowest index is kept. Raising epsilon
// never increases the number of points returned, and simplifying an already
// simplified stroke with the same epsilon returns it unchanged.
func Simplify(s Stroke, epsilon float64) Stroke {
	if len(s) <= 2 || !(epsilon > 0) {
		return s.clone()
	}

	keep := make([]bool, len(s))
	keep[0] = true
	keep[len(s)-1] = true
	markVertices(s, 0, len(s)-1, epsilon, keep)

	out := make(Stroke, 0, len(s))
	for i, p := range s {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// markVertices flags the interior points of s[first:last+1] that survive
// simplification.
func markVertices(s Stroke, first, last int, epsilon float64, keep []bool) {
	if last-first < 2 {
		return
	}

	worst := -1
	worstD := 0.0
	for i := first + 1; i < last; i++ {
		d := perpendicularDistance(s[i], s[first], s[last])
		if d > worstD {
			worst = i
			worstD = d
		}
	}

	if worst < 0 || worstD <= epsilon {
		return
	}

	keep[worst] = true
	markVertices(s, first, worst, epsilon, keep)
	markVertices(s, worst, last, epsilon, keep)
}

// perpendicularDistance is the distance from p to the line through a and b,
// or to a itself when a and b coincide.
func perpendicularDistance(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return distance(p, a)
	}
	return math.Abs(dy*p.X-dx*p.Y+b.X*a.Y-b.Y*a.X) / length
}
