package stroke

// ResampleCount is the number of points both strokes are resampled to before
// comparison.
const ResampleCount = 32

// Resample returns n points spaced at equal arc length along points. The first
// output point is points[0] and the last is the final input point. A polyline
// of zero length yields n copies of its first point. Returns nil for empty
// input or n < 1.
func Resample(points []Point, n int) []Point {
	if len(points) == 0 || n < 1 {
		return nil
	}

	out := make([]Point, n)
	out[0] = points[0]
	if n == 1 {
		return out
	}

	total := pathLength(points)
	if total == 0 {
		for i := range out {
			out[i] = points[0]
		}
		return out
	}

	interval := total / float64(n-1)
	seg := 1
	walked := 0.0 // arc length from points[0] to points[seg-1]
	for k := 1; k < n-1; k++ {
		target := interval * float64(k)
		for seg < len(points)-1 && walked+distance(points[seg-1], points[seg]) < target {
			walked += distance(points[seg-1], points[seg])
			seg++
		}

		a, b := points[seg-1], points[seg]
		t := 0.0
		if d := distance(a, b); d > 0 {
			t = (target - walked) / d
		}
		t = clip(t, 0, 1)
		out[k] = Point{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)}
	}
	out[n-1] = points[len(points)-1]

	return out
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
