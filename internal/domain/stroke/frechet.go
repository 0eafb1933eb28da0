package stroke

import "math"

// FrechetDistance computes the discrete Fréchet distance between a and b: the
// smallest achievable maximum point-to-point distance over all monotone
// couplings of their indices. Either index, or both, may advance at each step
// but neither may go back.
//
// The coupling table is filled row by row:
//
//	ca[0][0] = d(a0, b0)
//	ca[i][0] = max(ca[i-1][0], d(ai, b0))
//	ca[0][j] = max(ca[0][j-1], d(a0, bj))
//	ca[i][j] = max(min(ca[i-1][j], ca[i-1][j-1], ca[i][j-1]), d(ai, bj))
//
// Returns +Inf if either sequence is empty.
func FrechetDistance(a, b []Point) float64 {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return math.Inf(1)
	}

	ca := make([]float64, n*m)
	at := func(i, j int) float64 { return ca[i*m+j] }

	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			d := distance(a[i], b[j])
			var reach float64
			switch {
			case i == 0 && j == 0:
				reach = d
			case i == 0:
				reach = at(0, j-1)
			case j == 0:
				reach = at(i-1, 0)
			default:
				reach = min(at(i-1, j), at(i-1, j-1), at(i, j-1))
			}
			ca[i*m+j] = max(reach, d)
		}
	}

	return ca[n*m-1]
}
