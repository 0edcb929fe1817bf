package optimize

import (
	"github.com/pkg/errors"

	"go.robocore.dev/rnc/matrix"
)

// EstimateJacobian fills out with the Jacobian of fn at x, estimated by
// central finite differences: column j holds
// (fn(x+inc_j) - fn(x-inc_j)) / (2*inc_j) with inc_j applied to parameter
// j only. Every increment must be positive. The residual length must not
// change between evaluations.
func EstimateJacobian[U any](fn EvalFunc[U], x, increments matrix.Vec, userParam U, out *matrix.Dynamic) error {
	n := len(x)
	if len(increments) != n {
		return errors.Errorf("optimize: got %d increments for %d parameters", len(increments), n)
	}
	for j, inc := range increments {
		if inc <= 0 {
			return errors.Errorf("optimize: increment %d is %v, must be positive", j, inc)
		}
	}
	if n == 0 {
		out.Resize(0, 0)
		return nil
	}

	m := 0
	for j := 0; j < n; j++ {
		xp := x.Clone()
		xp[j] += increments[j]
		xm := x.Clone()
		xm[j] -= increments[j]
		fp := fn(xp, userParam)
		fm := fn(xm, userParam)
		if len(fp) != len(fm) {
			return errors.Errorf("optimize: residual length changed between evaluations (%d vs %d)", len(fp), len(fm))
		}
		if j == 0 {
			m = len(fp)
			out.Resize(m, n)
			out.Zero()
		} else if len(fp) != m {
			return errors.Errorf("optimize: residual length changed from %d to %d", m, len(fp))
		}
		s := 1 / (2 * increments[j])
		for i := 0; i < m; i++ {
			out.Set(i, j, (fp[i]-fm[i])*s)
		}
	}
	return nil
}
