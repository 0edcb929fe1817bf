// Package optimize implements damped nonlinear least-squares minimization
// on top of the matrix package. The solver is the classic
// Levenberg-Marquardt iteration: Jacobians estimated by finite differences,
// normal equations (H + lambda*I)*delta = -g solved through the Cholesky
// inverse, damping grown geometrically on failed steps and shrunk on
// successful ones.
//
// A single Execute call is synchronous, holds no external resources and
// keeps no state across calls. Reaching the iteration cap is a normal
// terminal status, not an error; numerical breakdown (a damped Hessian
// that is not positive definite, a degenerate improvement ratio) is an
// error so callers can retry with a different seed or damping.
package optimize

import (
	"math"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"go.robocore.dev/rnc/matrix"
)

// ErrDegenerateRatio reports an improvement-ratio denominator too close to
// zero to judge a step.
var ErrDegenerateRatio = errors.New("optimize: improvement ratio denominator underflow")

// EvalFunc evaluates the residual (non-squared error) vector at x; the sum
// of squares of the output is the objective. userParam carries whatever
// constant data the residual needs, unmodified. The output length must
// stay constant across calls.
type EvalFunc[U any] func(x matrix.Vec, userParam U) matrix.Vec

// IncrementFunc replaces the Euclidean update x_new = x + delta, for
// on-manifold parameter spaces.
type IncrementFunc[U any] func(xOld, delta matrix.Vec, userParam U) matrix.Vec

// Status is the terminal state of an Execute call.
type Status int

const (
	// Converged means a gradient or step-size tolerance was met.
	Converged Status = iota + 1
	// MaxIterationsReached means the iteration cap expired first. Callers
	// judge acceptability from the result diagnostics.
	MaxIterationsReached
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case MaxIterationsReached:
		return "max iterations reached"
	default:
		return "unknown"
	}
}

// Result carries the outcome and diagnostics of one Execute call.
type Result struct {
	// OptimalX is the best parameter vector found.
	OptimalX matrix.Vec
	Status   Status
	// InitialSqrErr and FinalSqrErr are the sum of squared residuals at
	// the start and end points.
	InitialSqrErr float64
	FinalSqrErr   float64
	// Iterations is the number of iterations executed.
	Iterations int
	// LastErrVector is the residual vector at the final point.
	LastErrVector matrix.Vec
	// H is the final J^T*J Hessian approximation. With M the covariance of
	// the observations, H*M*H^T estimates the optimal-parameter
	// covariance.
	H *matrix.Dynamic
	// Path holds one row per iteration when requested: the parameter
	// vector followed by the running squared error. Nil otherwise.
	Path *matrix.Dynamic
}

// LevenbergMarquardt is a Levenberg-Marquardt solver. Construct with
// NewLevenbergMarquardt and adjust the exported knobs before calling
// Execute.
type LevenbergMarquardt[U any] struct {
	// MaxIterations caps the iteration count.
	MaxIterations int
	// Tau seeds the damping as lambda = Tau * max(diag(H)).
	Tau float64
	// E1 is the gradient infinity-norm convergence tolerance; E2 the
	// relative step-size tolerance.
	E1, E2 float64
	// ReturnPath records the per-iteration parameter path in Result.Path.
	ReturnPath bool
	// IncrementAdder optionally replaces the Euclidean x + delta update.
	IncrementAdder IncrementFunc[U]

	logger golog.Logger
}

// NewLevenbergMarquardt returns a solver with the standard defaults:
// 200 iterations, tau 1e-3, e1 and e2 1e-8, no path recording.
func NewLevenbergMarquardt[U any](logger golog.Logger) *LevenbergMarquardt[U] {
	return &LevenbergMarquardt[U]{
		MaxIterations: 200,
		Tau:           1e-3,
		E1:            1e-8,
		E2:            1e-8,
		logger:        logger,
	}
}

// Execute minimizes the sum of squared residuals of fn starting from x0,
// estimating Jacobians by central finite differences with the given
// per-parameter increments.
func (lm *LevenbergMarquardt[U]) Execute(fn EvalFunc[U], x0, increments matrix.Vec, userParam U) (*Result, error) {
	n := len(x0)
	if len(increments) != n {
		return nil, errors.Errorf("optimize: got %d increments for %d parameters", len(increments), n)
	}

	x := x0.Clone()
	out := &Result{H: matrix.NewDynamic(0, 0)}

	j := matrix.NewDynamic(0, 0)
	if err := EstimateJacobian(fn, x, increments, userParam, j); err != nil {
		return nil, err
	}
	matrix.MulAtA(out.H, j)

	fx := fn(x, userParam)
	g := matrix.MulAtb(j, fx)

	found := g.NormInf() <= lm.E1
	if found {
		lm.logger.Debugf("converged at start: inf-norm(g)=%e <= e1", g.NormInf())
	}

	lambda := lm.Tau * out.H.MaximumDiagonal()
	v := 2.0
	iter := 0
	fX := fx.Dot(fx)
	out.InitialSqrErr = fX

	var path *matrix.Dynamic
	if lm.ReturnPath && lm.MaxIterations > 0 {
		path = matrix.NewDynamic(lm.MaxIterations, n+1)
		for i := 0; i < n; i++ {
			path.Set(0, i, x[i])
		}
		path.Set(0, n, fX)
	}

	damped := matrix.NewDynamic(n, n)
	for !found {
		iter++
		if iter >= lm.MaxIterations {
			break
		}

		damped.CopyFrom(out.H)
		for k := 0; k < n; k++ {
			damped.Set(k, k, damped.At(k, k)+lambda)
		}
		aux, err := matrix.InverseLLt(damped)
		if err != nil {
			return nil, errors.Wrapf(err, "optimize: damped normal equations unsolvable at iteration %d", iter)
		}
		delta := matrix.MulAb(aux, g)
		delta.Scale(-1)

		stepNorm := delta.Norm()
		xNorm := x.Norm()
		lm.logger.Debugf("iter %d: F=%e lambda=%e |delta|=%e", iter, fX, lambda, stepNorm)

		if stepNorm < lm.E2*(xNorm+lm.E2) {
			found = true
			lm.logger.Debugf("converged: step %e below tolerance %e", stepNorm, lm.E2*(xNorm+lm.E2))
		} else {
			var xnew matrix.Vec
			if lm.IncrementAdder != nil {
				xnew = lm.IncrementAdder(x, delta, userParam)
			} else {
				xnew = x.AddScaled(1, delta)
			}
			fxnew := fn(xnew, userParam)
			fXnew := fxnew.Dot(fxnew)

			// Gain ratio: actual improvement over the improvement the
			// linear model predicted, delta^T*(lambda*delta - g).
			tmp := delta.Clone()
			tmp.Scale(lambda)
			denom := tmp.Sub(g).Dot(delta)
			if math.Abs(denom) < 1e-300 {
				return nil, errors.Wrapf(ErrDegenerateRatio, "at iteration %d", iter)
			}
			ratio := (fX - fXnew) / denom

			if ratio > 0 {
				x = xnew
				fx = fxnew
				fX = fXnew

				if err := EstimateJacobian(fn, x, increments, userParam, j); err != nil {
					return nil, err
				}
				matrix.MulAtA(out.H, j)
				g = matrix.MulAtb(j, fx)

				found = g.NormInf() <= lm.E1
				if found {
					lm.logger.Debugf("converged: inf-norm(g)=%e <= e1", g.NormInf())
				}
				lambda *= math.Max(0.33, 1-math.Pow(2*ratio-1, 3))
				v = 2
			} else {
				// Failed step: escalate damping geometrically.
				lambda *= v
				v *= 2
			}

			if path != nil {
				for i := 0; i < n; i++ {
					path.Set(iter, i, x[i])
				}
				path.Set(iter, n, fX)
			}
		}
	}

	out.OptimalX = x
	out.FinalSqrErr = fX
	out.Iterations = iter
	out.LastErrVector = fx
	if found {
		out.Status = Converged
	} else {
		out.Status = MaxIterationsReached
	}
	if path != nil {
		rows := iter
		if rows > lm.MaxIterations {
			rows = lm.MaxIterations
		}
		trimmed := matrix.NewDynamic(rows, n+1)
		for r := 0; r < rows; r++ {
			for cIdx := 0; cIdx <= n; cIdx++ {
				trimmed.Set(r, cIdx, path.At(r, cIdx))
			}
		}
		out.Path = trimmed
	}
	return out, nil
}
