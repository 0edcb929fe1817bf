package optimize

import (
	"math"
	"testing"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.robocore.dev/rnc/matrix"
)

func TestQuadraticResidual(t *testing.T) {
	logger := golog.NewTestLogger(t)

	// Single-parameter residual f(x) = x - target; optimum at x = target.
	fn := func(x matrix.Vec, target float64) matrix.Vec {
		return matrix.Vec{x[0] - target}
	}

	lm := NewLevenbergMarquardt[float64](logger)
	res, err := lm.Execute(fn, matrix.Vec{0}, matrix.Vec{0.001}, 5.0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Status, test.ShouldEqual, Converged)
	test.That(t, res.OptimalX[0], test.ShouldAlmostEqual, 5, 1e-6)
	test.That(t, res.FinalSqrErr, test.ShouldAlmostEqual, 0, 1e-10)
	test.That(t, res.InitialSqrErr, test.ShouldAlmostEqual, 25, 1e-9)
	test.That(t, res.Iterations, test.ShouldBeLessThan, lm.MaxIterations)
	test.That(t, len(res.LastErrVector), test.ShouldEqual, 1)
	test.That(t, res.H.Rows(), test.ShouldEqual, 1)
	test.That(t, res.H.At(0, 0), test.ShouldBeGreaterThan, 0)
}

type lineFitData struct {
	xs, ys []float64
}

func TestLineFit(t *testing.T) {
	logger := golog.NewTestLogger(t)

	// Noise-free samples of y = 2 - 3x; the solver must recover (a, b).
	data := lineFitData{}
	for i := 0; i < 20; i++ {
		x := float64(i) * 0.25
		data.xs = append(data.xs, x)
		data.ys = append(data.ys, 2-3*x)
	}
	fn := func(p matrix.Vec, d lineFitData) matrix.Vec {
		out := matrix.NewVec(len(d.xs))
		for i, x := range d.xs {
			out[i] = p[0] + p[1]*x - d.ys[i]
		}
		return out
	}

	lm := NewLevenbergMarquardt[lineFitData](logger)
	lm.ReturnPath = true
	res, err := lm.Execute(fn, matrix.Vec{0, 0}, matrix.Vec{1e-4, 1e-4}, data)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Status, test.ShouldEqual, Converged)
	test.That(t, res.OptimalX[0], test.ShouldAlmostEqual, 2, 1e-6)
	test.That(t, res.OptimalX[1], test.ShouldAlmostEqual, -3, 1e-6)
	test.That(t, res.FinalSqrErr, test.ShouldAlmostEqual, 0, 1e-9)

	// H = J^T*J must come back symmetric.
	test.That(t, res.H.Rows(), test.ShouldEqual, 2)
	test.That(t, res.H.Cols(), test.ShouldEqual, 2)
	test.That(t, res.H.At(0, 1), test.ShouldAlmostEqual, res.H.At(1, 0), 1e-12)

	// The path carries the parameters plus running squared error, and the
	// recorded error never rises.
	test.That(t, res.Path, test.ShouldNotBeNil)
	test.That(t, res.Path.Rows(), test.ShouldEqual, res.Iterations)
	test.That(t, res.Path.Cols(), test.ShouldEqual, 3)
	for r := 1; r < res.Path.Rows(); r++ {
		test.That(t, res.Path.At(r, 2), test.ShouldBeLessThanOrEqualTo, res.Path.At(r-1, 2)+1e-12)
	}
}

func TestMaxIterationsReached(t *testing.T) {
	logger := golog.NewTestLogger(t)

	// Rosenbrock residuals with impossible tolerances and a 2-iteration
	// cap: the solver must report the cap, not a false convergence.
	fn := func(p matrix.Vec, _ struct{}) matrix.Vec {
		return matrix.Vec{10 * (p[1] - p[0]*p[0]), 1 - p[0]}
	}

	lm := NewLevenbergMarquardt[struct{}](logger)
	lm.MaxIterations = 2
	lm.E1 = 1e-300
	lm.E2 = 1e-300
	res, err := lm.Execute(fn, matrix.Vec{-1.2, 1}, matrix.Vec{1e-6, 1e-6}, struct{}{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Status, test.ShouldEqual, MaxIterationsReached)
	test.That(t, res.Iterations, test.ShouldEqual, 2)
	test.That(t, res.Status.String(), test.ShouldEqual, "max iterations reached")
}

func TestAlreadyOptimalStart(t *testing.T) {
	logger := golog.NewTestLogger(t)
	fn := func(x matrix.Vec, _ struct{}) matrix.Vec {
		return matrix.Vec{x[0] - 5}
	}
	lm := NewLevenbergMarquardt[struct{}](logger)
	res, err := lm.Execute(fn, matrix.Vec{5}, matrix.Vec{0.001}, struct{}{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Status, test.ShouldEqual, Converged)
	test.That(t, res.Iterations, test.ShouldEqual, 0)
	test.That(t, res.FinalSqrErr, test.ShouldAlmostEqual, 0, 1e-12)
}

func TestCustomIncrementAdder(t *testing.T) {
	logger := golog.NewTestLogger(t)

	// Angle parameter kept on the circle: the custom adder wraps into
	// (-pi, pi]. The residual pulls toward 3 rad.
	fn := func(x matrix.Vec, _ struct{}) matrix.Vec {
		return matrix.Vec{x[0] - 3}
	}
	calls := 0
	lm := NewLevenbergMarquardt[struct{}](logger)
	lm.IncrementAdder = func(xOld, delta matrix.Vec, _ struct{}) matrix.Vec {
		calls++
		out := xOld.AddScaled(1, delta)
		for out[0] > math.Pi {
			out[0] -= 2 * math.Pi
		}
		for out[0] <= -math.Pi {
			out[0] += 2 * math.Pi
		}
		return out
	}
	res, err := lm.Execute(fn, matrix.Vec{0.5}, matrix.Vec{0.001}, struct{}{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Status, test.ShouldEqual, Converged)
	test.That(t, calls, test.ShouldBeGreaterThan, 0)
	test.That(t, res.OptimalX[0], test.ShouldAlmostEqual, 3, 1e-6)
}

func TestBadIncrements(t *testing.T) {
	logger := golog.NewTestLogger(t)
	fn := func(x matrix.Vec, _ struct{}) matrix.Vec {
		return matrix.Vec{x[0]}
	}
	lm := NewLevenbergMarquardt[struct{}](logger)

	_, err := lm.Execute(fn, matrix.Vec{0, 0}, matrix.Vec{0.001}, struct{}{})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = lm.Execute(fn, matrix.Vec{0}, matrix.Vec{-0.001}, struct{}{})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestEstimateJacobianLinear(t *testing.T) {
	// For a linear residual the finite-difference Jacobian is exact.
	fn := func(x matrix.Vec, _ struct{}) matrix.Vec {
		return matrix.Vec{
			2*x[0] - x[1],
			x[0] + 3*x[1],
			-x[0],
		}
	}
	j := matrix.NewDynamic(0, 0)
	err := EstimateJacobian(fn, matrix.Vec{1, -2}, matrix.Vec{1e-4, 1e-4}, struct{}{}, j)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, j.Rows(), test.ShouldEqual, 3)
	test.That(t, j.Cols(), test.ShouldEqual, 2)
	want := [][]float64{{2, -1}, {1, 3}, {-1, 0}}
	for r := 0; r < 3; r++ {
		for c := 0; c < 2; c++ {
			test.That(t, j.At(r, c), test.ShouldAlmostEqual, want[r][c], 1e-9)
		}
	}
}

func TestNumericalFailureSurfaces(t *testing.T) {
	logger := golog.NewTestLogger(t)

	// A rank-deficient Jacobian makes H singular; with Tau = 0 there is no
	// damping to rescue the factorization, and the solver must surface the
	// numerical failure instead of continuing with a garbage inverse.
	fn := func(x matrix.Vec, _ struct{}) matrix.Vec {
		return matrix.Vec{x[0] + x[1]}
	}
	lm := NewLevenbergMarquardt[struct{}](logger)
	lm.Tau = 0
	_, err := lm.Execute(fn, matrix.Vec{1, 0}, matrix.Vec{0.001, 0.001}, struct{}{})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, matrix.ErrNotPositiveDefinite), test.ShouldBeTrue)
}
