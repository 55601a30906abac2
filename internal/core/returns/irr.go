// Package returns computes money-weighted and time-weighted period returns.
package returns

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUndefined is returned when no rate solves the cash flow equation.
var ErrUndefined = errors.New("return is undefined")

const (
	Seed                   = 0.1
	Tolerance              = 1e-6
	maxNewtonIterations    = 100
	maxBisectionIterations = 200
	daysPerYear            = 365.0
)

// CashFlow is a dated signed amount. From the investor's view contributions
// are negative and withdrawals positive.
type CashFlow struct {
	Date   time.Time
	Amount decimal.Decimal
}

type point struct {
	t      float64
	amount float64
}

// IRR solves sum(CF_i / (1+r)^t_i) = 0 where t is measured in years from the
// first flow and terminal is the final positive flow, usually the NAV.
// Newton-Raphson from Seed is tried first, bisection second.
func IRR(flows []CashFlow, terminal CashFlow) (float64, error) {
	all := append(append([]CashFlow(nil), flows...), terminal)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })

	var pts []point
	var hasPos, hasNeg bool
	origin := all[0].Date
	for _, cf := range all {
		a := cf.Amount.InexactFloat64()
		if a == 0 {
			continue
		}
		hasPos = hasPos || a > 0
		hasNeg = hasNeg || a < 0
		pts = append(pts, point{t: cf.Date.Sub(origin).Hours() / 24 / daysPerYear, amount: a})
	}
	if !hasPos || !hasNeg {
		return 0, ErrUndefined
	}

	if r, ok := newton(pts); ok {
		return r, nil
	}
	if r, ok := bisect(pts); ok {
		return r, nil
	}
	return 0, ErrUndefined
}

func npv(pts []point, r float64) (value, derivative float64) {
	for _, p := range pts {
		d := math.Pow(1+r, -p.t)
		value += p.amount * d
		derivative += -p.t * p.amount * d / (1 + r)
	}
	return value, derivative
}

func scale(pts []point) float64 {
	s := 0.0
	for _, p := range pts {
		s += math.Abs(p.amount)
	}
	return s
}

func newton(pts []point) (float64, bool) {
	r := Seed
	limit := Tolerance * scale(pts)
	for i := 0; i < maxNewtonIterations; i++ {
		f, df := npv(pts, r)
		if df == 0 || math.IsNaN(df) || math.IsInf(df, 0) {
			return 0, false
		}
		next := r - f/df
		if math.IsNaN(next) || math.IsInf(next, 0) || next <= -1 {
			return 0, false
		}
		if math.Abs(next-r) < Tolerance {
			if v, _ := npv(pts, next); math.Abs(v) <= limit {
				return next, true
			}
			return 0, false
		}
		r = next
	}
	return 0, false
}

func bisect(pts []point) (float64, bool) {
	lo, hi := -0.999999, 1.0
	flo, _ := npv(pts, lo)
	fhi, _ := npv(pts, hi)
	for sameSign(flo, fhi) {
		hi *= 2
		if hi > 1e6 {
			return 0, false
		}
		fhi, _ = npv(pts, hi)
	}
	for i := 0; i < maxBisectionIterations; i++ {
		mid := (lo + hi) / 2
		fmid, _ := npv(pts, mid)
		if fmid == 0 || (hi-lo)/2 < Tolerance {
			return mid, true
		}
		if sameSign(fmid, flo) {
			lo, flo = mid, fmid
		} else {
			hi = mid
		}
	}
	return 0, false
}

func sameSign(a, b float64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}
