package svm

import (
	"math"
)

// tau replaces a non-positive curvature in the working set update.
const tau = 1e-12

// smo solves the C-SVC dual
//
//	min 0.5 αᵀQα - eᵀα   s.t. yᵀα = 0, 0 <= α <= C
//
// with Q_ij = y_i y_j K_ij, using the second order working set selection of
// Fan, Chen and Lin (2005).
type smo struct {
	k       func(i, j int) float64 // kernel between training rows
	y       []float64              // +1 / -1
	c       float64
	eps     float64
	maxIter int // <0 unlimited

	alpha []float64
	grad  []float64
	qd    []float64
}

type smoResult struct {
	alpha     []float64
	rho       float64
	iter      int
	converged bool
}

func (s *smo) upper(i int) bool { return s.alpha[i] >= s.c }
func (s *smo) lower(i int) bool { return s.alpha[i] <= 0 }

func (s *smo) q(i, j int) float64 { return s.y[i] * s.y[j] * s.k(i, j) }

func (s *smo) solve() smoResult {
	l := len(s.y)
	s.alpha = make([]float64, l)
	s.grad = make([]float64, l)
	s.qd = make([]float64, l)
	for i := 0; i < l; i++ {
		s.grad[i] = -1
		s.qd[i] = s.k(i, i)
	}

	limit := s.maxIter
	if limit < 0 {
		limit = max(10000000, 100*l)
	}

	iter := 0
	converged := false
	for iter < limit {
		i, j, ok := s.selectWorkingSet()
		if !ok {
			converged = true
			break
		}
		iter++
		s.update(i, j)
	}
	if !converged {
		// the last step may have reached optimality
		_, _, ok := s.selectWorkingSet()
		converged = !ok
	}
	return smoResult{alpha: s.alpha, rho: s.rho(), iter: iter, converged: converged}
}

func (s *smo) selectWorkingSet() (int, int, bool) {
	gmax, gmax2 := math.Inf(-1), math.Inf(-1)
	gmaxIdx, gminIdx := -1, -1
	objMin := math.Inf(1)

	for t, yt := range s.y {
		if yt > 0 {
			if !s.upper(t) && -s.grad[t] >= gmax {
				gmax = -s.grad[t]
				gmaxIdx = t
			}
		} else if !s.lower(t) && s.grad[t] >= gmax {
			gmax = s.grad[t]
			gmaxIdx = t
		}
	}
	i := gmaxIdx
	if i < 0 {
		return 0, 0, false
	}

	for j, yj := range s.y {
		var gradDiff, quad float64
		if yj > 0 {
			if s.lower(j) {
				continue
			}
			gradDiff = gmax + s.grad[j]
			if s.grad[j] >= gmax2 {
				gmax2 = s.grad[j]
			}
			quad = s.qd[i] + s.qd[j] - 2*s.y[i]*s.q(i, j)
		} else {
			if s.upper(j) {
				continue
			}
			gradDiff = gmax - s.grad[j]
			if -s.grad[j] >= gmax2 {
				gmax2 = -s.grad[j]
			}
			quad = s.qd[i] + s.qd[j] + 2*s.y[i]*s.q(i, j)
		}
		if gradDiff <= 0 {
			continue
		}
		if quad <= 0 {
			quad = tau
		}
		if obj := -(gradDiff * gradDiff) / quad; obj <= objMin {
			gminIdx = j
			objMin = obj
		}
	}

	if gmax+gmax2 < s.eps || gminIdx < 0 {
		return 0, 0, false
	}
	return i, gminIdx, true
}

func (s *smo) update(i, j int) {
	c := s.c
	qij := s.q(i, j)
	oldI, oldJ := s.alpha[i], s.alpha[j]

	if s.y[i] != s.y[j] {
		quad := s.qd[i] + s.qd[j] + 2*qij
		if quad <= 0 {
			quad = tau
		}
		delta := (-s.grad[i] - s.grad[j]) / quad
		diff := s.alpha[i] - s.alpha[j]
		s.alpha[i] += delta
		s.alpha[j] += delta
		if diff > 0 {
			if s.alpha[j] < 0 {
				s.alpha[j] = 0
				s.alpha[i] = diff
			}
		} else if s.alpha[i] < 0 {
			s.alpha[i] = 0
			s.alpha[j] = -diff
		}
		if diff > 0 {
			if s.alpha[i] > c {
				s.alpha[i] = c
				s.alpha[j] = c - diff
			}
		} else if s.alpha[j] > c {
			s.alpha[j] = c
			s.alpha[i] = c + diff
		}
	} else {
		quad := s.qd[i] + s.qd[j] - 2*qij
		if quad <= 0 {
			quad = tau
		}
		delta := (s.grad[i] - s.grad[j]) / quad
		sum := s.alpha[i] + s.alpha[j]
		s.alpha[i] -= delta
		s.alpha[j] += delta
		if sum > c {
			if s.alpha[i] > c {
				s.alpha[i] = c
				s.alpha[j] = sum - c
			}
		} else if s.alpha[j] < 0 {
			s.alpha[j] = 0
			s.alpha[i] = sum
		}
		if sum > c {
			if s.alpha[j] > c {
				s.alpha[j] = c
				s.alpha[i] = sum - c
			}
		} else if s.alpha[i] < 0 {
			s.alpha[i] = 0
			s.alpha[j] = sum
		}
	}

	dI, dJ := s.alpha[i]-oldI, s.alpha[j]-oldJ
	for t := range s.grad {
		s.grad[t] += s.q(t, i)*dI + s.q(t, j)*dJ
	}
}

func (s *smo) rho() float64 {
	ub, lb := math.Inf(1), math.Inf(-1)
	nFree, sumFree := 0, 0.0
	for i, yi := range s.y {
		yg := yi * s.grad[i]
		switch {
		case s.upper(i):
			if yi < 0 {
				ub = math.Min(ub, yg)
			} else {
				lb = math.Max(lb, yg)
			}
		case s.lower(i):
			if yi > 0 {
				ub = math.Min(ub, yg)
			} else {
				lb = math.Max(lb, yg)
			}
		default:
			nFree++
			sumFree += yg
		}
	}
	if nFree > 0 {
		return sumFree / float64(nFree)
	}
	return (ub + lb) / 2
}
