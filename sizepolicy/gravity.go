package sizepolicy

import (
	"github.com/ByLCY/tilefit/geom"
	"github.com/ByLCY/tilefit/sizehint"
)

// gravityStretch serves the gravity, stretch and full categories. fillW and
// fillH force the axis to the bound's extent; otherwise the request is only
// shrunk to fit.
func gravityStretch(g geom.Gravity, reg sizehint.Region, rq geom.Rect, bound geom.Rect, fillW, fillH bool) Fit {
	w := min(rq.W, bound.W)
	if fillW {
		w = bound.W
	}
	h := min(rq.H, bound.H)
	if fillH {
		h = bound.H
	}

	// Hints are only re-applied when the request was altered; an untouched
	// request keeps whatever size the caller asked for.
	if w != rq.W || h != rq.H {
		w, h = sizehint.CorrectFor(reg, w, h)
	}

	r := rq
	r.W, r.H = w, h
	return Exact(geom.ApplyGravity(bound, g, r))
}
