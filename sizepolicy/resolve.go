package sizepolicy

import (
	"github.com/ByLCY/tilefit/geom"
	"github.com/ByLCY/tilefit/sizehint"
)

// stretch pairs each stretch/full category with the gravity and fill axes it
// stands for. The name is the anchored edge, not the filled axis:
// stretch_left fills height.
var stretch = map[Category]struct {
	gravity      geom.Gravity
	fillW, fillH bool
}{
	CategoryStretchLeft:   {geom.Gravity{H: geom.AnchorNear, V: geom.AnchorCenter}, false, true},
	CategoryStretchRight:  {geom.Gravity{H: geom.AnchorFar, V: geom.AnchorCenter}, false, true},
	CategoryStretchTop:    {geom.Gravity{H: geom.AnchorCenter, V: geom.AnchorNear}, true, false},
	CategoryStretchBottom: {geom.Gravity{H: geom.AnchorCenter, V: geom.AnchorFar}, true, false},
	CategoryFullExact:     {geom.Gravity{H: geom.AnchorCenter, V: geom.AnchorCenter}, true, true},
}

// Resolve computes where a region goes inside bound.
//
// The effective request is rq when given, else reg's current geometry, else
// the bound itself; reg may be nil. The returned policy equals p except for
// the free-glue category, whose gravity is rewritten to the bound edges the
// result touches. Callers that keep the policy across reflows should store
// the returned value.
func Resolve(p Policy, reg sizehint.Region, rq *geom.Rect, flags RequestFlags, bound geom.Rect) (Fit, Policy) {
	var req geom.Rect
	switch {
	case rq != nil:
		req = *rq
	case reg != nil:
		req = reg.Geometry()
	default:
		req = bound
	}

	switch p.Category {
	case CategoryGravity:
		return gravityStretch(p.Gravity, reg, req, bound, false, false), p
	case CategoryStretchLeft, CategoryStretchRight, CategoryStretchTop, CategoryStretchBottom, CategoryFullExact:
		s := stretch[p.Category]
		return gravityStretch(s.gravity, reg, req, bound, s.fillW, s.fillH), p
	case CategoryFree:
		r := geom.Constrain(req, bound)
		r.W, r.H = sizehint.CorrectFor(reg, r.W, r.H)
		return Exact(r.Floor()), p
	case CategoryFreeGlue:
		return freeGlue(p, reg, req, flags, bound)
	default:
		// full_bounds, default and anything unrecognized
		return Bounds(), p
	}
}
