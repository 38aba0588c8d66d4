package sizepolicy

import (
	"github.com/ByLCY/tilefit/geom"
	"github.com/ByLCY/tilefit/sizehint"
)

// glueAxis is one axis of a free-glue resolution, expressed in terms of
// position/size so both axes share the same code.
type glueAxis struct {
	anchor     geom.Anchor
	weakPos    bool
	weakSize   bool
	pos, size  int // request
	bPos, bExt int // bound
}

// full reports whether the axis degenerates to filling the whole bound.
func (a glueAxis) full() bool {
	return a.weakSize && a.anchor == geom.AnchorCenter
}

// literal reports whether the requested position is taken as given and the
// size runs from there to an edge.
func (a glueAxis) literal() bool {
	return !a.weakPos && a.weakSize
}

// resolveSize returns the axis size and, for literal axes, the already fitted
// position.
func (a glueAxis) resolveSize() (size, pos int) {
	size = min(a.size, a.bExt)
	if a.full() {
		size = a.bExt
	}
	if a.literal() {
		pos = geom.ClampAxis(a.pos, 1, a.bPos, a.bExt)
		if a.anchor == geom.AnchorFar {
			size = a.bPos + a.bExt - pos
		} else {
			size = min(size, a.bPos+a.bExt-pos)
		}
	}
	return size, pos
}

// resolvePos places the axis once the (hint-corrected) size is known.
func (a glueAxis) resolvePos(size, literalPos int) int {
	switch {
	case a.literal():
		return literalPos
	case a.weakPos:
		switch a.anchor {
		case geom.AnchorCenter:
			return a.bPos + (a.bExt-size)/2
		case geom.AnchorNear:
			return a.bPos
		case geom.AnchorFar:
			return a.bPos + a.bExt - size
		}
	}
	return geom.ClampAxis(a.pos, size, a.bPos, a.bExt)
}

// contact returns the anchor recording which bound edges the axis touches.
func (a glueAxis) contact(pos, size int) geom.Anchor {
	if a.full() {
		return geom.AnchorCenter
	}
	return geom.AnchorFromContact(pos <= a.bPos, pos+size >= a.bPos+a.bExt)
}

// freeGlue resolves free placement and returns the policy re-anchored to the
// edges the result actually touches.
func freeGlue(p Policy, reg sizehint.Region, rq geom.Rect, flags RequestFlags, bound geom.Rect) (Fit, Policy) {
	ax := glueAxis{
		anchor: p.Gravity.H, weakPos: flags.Has(WeakX), weakSize: flags.Has(WeakW),
		pos: rq.X, size: rq.W, bPos: bound.X, bExt: bound.W,
	}
	ay := glueAxis{
		anchor: p.Gravity.V, weakPos: flags.Has(WeakY), weakSize: flags.Has(WeakH),
		pos: rq.Y, size: rq.H, bPos: bound.Y, bExt: bound.H,
	}

	w, x := ax.resolveSize()
	h, y := ay.resolveSize()

	// Whether min() above changed anything is not tracked, so hints always run.
	w, h = sizehint.CorrectFor(reg, w, h)
	// Increments with no base can shrink an axis to zero.
	w, h = max(w, 1), max(h, 1)

	r := geom.Rect{
		X: ax.resolvePos(w, x),
		Y: ay.resolvePos(h, y),
		W: w,
		H: h,
	}

	glued := Policy{
		Category: p.Category,
		Gravity:  geom.Gravity{H: ax.contact(r.X, r.W), V: ay.contact(r.Y, r.H)},
	}
	return Exact(r.Floor()), glued
}
