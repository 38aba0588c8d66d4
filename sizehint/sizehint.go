package sizehint

import "github.com/ByLCY/tilefit/geom"

// Hints mirrors the client-declared WM_NORMAL_HINTS constraints. Each group
// only applies when its Has* flag is set.
type Hints struct {
	HasMin bool `json:"hasMin,omitempty"`
	MinW   int  `json:"minW,omitempty"`
	MinH   int  `json:"minH,omitempty"`

	HasMax bool `json:"hasMax,omitempty"`
	MaxW   int  `json:"maxW,omitempty"`
	MaxH   int  `json:"maxH,omitempty"`

	HasInc bool `json:"hasInc,omitempty"`
	IncW   int  `json:"incW,omitempty"`
	IncH   int  `json:"incH,omitempty"`

	HasBase bool `json:"hasBase,omitempty"`
	BaseW   int  `json:"baseW,omitempty"`
	BaseH   int  `json:"baseH,omitempty"`

	// Aspect bounds on (w-baseW)/(h-baseH), as MinAspectX/MinAspectY and
	// MaxAspectX/MaxAspectY.
	HasAspect  bool `json:"hasAspect,omitempty"`
	MinAspectX int  `json:"minAspectX,omitempty"`
	MinAspectY int  `json:"minAspectY,omitempty"`
	MaxAspectX int  `json:"maxAspectX,omitempty"`
	MaxAspectY int  `json:"maxAspectY,omitempty"`
}

// Region is the part of a managed region the policy engine reads.
type Region interface {
	Geometry() geom.Rect
	SizeHints() Hints
}

// Correct returns the nearest size to (w, h) that satisfies hints.
// Non-interactive correction only ever shrinks; interactive correction
// also grows the size up to the minimum first.
func Correct(hints Hints, w, h int, interactive bool) (int, int) {
	if interactive && hints.HasMin {
		w = max(w, hints.MinW)
		h = max(h, hints.MinH)
	}

	bw, bh := 0, 0
	if hints.HasBase {
		bw, bh = hints.BaseW, hints.BaseH
	}

	if hints.HasAspect {
		tw, th := w-bw, h-bh
		if tw > 0 && th > 0 {
			tw, th = correctAspect(hints, tw, th)
			w, h = tw+bw, th+bh
		}
	}

	if hints.HasMax {
		if hints.MaxW > 0 {
			w = min(w, hints.MaxW)
		}
		if hints.MaxH > 0 {
			h = min(h, hints.MaxH)
		}
	}

	if hints.HasInc {
		if tw := w - bw; tw > 0 && hints.IncW > 1 {
			w -= tw % hints.IncW
		}
		if th := h - bh; th > 0 && hints.IncH > 1 {
			h -= th % hints.IncH
		}
	}

	return w, h
}

// correctAspect shrinks whichever dimension is out of the aspect range.
func correctAspect(hints Hints, tw, th int) (int, int) {
	// too wide: tw/th > maxX/maxY
	if hints.MaxAspectX > 0 && hints.MaxAspectY > 0 && tw*hints.MaxAspectY > th*hints.MaxAspectX {
		tw = max(th*hints.MaxAspectX/hints.MaxAspectY, 1)
	}
	// too tall: tw/th < minX/minY
	if hints.MinAspectX > 0 && hints.MinAspectY > 0 && tw*hints.MinAspectY < th*hints.MinAspectX {
		th = max(tw*hints.MinAspectY/hints.MinAspectX, 1)
	}
	return tw, th
}

// CorrectFor applies the non-interactive correction of reg's hints.
// A nil region leaves the size unchanged.
func CorrectFor(reg Region, w, h int) (int, int) {
	if reg == nil {
		return w, h
	}
	return Correct(reg.SizeHints(), w, h, false)
}
