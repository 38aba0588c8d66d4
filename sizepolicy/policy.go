// Package sizepolicy resolves where a managed region goes inside the
// rectangle its container offers it.
//
// A Policy names a category (gravity, stretch, full, free, free-glue) and,
// for the categories that use it, a per-axis anchor. Resolve turns a
// policy, a requested geometry and a bound into a Fit: either an exact
// rectangle, or the BOUNDS mode in which the region sizes itself.
package sizepolicy

import (
	"strings"

	"github.com/ByLCY/tilefit/geom"
)

// Category selects the policy family.
type Category uint8

const (
	// CategoryDefault is the zero value and resolves to BOUNDS.
	CategoryDefault Category = iota
	CategoryGravity
	CategoryStretchLeft
	CategoryStretchRight
	CategoryStretchTop
	CategoryStretchBottom
	CategoryFullExact
	CategoryFullBounds
	CategoryFree
	CategoryFreeGlue
)

var categoryNames = [...]string{
	CategoryDefault:       "default",
	CategoryGravity:       "gravity",
	CategoryStretchLeft:   "stretch_left",
	CategoryStretchRight:  "stretch_right",
	CategoryStretchTop:    "stretch_top",
	CategoryStretchBottom: "stretch_bottom",
	CategoryFullExact:     "full",
	CategoryFullBounds:    "full_bounds",
	CategoryFree:          "free",
	CategoryFreeGlue:      "free_glue",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// Policy is a size policy: a category plus the gravity it carries.
// Only Gravity and the free-glue category read Gravity.
type Policy struct {
	Category Category
	Gravity  geom.Gravity
}

// DefaultPolicy is returned by Lookup when a name is unknown.
var DefaultPolicy = Policy{Category: CategoryDefault}

// String returns the table name when there is one; otherwise a descriptor
// such as "free_glue[left|right,top]".
func (p Policy) String() string {
	if name, ok := Name(p); ok {
		return name
	}
	var h, v []string
	if p.Gravity.H.Near() {
		h = append(h, "left")
	}
	if p.Gravity.H.Far() {
		h = append(h, "right")
	}
	if p.Gravity.V.Near() {
		v = append(v, "top")
	}
	if p.Gravity.V.Far() {
		v = append(v, "bottom")
	}
	return p.Category.String() + "[" + strings.Join(h, "|") + "," + strings.Join(v, "|") + "]"
}

// RequestFlags marks which parts of a geometry request are advisory.
type RequestFlags uint8

const (
	WeakX RequestFlags = 1 << iota
	WeakY
	WeakW
	WeakH
)

// Has reports whether all bits of f are set.
func (r RequestFlags) Has(f RequestFlags) bool { return r&f == f }

func (r RequestFlags) String() string {
	var b strings.Builder
	for _, f := range []struct {
		bit RequestFlags
		c   byte
	}{{WeakX, 'x'}, {WeakY, 'y'}, {WeakW, 'w'}, {WeakH, 'h'}} {
		if r.Has(f.bit) {
			b.WriteByte(f.c)
		}
	}
	return b.String()
}

// ParseFlags reads a set of weak flags written as letters from "xywh".
// Case is ignored; any other character is rejected.
func ParseFlags(s string) (RequestFlags, bool) {
	var r RequestFlags
	for _, c := range strings.ToLower(s) {
		switch c {
		case 'x':
			r |= WeakX
		case 'y':
			r |= WeakY
		case 'w':
			r |= WeakW
		case 'h':
			r |= WeakH
		default:
			return 0, false
		}
	}
	return r, true
}

// FitMode tells the region how to treat a Fit.
type FitMode uint8

const (
	// FitExact: adopt the rectangle as given.
	FitExact FitMode = iota
	// FitBounds: size yourself within the bound by your own logic.
	FitBounds
)

func (m FitMode) String() string {
	if m == FitBounds {
		return "bounds"
	}
	return "exact"
}

// MarshalText implements encoding.TextMarshaler.
func (m FitMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Fit is the outcome of a resolution. The rectangle only exists for
// FitExact results.
type Fit struct {
	mode FitMode
	rect geom.Rect
}

// Exact builds a FitExact result.
func Exact(r geom.Rect) Fit { return Fit{mode: FitExact, rect: r} }

// Bounds builds a FitBounds result.
func Bounds() Fit { return Fit{mode: FitBounds} }

// Mode returns the fit mode.
func (f Fit) Mode() FitMode { return f.mode }

// Rect returns the resolved rectangle; ok is false for FitBounds.
func (f Fit) Rect() (geom.Rect, bool) {
	if f.mode != FitExact {
		return geom.Rect{}, false
	}
	return f.rect, true
}
