package geom

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines the integer rectangle and anchor types shared by the
// policy engine, the scene builder and the renderers.

// Rect is a region geometry in pixels, origin top-left.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Right returns the x coordinate just past the right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the y coordinate just past the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Contains reports whether o lies completely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Floor raises non-positive sizes to 1.
func (r Rect) Floor() Rect {
	if r.W < 1 {
		r.W = 1
	}
	if r.H < 1 {
		r.H = 1
	}
	return r
}

func (r Rect) String() string {
	return fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.W, r.H)
}

// ParseRect parses "x,y,w,h" (spaces allowed around the commas).
func ParseRect(s string) (Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Rect{}, fmt.Errorf("rect %q: want x,y,w,h", s)
	}
	var vals [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Rect{}, fmt.Errorf("rect %q: %w", s, err)
		}
		vals[i] = v
	}
	return Rect{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}, nil
}

// Anchor is the placement of a region along one axis of its bound.
type Anchor uint8

const (
	AnchorNone   Anchor = iota // keep the requested position, clamped into the bound
	AnchorNear                 // left or top edge
	AnchorFar                  // right or bottom edge
	AnchorCenter               // centered; for glued policies: touching both edges
)

// AnchorFromContact maps edge contact to an anchor. Touching both edges is
// recorded as AnchorCenter.
func AnchorFromContact(near, far bool) Anchor {
	switch {
	case near && far:
		return AnchorCenter
	case near:
		return AnchorNear
	case far:
		return AnchorFar
	default:
		return AnchorNone
	}
}

// Near reports whether the anchor holds the near edge.
func (a Anchor) Near() bool { return a == AnchorNear || a == AnchorCenter }

// Far reports whether the anchor holds the far edge.
func (a Anchor) Far() bool { return a == AnchorFar || a == AnchorCenter }

// Gravity pairs a horizontal and a vertical anchor.
type Gravity struct {
	H Anchor `json:"h"`
	V Anchor `json:"v"`
}

// IsZero reports whether neither axis is anchored.
func (g Gravity) IsZero() bool { return g.H == AnchorNone && g.V == AnchorNone }
