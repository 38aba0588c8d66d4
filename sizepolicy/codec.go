package sizepolicy

import (
	"fmt"
	"strings"

	"github.com/ByLCY/tilefit/geom"
)

// Legacy packed encoding. The category lives in its own byte and must be
// read through CategoryMask before any anchor bits are looked at.
const (
	CategoryMask uint32 = 0x00ff

	HorizMask   uint32 = 0x0300
	HorizLeft   uint32 = 0x0100
	HorizRight  uint32 = 0x0200
	HorizCenter uint32 = HorizLeft | HorizRight

	VertMask   uint32 = 0x0c00
	VertTop    uint32 = 0x0400
	VertBottom uint32 = 0x0800
	VertCenter uint32 = VertTop | VertBottom
)

type tableEntry struct {
	name   string
	policy Policy
}

func gravityOf(c Category, h, v geom.Anchor) Policy {
	return Policy{Category: c, Gravity: geom.Gravity{H: h, V: v}}
}

var (
	near   = geom.AnchorNear
	far    = geom.AnchorFar
	center = geom.AnchorCenter
)

// table is the configuration name table, in listing order.
var table = []tableEntry{
	{"default", DefaultPolicy},
	{"full", Policy{Category: CategoryFullExact}},
	{"full_bounds", Policy{Category: CategoryFullBounds}},
	{"free", Policy{Category: CategoryFree}},
	{"free_glue", Policy{Category: CategoryFreeGlue}},
	{"northwest", gravityOf(CategoryGravity, near, near)},
	{"north", gravityOf(CategoryGravity, center, near)},
	{"northeast", gravityOf(CategoryGravity, far, near)},
	{"west", gravityOf(CategoryGravity, near, center)},
	{"center", gravityOf(CategoryGravity, center, center)},
	{"east", gravityOf(CategoryGravity, far, center)},
	{"southwest", gravityOf(CategoryGravity, near, far)},
	{"south", gravityOf(CategoryGravity, center, far)},
	{"southeast", gravityOf(CategoryGravity, far, far)},
	{"stretch_top", Policy{Category: CategoryStretchTop}},
	{"stretch_bottom", Policy{Category: CategoryStretchBottom}},
	{"stretch_left", Policy{Category: CategoryStretchLeft}},
	{"stretch_right", Policy{Category: CategoryStretchRight}},
	{"free_glue_northwest", gravityOf(CategoryFreeGlue, near, near)},
	{"free_glue_north", gravityOf(CategoryFreeGlue, center, near)},
	{"free_glue_northeast", gravityOf(CategoryFreeGlue, far, near)},
	{"free_glue_west", gravityOf(CategoryFreeGlue, near, center)},
	{"free_glue_center", gravityOf(CategoryFreeGlue, center, center)},
	{"free_glue_east", gravityOf(CategoryFreeGlue, far, center)},
	{"free_glue_southwest", gravityOf(CategoryFreeGlue, near, far)},
	{"free_glue_south", gravityOf(CategoryFreeGlue, center, far)},
	{"free_glue_southeast", gravityOf(CategoryFreeGlue, far, far)},
}

// Lookup finds a policy by name, ignoring case. Unknown names yield
// DefaultPolicy and false; callers decide whether that is an error.
func Lookup(name string) (Policy, bool) {
	for _, e := range table {
		if strings.EqualFold(name, e.name) {
			return e.policy, true
		}
	}
	return DefaultPolicy, false
}

// Name returns the table name of p.
func Name(p Policy) (string, bool) {
	for _, e := range table {
		if e.policy == p {
			return e.name, true
		}
	}
	return "", false
}

// Names lists every table name in table order.
func Names() []string {
	out := make([]string, len(table))
	for i, e := range table {
		out[i] = e.name
	}
	return out
}

// Bits encodes p in the legacy packed format.
func (p Policy) Bits() uint32 {
	bits := uint32(p.Category) & CategoryMask
	switch p.Gravity.H {
	case geom.AnchorNear:
		bits |= HorizLeft
	case geom.AnchorFar:
		bits |= HorizRight
	case geom.AnchorCenter:
		bits |= HorizCenter
	}
	switch p.Gravity.V {
	case geom.AnchorNear:
		bits |= VertTop
	case geom.AnchorFar:
		bits |= VertBottom
	case geom.AnchorCenter:
		bits |= VertCenter
	}
	return bits
}

// FromBits decodes the legacy packed format. Unknown categories decode to
// CategoryDefault, which resolves to BOUNDS like any unrecognized value.
func FromBits(bits uint32) Policy {
	c := Category(bits & CategoryMask)
	if int(c) >= len(categoryNames) {
		c = CategoryDefault
	}
	var g geom.Gravity
	switch bits & HorizMask {
	case HorizLeft:
		g.H = geom.AnchorNear
	case HorizRight:
		g.H = geom.AnchorFar
	case HorizCenter:
		g.H = geom.AnchorCenter
	}
	switch bits & VertMask {
	case VertTop:
		g.V = geom.AnchorNear
	case VertBottom:
		g.V = geom.AnchorFar
	case VertCenter:
		g.V = geom.AnchorCenter
	}
	return Policy{Category: c, Gravity: g}
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText accepts table names and the descriptors String produces.
func (p *Policy) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if v, ok := Lookup(s); ok {
		*p = v
		return nil
	}
	v, err := parseDescriptor(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// parseDescriptor reads "category[h-edges,v-edges]", e.g.
// "free_glue[left|right,top]".
func parseDescriptor(s string) (Policy, error) {
	open := strings.IndexByte(s, '[')
	if open < 0 || !strings.HasSuffix(s, "]") {
		return Policy{}, fmt.Errorf("unknown size policy %q", s)
	}
	cat, ok := categoryByName(s[:open])
	if !ok {
		return Policy{}, fmt.Errorf("unknown size policy category %q", s[:open])
	}
	axes := strings.Split(s[open+1:len(s)-1], ",")
	if len(axes) != 2 {
		return Policy{}, fmt.Errorf("size policy %q: want [h,v] edges", s)
	}
	h, err := parseEdges(axes[0], "left", "right")
	if err != nil {
		return Policy{}, fmt.Errorf("size policy %q: %w", s, err)
	}
	v, err := parseEdges(axes[1], "top", "bottom")
	if err != nil {
		return Policy{}, fmt.Errorf("size policy %q: %w", s, err)
	}
	return Policy{Category: cat, Gravity: geom.Gravity{H: h, V: v}}, nil
}

func parseEdges(s, nearName, farName string) (geom.Anchor, error) {
	var n, f bool
	for _, e := range strings.Split(s, "|") {
		switch strings.ToLower(strings.TrimSpace(e)) {
		case "":
		case nearName:
			n = true
		case farName:
			f = true
		default:
			return geom.AnchorNone, fmt.Errorf("unknown edge %q", e)
		}
	}
	return geom.AnchorFromContact(n, f), nil
}

func categoryByName(s string) (Category, bool) {
	for i, name := range categoryNames {
		if strings.EqualFold(s, name) {
			return Category(i), true
		}
	}
	return CategoryDefault, false
}
