package sizepolicy

import (
	"encoding/json"
	"testing"

	"github.com/ByLCY/tilefit/geom"
)

func TestLookupIgnoresCase(t *testing.T) {
	want := Policy{Category: CategoryGravity, Gravity: geom.Gravity{H: geom.AnchorNear, V: geom.AnchorNear}}
	for _, name := range []string{"northwest", "NORTHWEST", "NorthWest"} {
		p, ok := Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) failed", name)
		}
		if p != want {
			t.Fatalf("Lookup(%q) = %+v, want %+v", name, p, want)
		}
	}
	p, _ := Lookup("northwest")
	if got := p.Bits(); got != 0x0501 {
		t.Fatalf("northwest bits = %#04x, want 0x0501", got)
	}
}

func TestLookupUnknownYieldsDefault(t *testing.T) {
	p, ok := Lookup("bogus")
	if ok {
		t.Fatalf("Lookup(bogus) should fail")
	}
	if p != DefaultPolicy {
		t.Fatalf("Lookup(bogus) = %+v, want default", p)
	}
	if p.Bits() != 0 {
		t.Fatalf("default policy should encode to 0, got %#x", p.Bits())
	}
}

func TestTableRoundTrip(t *testing.T) {
	names := Names()
	if len(names) != 27 {
		t.Fatalf("expected 27 table entries, got %d", len(names))
	}
	seen := map[Policy]string{}
	for _, name := range names {
		p, ok := Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) failed", name)
		}
		if prev, dup := seen[p]; dup {
			t.Fatalf("%q and %q map to the same policy", prev, name)
		}
		seen[p] = name

		if back, ok := Name(p); !ok || back != name {
			t.Fatalf("Name(Lookup(%q)) = %q, %v", name, back, ok)
		}
		if dec := FromBits(p.Bits()); dec != p {
			t.Fatalf("%s: FromBits(%#x) = %+v, want %+v", name, p.Bits(), dec, p)
		}
		text, err := p.MarshalText()
		if err != nil {
			t.Fatalf("%s: MarshalText: %v", name, err)
		}
		var q Policy
		if err := q.UnmarshalText(text); err != nil {
			t.Fatalf("%s: UnmarshalText(%q): %v", name, text, err)
		}
		if q != p {
			t.Fatalf("%s: text round-trip gave %+v", name, q)
		}
	}
}

func TestFromBitsReadsCategoryFirst(t *testing.T) {
	// 0x0c is outside the category range; anchors still decode
	p := FromBits(0x0c | HorizRight | VertCenter)
	if p.Category != CategoryDefault {
		t.Fatalf("unknown category should decode to default, got %v", p.Category)
	}
	if p.Gravity != (geom.Gravity{H: geom.AnchorFar, V: geom.AnchorCenter}) {
		t.Fatalf("unexpected gravity %+v", p.Gravity)
	}
}

func TestGluedDescriptorRoundTrip(t *testing.T) {
	glued := Policy{Category: CategoryFreeGlue, Gravity: geom.Gravity{H: geom.AnchorFar}}
	if _, ok := Name(glued); ok {
		t.Fatalf("test policy unexpectedly has a table name")
	}
	if s := glued.String(); s != "free_glue[right,]" {
		t.Fatalf("String() = %q", s)
	}

	data, err := json.Marshal(map[string]Policy{"p": glued})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]Policy
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	if out["p"] != glued {
		t.Fatalf("json round-trip gave %+v", out["p"])
	}

	var p Policy
	if err := p.UnmarshalText([]byte("free_glue[left|right,top|bottom]")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Gravity != (geom.Gravity{H: geom.AnchorCenter, V: geom.AnchorCenter}) {
		t.Fatalf("both edges should decode to center, got %+v", p.Gravity)
	}
	for _, bad := range []string{"bogus", "nope[left,top]", "free_glue[up,top]", "free_glue[left]"} {
		if err := p.UnmarshalText([]byte(bad)); err == nil {
			t.Fatalf("UnmarshalText(%q) should fail", bad)
		}
	}
}

func TestParseFlags(t *testing.T) {
	f, ok := ParseFlags("WH")
	if !ok || f != WeakW|WeakH {
		t.Fatalf("ParseFlags(WH) = %v, %v", f, ok)
	}
	if f.String() != "wh" {
		t.Fatalf("String() = %q", f.String())
	}
	if f, ok := ParseFlags(""); !ok || f != 0 {
		t.Fatalf("empty flags should parse to 0")
	}
	if _, ok := ParseFlags("xq"); ok {
		t.Fatalf("ParseFlags(xq) should fail")
	}
}
