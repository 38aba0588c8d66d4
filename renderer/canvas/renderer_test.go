package canvasrenderer

import (
	"bytes"
	"image/color"
	"math"
	"testing"

	"github.com/ByLCY/tilefit/geom"
	"github.com/ByLCY/tilefit/scene"
	"github.com/ByLCY/tilefit/sizepolicy"
)

func sampleResult() *scene.Result {
	glued := sizepolicy.Policy{
		Category: sizepolicy.CategoryFreeGlue,
		Gravity:  geom.Gravity{H: geom.AnchorFar},
	}
	dock := geom.Rect{X: 170, Y: 10, W: 30, H: 20}
	moved := geom.Rect{X: 270, Y: 10, W: 30, H: 20}
	return &scene.Result{
		Name: "Desk",
		Meta: scene.SceneMeta{Title: "glue demo", Keywords: []string{"wm"}},
		Frames: []scene.Frame{{
			Name:  "main",
			Bound: geom.Rect{W: 200, H: 100},
			Passes: []scene.Pass{
				{
					Index: 0,
					Bound: geom.Rect{W: 200, H: 100},
					Placements: []scene.Placement{
						{Region: "dock", Mode: sizepolicy.FitExact, Rect: &dock, Next: glued},
						{Region: "pane", Mode: sizepolicy.FitBounds, Color: &scene.Color{R: 255}},
					},
				},
				{
					Index: 1,
					Bound: geom.Rect{W: 300, H: 150},
					Placements: []scene.Placement{
						{Region: "dock", Policy: glued, Mode: sizepolicy.FitExact, Rect: &moved, Next: glued},
					},
				},
			},
		}},
	}
}

func TestRenderProducesPDF(t *testing.T) {
	out, err := NewRenderer(Options{}).Render(sampleResult())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF: %q", out[:min(len(out), 16)])
	}
}

func TestRenderRejectsEmptyResult(t *testing.T) {
	r := NewRenderer(Options{})
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("expected error for nil result")
	}
	if _, err := r.Render(&scene.Result{}); err == nil {
		t.Fatalf("expected error for result without passes")
	}
}

func TestPageGeometry(t *testing.T) {
	r := NewRenderer(Options{Scale: 0.5, Margin: 10})
	w, h := r.pageSize(geom.Rect{X: 50, Y: 50, W: 200, H: 100})
	if w != 120 || h != 70 {
		t.Fatalf("pageSize = %gx%g, want 120x70", w, h)
	}

	bound := geom.Rect{X: 50, Y: 50, W: 200, H: 100}
	b := r.toPage(bound, geom.Rect{X: 60, Y: 50, W: 20, H: 10})
	if b != (box{X: 15, Y: 10, W: 10, H: 5}) {
		t.Fatalf("toPage = %+v", b)
	}
}

func TestGlueEdges(t *testing.T) {
	b := box{X: 1, Y: 2, W: 10, H: 5}
	cases := map[string]struct {
		g    geom.Gravity
		want int
	}{
		"none":         {geom.Gravity{}, 0},
		"right":        {geom.Gravity{H: geom.AnchorFar}, 1},
		"left and top": {geom.Gravity{H: geom.AnchorNear, V: geom.AnchorNear}, 2},
		"all edges":    {geom.Gravity{H: geom.AnchorCenter, V: geom.AnchorCenter}, 4},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := len(glueEdges(b, tc.g)); got != tc.want {
				t.Fatalf("glueEdges = %d edges, want %d", got, tc.want)
			}
		})
	}

	right := glueEdges(b, geom.Gravity{H: geom.AnchorFar})[0]
	if right != (edge{11, 2, 11, 7}) {
		t.Fatalf("right edge = %+v", right)
	}
}

func TestColorFor(t *testing.T) {
	r := NewRenderer(Options{Palette: []string{"#ff0000", "#00ff00"}})
	if got := r.colorFor(scene.Placement{}, 3); got != (color.RGBA{G: 255, A: 255}) {
		t.Fatalf("palette should cycle, got %+v", got)
	}
	explicit := scene.Placement{Color: &scene.Color{R: 1, G: 2, B: 3}}
	if got := r.colorFor(explicit, 0); got != (color.RGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Fatalf("explicit color should win, got %+v", got)
	}

	_, _, _, a := withAlpha(color.RGBA{R: 255, A: 255}, fillAlpha).RGBA()
	if math.Abs(float64(a)/0xffff-fillAlpha) > 0.01 {
		t.Fatalf("fill alpha = %d", a)
	}
}
