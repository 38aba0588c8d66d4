package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/tilefit/geom"
	"github.com/ByLCY/tilefit/renderer"
	"github.com/ByLCY/tilefit/scene"
	"github.com/ByLCY/tilefit/sizepolicy"
)

const (
	boundStrokeWidth = 0.3
	rectStrokeWidth  = 0.2
	glueStrokeWidth  = 1.0
	boundsInset      = 1.0 // bounds 模式轮廓相对边界的内缩（mm）
	fillAlpha        = 0.35
)

var defaultPalette = []string{"#0F62FE", "#24A148", "#F1C21B", "#DA1E28", "#8A3FFC", "#007D79"}

// Renderer draws scene results via github.com/tdewolff/canvas.
type Renderer struct {
	scale   float64
	margin  float64
	palette []color.RGBA
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer. Lengths are in mm.
type Options struct {
	Scale   float64  // 每个场景像素对应的页面长度
	Margin  float64  // 页面四周留白
	Palette []string // 未指定颜色的区域依次取色
}

// NewRenderer creates a renderer; zero fields fall back to 0.5mm scale,
// 10mm margin and the built-in palette.
func NewRenderer(opts Options) *Renderer {
	r := &Renderer{scale: opts.Scale, margin: opts.Margin}
	if r.scale <= 0 {
		r.scale = 0.5
	}
	if r.margin < 0 {
		r.margin = 0
	}
	palette := opts.Palette
	if len(palette) == 0 {
		palette = defaultPalette
	}
	for _, hex := range palette {
		r.palette = append(r.palette, canvas.Hex(hex))
	}
	return r
}

// Render renders one PDF page per pass of every frame.
func (r *Renderer) Render(result *scene.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	var passes []scene.Pass
	for _, f := range result.Frames {
		passes = append(passes, f.Passes...)
	}
	if len(passes) == 0 {
		return nil, fmt.Errorf("缺少可渲染的求解结果")
	}

	var buf bytes.Buffer
	w, h := r.pageSize(passes[0].Bound)
	writer := pdf.New(&buf, w, h, nil)
	r.applyMeta(writer, result.Meta)
	for i, pass := range passes {
		w, h := r.pageSize(pass.Bound)
		if i > 0 {
			writer.NewPage(w, h)
		}
		c := canvas.New(w, h)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与场景保持左上角为原点

		r.drawPass(ctx, pass)
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta scene.SceneMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// pageSize 返回容纳边界及留白所需的页面尺寸（mm）。
func (r *Renderer) pageSize(bound geom.Rect) (float64, float64) {
	return float64(max(bound.W, 1))*r.scale + 2*r.margin, float64(max(bound.H, 1))*r.scale + 2*r.margin
}

// box 是页面坐标下的矩形（mm）。
type box struct {
	X, Y, W, H float64
}

// toPage 将场景矩形映射到页面：边界左上角对齐留白处。
func (r *Renderer) toPage(bound, rc geom.Rect) box {
	return box{
		X: r.margin + float64(rc.X-bound.X)*r.scale,
		Y: r.margin + float64(rc.Y-bound.Y)*r.scale,
		W: float64(rc.W) * r.scale,
		H: float64(rc.H) * r.scale,
	}
}

func (r *Renderer) drawPass(ctx *canvas.Context, pass scene.Pass) {
	frame := r.toPage(pass.Bound, pass.Bound)
	ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	ctx.SetStrokeColor(canvas.Hex("#555555"))
	ctx.SetStrokeWidth(boundStrokeWidth)
	ctx.DrawPath(frame.X, frame.Y, canvas.Rectangle(frame.W, frame.H))

	for i, pl := range pass.Placements {
		col := r.colorFor(pl, i)
		if pl.Mode == sizepolicy.FitBounds || pl.Rect == nil {
			r.drawBounds(ctx, frame, col)
			continue
		}
		b := r.toPage(pass.Bound, *pl.Rect)
		ctx.SetFillColor(withAlpha(col, fillAlpha))
		ctx.SetStrokeColor(col)
		ctx.SetStrokeWidth(rectStrokeWidth)
		ctx.DrawPath(b.X, b.Y, canvas.Rectangle(b.W, b.H))

		if pl.Next.Category == sizepolicy.CategoryFreeGlue {
			r.drawGlue(ctx, b, pl.Next.Gravity, col)
		}
	}
}

// drawBounds 以虚线画出内缩的边界，表示区域在边界内自行决定尺寸。
func (r *Renderer) drawBounds(ctx *canvas.Context, frame box, col color.RGBA) {
	inset := min(boundsInset, frame.W/4, frame.H/4)
	ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	ctx.SetStrokeColor(col)
	ctx.SetStrokeWidth(rectStrokeWidth)
	ctx.SetDashes(0, 1.5, 1.0)
	ctx.DrawPath(frame.X+inset, frame.Y+inset, canvas.Rectangle(frame.W-2*inset, frame.H-2*inset))
	ctx.SetDashes(0)
}

// drawGlue 加粗区域贴住的边。
func (r *Renderer) drawGlue(ctx *canvas.Context, b box, g geom.Gravity, col color.RGBA) {
	ctx.SetStrokeColor(col)
	ctx.SetStrokeWidth(glueStrokeWidth)
	for _, e := range glueEdges(b, g) {
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(e.x2-e.x1, e.y2-e.y1)
		ctx.DrawPath(e.x1, e.y1, p)
	}
}

type edge struct {
	x1, y1, x2, y2 float64
}

// glueEdges 返回 gravity 对应的边；居中表示两侧都贴住。
func glueEdges(b box, g geom.Gravity) []edge {
	var out []edge
	if g.H.Near() {
		out = append(out, edge{b.X, b.Y, b.X, b.Y + b.H})
	}
	if g.H.Far() {
		out = append(out, edge{b.X + b.W, b.Y, b.X + b.W, b.Y + b.H})
	}
	if g.V.Near() {
		out = append(out, edge{b.X, b.Y, b.X + b.W, b.Y})
	}
	if g.V.Far() {
		out = append(out, edge{b.X, b.Y + b.H, b.X + b.W, b.Y + b.H})
	}
	return out
}

func (r *Renderer) colorFor(pl scene.Placement, index int) color.RGBA {
	if pl.Color != nil {
		return color.RGBA{R: uint8(pl.Color.R), G: uint8(pl.Color.G), B: uint8(pl.Color.B), A: 255}
	}
	return r.palette[index%len(r.palette)]
}

func withAlpha(c color.RGBA, alpha float64) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, alpha)
}
