package scene

import (
	"github.com/ByLCY/tilefit/geom"
	"github.com/ByLCY/tilefit/sizehint"
	"github.com/ByLCY/tilefit/sizepolicy"
)

// 该文件定义场景解析结果，供渲染器与调试 JSON 共用。

// Result 保存整个场景的解析结果。
type Result struct {
	Name      string      `json:"name"`
	Version   string      `json:"version"`
	Meta      SceneMeta   `json:"meta"`
	Resources ResourceSet `json:"resources"`
	Frames    []Frame     `json:"frames"`
}

// ResourceSet 记录场景中声明的尺寸提示与颜色。
type ResourceSet struct {
	Hints  map[string]sizehint.Hints `json:"hints"`
	Colors map[string]Color          `json:"colors"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Frame 对应一个 frame 段落：一个容器边界及其中的区域。
// 第一个 Pass 使用 frame 自身的边界，之后每个 reflow 追加一个 Pass。
type Frame struct {
	Name   string    `json:"name"`
	Bound  geom.Rect `json:"bound"`
	Passes []Pass    `json:"passes"`
}

// Pass 是在同一个边界下对全部区域的一轮求解。
type Pass struct {
	Index      int         `json:"index"`
	Bound      geom.Rect   `json:"bound"`
	Weak       string      `json:"weak,omitempty"` // reflow 的默认弱标记
	Placements []Placement `json:"placements"`
}

// Placement 记录单个区域在某一轮中的输入与求解结果。
type Placement struct {
	Region  string             `json:"region"`
	Policy  sizepolicy.Policy  `json:"policy"`
	Request *geom.Rect         `json:"request,omitempty"`
	Current *geom.Rect         `json:"current,omitempty"`
	Weak    string             `json:"weak,omitempty"`
	Mode    sizepolicy.FitMode `json:"mode"`
	Rect    *geom.Rect         `json:"rect,omitempty"` // 仅 exact 模式
	Next    sizepolicy.Policy  `json:"next"`           // 求解后返回的策略，下一轮沿用
	Color   *Color             `json:"color,omitempty"`
}

// SceneMeta 保存场景元信息，渲染 PDF 时写入文档信息。
type SceneMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
