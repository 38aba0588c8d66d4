package scene

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/tilefit/binding"
	"github.com/ByLCY/tilefit/dsl"
	"github.com/ByLCY/tilefit/geom"
	"github.com/ByLCY/tilefit/sizehint"
	"github.com/ByLCY/tilefit/sizepolicy"
)

// reflow 未写 weak 时的默认弱标记：位置可调，尺寸保持。
const defaultReflowWeak = sizepolicy.WeakX | sizepolicy.WeakY

// regionKeys 记录 region 命令各参数需要的取值个数。
var regionKeys = map[string]int{
	"policy":  1,
	"rect":    4,
	"current": 4,
	"weak":    1,
	"hints":   1,
	"color":   1,
}

// Build 根据场景 AST 收集资源，并逐个 frame、逐轮求解区域的放置结果。
func Build(doc *dsl.Scene, data any, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("场景为空")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	res, err := collectResources(doc, data)
	if err != nil {
		return nil, err
	}
	meta, err := collectMeta(doc)
	if err != nil {
		return nil, err
	}

	var frames []Frame
	for _, section := range doc.Sections {
		if section.Frame == nil {
			continue
		}
		frame, err := buildFrame(section.Frame, res, data, opts.DefaultPolicy, logger)
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("场景中缺少 frame 段落")
	}

	return &Result{
		Name:      doc.Name,
		Version:   doc.Version,
		Meta:      meta,
		Resources: res,
		Frames:    frames,
	}, nil
}

// regionDecl 是 region 命令解析后的声明。
type regionDecl struct {
	name    string
	policy  sizepolicy.Policy
	request *geom.Rect
	current *geom.Rect
	weak    sizepolicy.RequestFlags
	hints   sizehint.Hints
	color   *Color
}

// passDecl 对应 frame 边界或一条 reflow。
type passDecl struct {
	bound geom.Rect
	weak  sizepolicy.RequestFlags
}

// managed 是求解时交给 sizepolicy 的区域视图。
type managed struct {
	geometry geom.Rect
	hints    sizehint.Hints
}

func (m managed) Geometry() geom.Rect       { return m.geometry }
func (m managed) SizeHints() sizehint.Hints { return m.hints }

func (d *regionDecl) label() string { return "region " + d.name }

func buildFrame(section *dsl.FrameSection, res ResourceSet, data any, def sizepolicy.Policy, logger *log.Logger) (Frame, error) {
	bound, err := rectFromArgs(section.Params, data)
	if err != nil {
		return Frame{}, fmt.Errorf("frame %s: %w", section.Name, err)
	}
	if section.Block == nil {
		return Frame{}, fmt.Errorf("frame %s 缺少内容", section.Name)
	}

	var regions []*regionDecl
	passes := []passDecl{{bound: bound}}
	seen := map[string]bool{}
	for _, stmt := range section.Block.Statements {
		if stmt.Command == nil {
			return Frame{}, fmt.Errorf("frame %s: 只允许 region 与 reflow 命令，不接受字段 %s", section.Name, stmt.Assignment.Key)
		}
		cmd := stmt.Command
		switch cmd.Name {
		case "region":
			reg, err := parseRegion(cmd, res, data, def, logger)
			if err != nil {
				return Frame{}, fmt.Errorf("frame %s: %w", section.Name, err)
			}
			if seen[reg.name] {
				return Frame{}, fmt.Errorf("frame %s: 区域 %s 重复声明", section.Name, reg.name)
			}
			seen[reg.name] = true
			regions = append(regions, reg)
		case "reflow":
			pd, err := parseReflow(cmd, data)
			if err != nil {
				return Frame{}, fmt.Errorf("frame %s: %w", section.Name, err)
			}
			passes = append(passes, pd)
		default:
			return Frame{}, fmt.Errorf("frame %s: 未知命令 %s", section.Name, cmd.Name)
		}
	}

	frame := Frame{Name: section.Name, Bound: bound}
	policies := make([]sizepolicy.Policy, len(regions))
	currents := make([]*geom.Rect, len(regions))
	for i, reg := range regions {
		policies[i] = reg.policy
		currents[i] = reg.current
	}

	for i, pd := range passes {
		pass := Pass{Index: i, Bound: pd.bound}
		if i > 0 {
			pass.Weak = pd.weak.String()
		}
		for j, reg := range regions {
			// 首轮使用声明的请求；之后的 reflow 只沿用上一轮的几何与策略。
			rq, flags := reg.request, reg.weak
			if i > 0 {
				rq, flags = nil, pd.weak
			}
			geometry := pd.bound
			if currents[j] != nil {
				geometry = *currents[j]
			}

			fit, next := sizepolicy.Resolve(policies[j], managed{geometry: geometry, hints: reg.hints}, rq, flags, pd.bound)
			pl := Placement{
				Region:  reg.name,
				Policy:  policies[j],
				Request: rq,
				Current: currents[j],
				Weak:    flags.String(),
				Mode:    fit.Mode(),
				Next:    next,
				Color:   reg.color,
			}
			if r, ok := fit.Rect(); ok {
				pl.Rect = &r
				currents[j] = &r
			} else {
				// bounds 模式下区域自行占满边界。
				b := pd.bound
				currents[j] = &b
			}
			policies[j] = next

			logger.Debug("resolved",
				"frame", section.Name,
				"pass", i,
				"region", reg.name,
				"policy", pl.Policy,
				"mode", pl.Mode,
				"rect", *currents[j],
				"next", next,
			)
			pass.Placements = append(pass.Placements, pl)
		}
		frame.Passes = append(frame.Passes, pass)
	}
	return frame, nil
}

// parseRegion 解析 `region NAME key value...`，各参数的取值个数见 regionKeys。
func parseRegion(cmd *dsl.Command, res ResourceSet, data any, def sizepolicy.Policy, logger *log.Logger) (*regionDecl, error) {
	if len(cmd.Args) == 0 || cmd.Args[0].Type != "Ident" {
		return nil, fmt.Errorf("region 缺少名称")
	}
	reg := &regionDecl{name: cmd.Args[0].Value, policy: def}

	args := cmd.Args[1:]
	for i := 0; i < len(args); {
		key := strings.ToLower(args[i].Value)
		n, ok := regionKeys[key]
		if !ok {
			return nil, fmt.Errorf("%s: 未知参数 %s", reg.label(), args[i].Value)
		}
		if i+1+n > len(args) {
			return nil, fmt.Errorf("%s: 参数 %s 需要 %d 个值", reg.label(), key, n)
		}
		vals := args[i+1 : i+1+n]
		i += 1 + n

		switch key {
		case "policy":
			name, err := argValue(vals[0], data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", reg.label(), err)
			}
			p, ok := sizepolicy.Lookup(name)
			if !ok {
				return nil, fmt.Errorf("%s: 未知的 size policy %q", reg.label(), name)
			}
			reg.policy = p
		case "rect", "current":
			r, err := rectFromArgs(vals, data)
			if err != nil {
				return nil, fmt.Errorf("%s: %s: %w", reg.label(), key, err)
			}
			if key == "rect" {
				reg.request = &r
			} else {
				reg.current = &r
			}
		case "weak":
			flags, ok := sizepolicy.ParseFlags(vals[0].Value)
			if !ok {
				return nil, fmt.Errorf("%s: 无法解析弱标记 %q", reg.label(), vals[0].Value)
			}
			reg.weak = flags
		case "hints":
			h, ok := res.Hints[vals[0].Value]
			if !ok {
				return nil, fmt.Errorf("%s: 未定义的 hints %s", reg.label(), vals[0].Value)
			}
			reg.hints = h
		case "color":
			c, ok := resolveColor(vals[0].Value, res)
			if !ok {
				logger.Warn("未知颜色，改用调色板", "region", reg.name, "color", vals[0].Value)
				continue
			}
			reg.color = &c
		}
	}
	return reg, nil
}

// parseReflow 解析 `reflow X Y W H [weak FLAGS]`。
func parseReflow(cmd *dsl.Command, data any) (passDecl, error) {
	pd := passDecl{weak: defaultReflowWeak}
	args := cmd.Args
	if len(args) == 6 && strings.EqualFold(args[4].Value, "weak") {
		flags, ok := sizepolicy.ParseFlags(args[5].Value)
		if !ok {
			return pd, fmt.Errorf("reflow: 无法解析弱标记 %q", args[5].Value)
		}
		pd.weak = flags
		args = args[:4]
	}
	bound, err := rectFromArgs(args, data)
	if err != nil {
		return pd, fmt.Errorf("reflow: %w", err)
	}
	pd.bound = bound
	return pd, nil
}

func collectResources(doc *dsl.Scene, data any) (ResourceSet, error) {
	res := ResourceSet{
		Hints:  map[string]sizehint.Hints{},
		Colors: map[string]Color{},
	}
	for _, section := range doc.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			if stmt.Command == nil {
				return res, fmt.Errorf("resources: 只允许 hints 与 color 声明，不接受字段 %s", stmt.Assignment.Key)
			}
			switch stmt.Command.Name {
			case "hints":
				name, hints, err := parseHintsResource(stmt.Command, data)
				if err != nil {
					return res, err
				}
				res.Hints[name] = hints
			case "color":
				name, value := parseColorResource(stmt.Command)
				if name == "" || value == "" {
					return res, fmt.Errorf("color 资源需要名称与取值")
				}
				c, err := parseColor(value)
				if err != nil {
					return res, fmt.Errorf("color %s: %w", name, err)
				}
				res.Colors[name] = c
			default:
				return res, fmt.Errorf("resources: 未知的资源类型 %s", stmt.Command.Name)
			}
		}
	}
	return res, nil
}

// parseHintsResource 解析 hints 块：min/max/inc/base 各两个数，aspect 四个数。
func parseHintsResource(cmd *dsl.Command, data any) (string, sizehint.Hints, error) {
	var h sizehint.Hints
	if len(cmd.Args) == 0 {
		return "", h, fmt.Errorf("hints 资源缺少名称")
	}
	name := cmd.Args[0].Value
	if cmd.Block == nil {
		return "", h, fmt.Errorf("hints %s 缺少内容", name)
	}
	for _, stmt := range cmd.Block.Statements {
		a := stmt.Assignment
		if a == nil {
			return "", h, fmt.Errorf("hints %s: 只允许 key: [...] 形式的字段，不接受命令 %s", name, stmt.Command.Name)
		}
		key := strings.ToLower(a.Key)
		want := 2
		if key == "aspect" {
			want = 4
		}
		vals, err := valueInts(a.Value, data)
		if err != nil {
			return "", h, fmt.Errorf("hints %s: %s: %w", name, key, err)
		}
		if len(vals) != want {
			return "", h, fmt.Errorf("hints %s: %s 需要 %d 个数值，实际 %d 个", name, key, want, len(vals))
		}
		switch key {
		case "min":
			h.HasMin, h.MinW, h.MinH = true, vals[0], vals[1]
		case "max":
			h.HasMax, h.MaxW, h.MaxH = true, vals[0], vals[1]
		case "inc":
			h.HasInc, h.IncW, h.IncH = true, vals[0], vals[1]
		case "base":
			h.HasBase, h.BaseW, h.BaseH = true, vals[0], vals[1]
		case "aspect":
			h.HasAspect = true
			h.MinAspectX, h.MinAspectY = vals[0], vals[1]
			h.MaxAspectX, h.MaxAspectY = vals[2], vals[3]
		default:
			return "", h, fmt.Errorf("hints %s: 未知字段 %s", name, a.Key)
		}
	}
	return name, h, nil
}

func collectMeta(doc *dsl.Scene) (SceneMeta, error) {
	meta := SceneMeta{
		Creator: "tilefit",
	}
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				return meta, fmt.Errorf("meta: 只允许 key: value 形式的字段，不接受命令 %s", stmt.Command.Name)
			}
			key := strings.ToLower(stmt.Assignment.Key)
			switch key {
			case "title":
				meta.Title = valueToString(stmt.Assignment.Value)
			case "author":
				meta.Author = valueToString(stmt.Assignment.Value)
			case "subject":
				meta.Subject = valueToString(stmt.Assignment.Value)
			case "creator":
				meta.Creator = valueToString(stmt.Assignment.Value)
			case "keywords", "tags":
				meta.Keywords = valueToStringSlice(stmt.Assignment.Value)
			}
		}
	}
	return meta, nil
}

func parseColorResource(cmd *dsl.Command) (string, string) {
	if len(cmd.Args) == 0 {
		return "", ""
	}
	name := cmd.Args[0].Value
	value := ""
	if len(cmd.Args) > 1 {
		value = cmd.Args[len(cmd.Args)-1].Value
	}
	return name, value
}

// resolveColor 先查资源表，再按 #RGB/#RRGGBB 字面量解析。
func resolveColor(value string, res ResourceSet) (Color, bool) {
	if c, ok := res.Colors[value]; ok {
		return c, true
	}
	if strings.HasPrefix(value, "#") {
		if c, err := parseColor(value); err == nil {
			return c, true
		}
	}
	return Color{}, false
}

func parseColor(value string) (Color, error) {
	value = strings.TrimPrefix(value, "#")
	if _, err := strconv.ParseUint(value, 16, 64); err != nil {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	switch len(value) {
	case 3:
		r := strings.Repeat(string(value[0]), 2)
		g := strings.Repeat(string(value[1]), 2)
		b := strings.Repeat(string(value[2]), 2)
		return Color{
			R: mustHex(r),
			G: mustHex(g),
			B: mustHex(b),
		}, nil
	case 6, 8:
		return Color{
			R: mustHex(value[0:2]),
			G: mustHex(value[2:4]),
			B: mustHex(value[4:6]),
		}, nil
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
}

func mustHex(s string) int {
	v, _ := strconv.ParseInt(s, 16, 64)
	return int(v)
}

// argValue 对参数做 ${} 插值；仍有未绑定的占位符时报错。
func argValue(l *dsl.Lexeme, data any) (string, error) {
	v := binding.Interpolate(l.Value, data)
	if m, ok := binding.Unresolved(v); ok {
		return "", fmt.Errorf("未绑定的变量 %s", m)
	}
	return v, nil
}

// parseInt 接受整数，绑定数据中的小数按四舍五入取整。
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("无法解析数值 %q", s)
	}
	return int(math.Round(f)), nil
}

func rectFromArgs(args []*dsl.Lexeme, data any) (geom.Rect, error) {
	if len(args) != 4 {
		return geom.Rect{}, fmt.Errorf("矩形需要 4 个数值 (x y w h)，实际 %d 个", len(args))
	}
	var v [4]int
	for i, arg := range args {
		s, err := argValue(arg, data)
		if err != nil {
			return geom.Rect{}, err
		}
		if v[i], err = parseInt(s); err != nil {
			return geom.Rect{}, err
		}
	}
	return geom.Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}, nil
}

func valueInts(val *dsl.Value, data any) ([]int, error) {
	if val == nil || val.Array == nil {
		return nil, fmt.Errorf("需要数组形式的数值")
	}
	out := make([]int, 0, len(val.Array.Values))
	for _, item := range val.Array.Values {
		s := binding.Interpolate(valueToString(item), data)
		if m, ok := binding.Unresolved(s); ok {
			return nil, fmt.Errorf("未绑定的变量 %s", m)
		}
		n, err := parseInt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func valueToString(val *dsl.Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
	case val.Binding != nil:
		return *val.Binding
	case val.Color != nil:
		return *val.Color
	case val.Expr != nil:
		var builder strings.Builder
		for _, part := range val.Expr.Parts {
			builder.WriteString(part.Value)
		}
		return builder.String()
	default:
		return ""
	}
}

func valueToStringSlice(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.Array != nil {
		out := make([]string, 0, len(val.Array.Values))
		for _, item := range val.Array.Values {
			if s := valueToString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := valueToString(val); s != "" {
		return []string{s}
	}
	return nil
}
