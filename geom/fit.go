package geom

// ClampAxis 将一维区间 [pos, pos+extent) 放入 [boundPos, boundPos+boundExtent)：
// 先把 extent 缩到不超过 boundExtent，再把 pos 夹到合法范围。
// boundExtent 小于 1 时按 1 处理。
func ClampAxis(pos, extent, boundPos, boundExtent int) int {
	be := max(boundExtent, 1)
	extent = min(be, extent)
	return min(max(pos, boundPos), boundPos+be-extent)
}

// ApplyGravity 按 g 把 r 放入 bound。调用前尺寸必须已经确定：
// 位置依赖最终尺寸，反之不然。
func ApplyGravity(bound Rect, g Gravity, r Rect) Rect {
	r = r.Floor()
	r.X = placeAxis(g.H, r.X, r.W, bound.X, bound.W)
	r.Y = placeAxis(g.V, r.Y, r.H, bound.Y, bound.H)
	return r
}

func placeAxis(a Anchor, pos, size, boundPos, boundSize int) int {
	switch a {
	case AnchorNear:
		return boundPos
	case AnchorFar:
		return boundPos + boundSize - size
	case AnchorCenter:
		return boundPos + boundSize/2 - size/2
	default:
		return ClampAxis(pos, size, boundPos, boundSize)
	}
}

// Constrain 截取 r 在 bound 内的部分，每个方向至少保留 1 像素。
// 某个方向与 bound 完全不相交时，退化为该方向上的 ClampAxis。
func Constrain(r, bound Rect) Rect {
	x, w := constrainAxis(r.X, r.W, bound.X, bound.W)
	y, h := constrainAxis(r.Y, r.H, bound.Y, bound.H)
	return Rect{X: x, Y: y, W: w, H: h}
}

func constrainAxis(pos, size, boundPos, boundSize int) (int, int) {
	size = max(size, 1)
	end := min(boundPos+boundSize, pos+size)
	start := max(pos, boundPos)
	if end <= start {
		return ClampAxis(pos, 1, boundPos, boundSize), 1
	}
	return start, end - start
}
