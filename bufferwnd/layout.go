package bufferwnd

// 十六进制双栏布局（单元格为单位）：
//
//	00000040  74 75 69 6b 69 74 0a ..  |tuikit..|
//	^offset 列       ^hex 栏        ^间隔 ^text 栏
const (
	offsetColWidth = 10 // 8 位十六进制偏移 + 两格间隔
	paneGutter     = 2
)

// layout 把当前视图模式与 surface 尺寸固化成一套几何参数，
// 鼠标映射与光标回写共用同一套换算。
type layout struct {
	mode        Mode
	width       int
	rows        int
	bytesPerRow int
}

func makeLayout(mode Mode, width, height int) layout {
	l := layout{mode: mode, width: width, rows: height}
	if l.rows < 1 {
		l.rows = 1
	}
	if l.width < 1 {
		l.width = 1
	}
	switch mode {
	case ModeHex:
		bpr := (l.width - offsetColWidth - paneGutter) / 4
		if bpr >= 8 {
			bpr -= bpr % 4
		}
		if bpr < 1 {
			bpr = 1
		}
		l.bytesPerRow = bpr
	default:
		l.bytesPerRow = l.width
	}
	return l
}

func (l layout) hexPaneX() int {
	return offsetColWidth
}

func (l layout) textPaneX() int {
	return offsetColWidth + l.bytesPerRow*3 + paneGutter
}

// rowStart 返回 off 所在行的首字节偏移。
func (l layout) rowStart(off int) int {
	return off - off%l.bytesPerRow
}

// visibleBytes 一屏能容纳的字节数。
func (l layout) visibleBytes() int {
	return l.rows * l.bytesPerRow
}

// offsetAt 把 surface 单元格坐标换算成候选字节偏移；坐标落在任何
// 数据栏之外时返回 false。origin 是当前视图首字节（行对齐）。
func (l layout) offsetAt(origin, x, y int) (int, bool) {
	if x < 0 || y < 0 || y >= l.rows {
		return 0, false
	}
	base := origin + y*l.bytesPerRow
	if l.mode != ModeHex {
		if x >= l.bytesPerRow {
			return 0, false
		}
		return base + x, true
	}
	if x >= l.hexPaneX() && x < l.hexPaneX()+l.bytesPerRow*3 {
		return base + (x-l.hexPaneX())/3, true
	}
	if x >= l.textPaneX() && x < l.textPaneX()+l.bytesPerRow {
		return base + (x - l.textPaneX()), true
	}
	return 0, false
}

// cellFor 返回 off 相对 origin 的光标单元格位置（hex 模式指向 hex 栏）。
func (l layout) cellFor(origin, off int) (x, y int) {
	rel := off - origin
	y = rel / l.bytesPerRow
	col := rel % l.bytesPerRow
	if l.mode == ModeHex {
		return l.hexPaneX() + col*3, y
	}
	return col, y
}
