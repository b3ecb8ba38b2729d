package main

// paneSurface 是宿主侧最小的 surface 实现：控件回写光标与内容，
// 渲染时机由 Bubble Tea 的 View 周期决定。
type paneSurface struct {
	width, height int
	col, row      int
	content       string
}

func (s *paneSurface) Size() (int, int) {
	return s.width, s.height
}

func (s *paneSurface) MoveCursor(col, row int) {
	s.col, s.row = col, row
}

func (s *paneSurface) SetContent(content string) {
	s.content = content
}

func (s *paneSurface) resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	s.width, s.height = width, height
}
