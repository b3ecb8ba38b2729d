package readline

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tuikit/internal/textutil"
)

var (
	popupItemStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C4A1FF"))
	popupHighlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EBCB8B"))
	popupSelectedStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#2F2A3D"))
)

// renderPopup 把当前候选列表渲染进借用的 popup surface。
// popup 缺席时什么也不做（提示仍通过 update 回调给出）。
func (c *Context) renderPopup() {
	if c.popup == nil || c.cycle == nil {
		return
	}
	w, _ := c.popup.Size()
	c.popup.SetContent(c.popupView(w))
}

// popupView 渲染候选列表；无激活循环时返回空串。
func (c *Context) popupView(width int) string {
	if c.cycle == nil {
		return ""
	}
	if width <= 12 {
		width = 12
	}

	cy := c.cycle
	first, count := popupWindow(len(cy.candidates), cy.selected, c.popupMaxLines)
	lines := make([]string, 0, count)
	for i := first; i < first+count; i++ {
		cand := cy.candidates[i]
		style := popupItemStyle
		if cand.Color != [3]uint8{} {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(
				fmt.Sprintf("#%02X%02X%02X", cand.Color[0], cand.Color[1], cand.Color[2])))
		}
		text := clipCell(cand.Text, width-2)
		rendered := applyHighlights(text, cy.highlights[i], style)
		if i == cy.selected {
			rendered = popupSelectedStyle.Render("› " + rendered)
		} else {
			rendered = "  " + rendered
		}
		lines = append(lines, rendered)
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

// popupWindow 在 maxLines 限制内求包含选中项的可见窗口。
func popupWindow(total, selected, maxLines int) (first, count int) {
	if maxLines <= 0 || total <= maxLines {
		return 0, total
	}
	first = selected - maxLines + 1
	if first < 0 {
		first = 0
	}
	return first, maxLines
}

func clipCell(text string, width int) string {
	if width <= 0 || runewidth.StringWidth(text) <= width {
		return text
	}
	parts := textutil.BreakWord(text, width-1)
	if len(parts) == 0 {
		return text
	}
	return parts[0] + "…"
}

func applyHighlights(text string, indexes []int, base lipgloss.Style) string {
	if len(indexes) == 0 {
		return base.Render(text)
	}
	marked := map[int]bool{}
	for _, idx := range indexes {
		marked[idx] = true
	}
	// fuzzy 的命中下标按 rune 计。
	var b strings.Builder
	for i, r := range []rune(text) {
		if marked[i] {
			b.WriteString(popupHighlightStyle.Render(string(r)))
			continue
		}
		b.WriteString(base.Render(string(r)))
	}
	return b.String()
}
