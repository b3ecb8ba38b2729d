package readline

import (
	"strings"
	"unicode"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-runewidth"

	"tuikit/event"
)

// 可由宿主绑定触发的命名动作，走 label 阶段。
const (
	LabelHistoryPrev = "history_prev"
	LabelHistoryNext = "history_next"
	LabelComplete    = "complete"
	LabelCommit      = "commit"
	LabelCancel      = "cancel"
	LabelClear       = "clear"
)

// InputLabel 处理命名动作。返回 true 表示已消费，调用方必须停止
// 向后续阶段转发本事件。
func (c *Context) InputLabel(label string, active bool) bool {
	if c == nil || c.closed || !active {
		return false
	}
	if label == LabelClear {
		c.Clear()
		return true
	}
	if c.Done() {
		return false
	}
	switch label {
	case LabelHistoryPrev:
		return c.historyPrev()
	case LabelHistoryNext:
		return c.historyNext()
	case LabelComplete:
		return c.triggerComplete()
	case LabelCommit:
		c.commit()
		return true
	case LabelCancel:
		c.cancel()
		return true
	}
	return false
}

// InputText 处理 utf8 文本输入（含粘贴）。单行模式下换行被静默拒绝，
// 其余字符照常插入。
func (c *Context) InputText(s string) bool {
	if c == nil || c.closed || c.Done() || s == "" {
		return false
	}
	c.dropCycle()
	if c.insertText(s) {
		c.afterEdit()
		c.fireUpdate(false, false)
	}
	return true
}

// InputKey 是按键的终末阶段，总是处理。补全循环激活时方向键与
// Tab 先作用于弹窗选择。
func (c *Context) InputKey(ev event.Key) {
	if c == nil || c.closed || c.Done() {
		return
	}

	if c.cycle != nil && c.cycleKey(ev) {
		return
	}

	switch {
	case ev.Sym == event.SymReturn && ev.Mods&event.ModAlt != 0:
		if !c.multiline {
			return
		}
		c.dropCycle()
		c.insertRow()
		c.afterEdit()
		c.fireUpdate(false, false)
	case ev.Sym == event.SymReturn:
		c.commit()
	case ev.Sym == event.SymEscape, isCtrl(ev, 'c'):
		c.cancel()
	case ev.Sym == event.SymTab:
		c.triggerComplete()
	case ev.Sym == event.SymBackspace:
		c.editKey(c.deleteBack)
	case ev.Sym == event.SymDelete:
		c.editKey(c.deleteForward)
	case isCtrl(ev, 'k'):
		c.editKey(c.killToEnd)
	case isCtrl(ev, 'u'):
		c.editKey(c.killToStart)
	case isCtrl(ev, 'w'):
		c.editKey(c.deleteWordBack)
	case isCtrl(ev, 'v'):
		c.editKey(c.pasteClipboard)
	case ev.Sym == event.SymLeft && ev.Mods&(event.ModCtrl|event.ModAlt) != 0:
		c.moveKey(c.wordLeft)
	case ev.Sym == event.SymRight && ev.Mods&(event.ModCtrl|event.ModAlt) != 0:
		c.moveKey(c.wordRight)
	case ev.Sym == event.SymLeft:
		c.moveKey(c.cursorLeft)
	case ev.Sym == event.SymRight:
		if c.applyHintAtEnd() {
			return
		}
		c.moveKey(c.cursorRight)
	case ev.Sym == event.SymHome, isCtrl(ev, 'a'):
		c.moveKey(func() bool { return c.moveTo(0) })
	case ev.Sym == event.SymEnd, isCtrl(ev, 'e'):
		c.moveKey(func() bool { return c.moveTo(len(c.rows[c.row])) })
	case ev.Sym == event.SymUp:
		if c.multiline && c.row > 0 {
			c.moveKey(func() bool { return c.moveRow(-1) })
			return
		}
		c.historyPrev()
	case ev.Sym == event.SymDown:
		if c.multiline && c.row < len(c.rows)-1 {
			c.moveKey(func() bool { return c.moveRow(1) })
			return
		}
		c.historyNext()
	default:
		if r, ok := ev.Rune(); ok && ev.Mods&(event.ModCtrl|event.ModAlt) == 0 {
			c.InputText(string(r))
		}
	}
}

// InputMouse 把单元格坐标映射到行内 rune 列；落在行内移动光标，
// 否则忽略，不报错。
func (c *Context) InputMouse(ev event.Mouse) {
	if c == nil || c.closed || c.Done() {
		return
	}
	if !ev.Active || ev.Button != event.MouseButtonLeft {
		return
	}
	if ev.Y < 0 || ev.Y >= len(c.rows) || ev.X < 0 {
		return
	}
	line := c.rows[ev.Y]
	col, ok := columnForCell(line, ev.X)
	if !ok {
		return
	}
	if ev.Y == c.row && col == c.col {
		return
	}
	c.row, c.col = ev.Y, col
	c.fireUpdate(false, false)
}

// cycleKey 在补全循环内处理按键；返回 true 表示事件已被循环消化。
func (c *Context) cycleKey(ev event.Key) bool {
	switch {
	case ev.Sym == event.SymTab && ev.Mods&event.ModShift == 0,
		ev.Sym == event.SymDown:
		if c.cycle.advance(1) {
			c.renderPopup()
			c.fireUpdate(false, false)
		}
		return true
	case ev.Sym == event.SymShiftTab, ev.Sym == event.SymUp:
		if c.cycle.advance(-1) {
			c.renderPopup()
			c.fireUpdate(false, false)
		}
		return true
	case ev.Sym == event.SymEscape:
		c.dropCycle()
		c.fireUpdate(false, false)
		return true
	case ev.Sym == event.SymReturn && ev.Mods == 0:
		if c.acceptCycle() {
			c.afterEdit()
			c.fireUpdate(false, false)
		}
		return true
	}
	// 其余按键令循环作废后照常处理。
	c.dropCycle()
	return false
}

func (c *Context) triggerComplete() bool {
	if c.cycle != nil {
		if c.cycle.advance(1) {
			c.renderPopup()
			c.fireUpdate(false, false)
		}
		return true
	}
	if !c.startCycle() {
		return false
	}
	c.fireUpdate(false, false)
	return true
}

// editKey 统一处理“变更类”按键：循环作废，变更则恰好一次 update。
func (c *Context) editKey(op func() bool) {
	c.dropCycle()
	if op() {
		c.afterEdit()
		c.fireUpdate(false, false)
	}
}

// moveKey 统一处理“移动类”按键：只动光标，不碰浏览位置。
func (c *Context) moveKey(op func() bool) {
	c.dropCycle()
	if op() {
		c.fireUpdate(false, false)
	}
}

func (c *Context) afterEdit() {
	c.ph = phaseEditing
	c.browse.reset()
}

func (c *Context) historyPrev() bool {
	text, ok := c.browse.prev(c.Text())
	if !ok {
		return false
	}
	c.substitute(text)
	c.fireUpdate(false, false)
	return true
}

func (c *Context) historyNext() bool {
	text, ok := c.browse.next()
	if !ok {
		return false
	}
	c.substitute(text)
	c.fireUpdate(false, false)
	return true
}

func (c *Context) applyHintAtEnd() bool {
	if c.row != len(c.rows)-1 || c.col != len(c.rows[c.row]) {
		return false
	}
	hint := c.hint()
	if hint == "" || hint == c.Text() {
		return false
	}
	c.dropCycle()
	c.setText(hint)
	c.afterEdit()
	c.fireUpdate(false, false)
	return true
}

func (c *Context) insertText(s string) bool {
	changed := false
	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			if !c.multiline {
				continue
			}
			c.insertRow()
			changed = true
			continue
		}
		line := c.rows[c.row]
		c.rows[c.row] = append(line[:c.col:c.col], append([]rune{r}, line[c.col:]...)...)
		c.col++
		changed = true
	}
	return changed
}

func (c *Context) insertRow() {
	line := c.rows[c.row]
	head := append([]rune(nil), line[:c.col]...)
	tail := append([]rune(nil), line[c.col:]...)
	c.rows[c.row] = head
	rest := append([][]rune{tail}, c.rows[c.row+1:]...)
	c.rows = append(c.rows[:c.row+1:c.row+1], rest...)
	c.row++
	c.col = 0
}

func (c *Context) deleteBack() bool {
	if c.col > 0 {
		line := c.rows[c.row]
		c.rows[c.row] = append(line[:c.col-1:c.col-1], line[c.col:]...)
		c.col--
		return true
	}
	if c.row == 0 {
		return false
	}
	// 行首退格合并到上一行。
	prev := c.rows[c.row-1]
	c.col = len(prev)
	c.rows[c.row-1] = append(prev, c.rows[c.row]...)
	c.rows = append(c.rows[:c.row], c.rows[c.row+1:]...)
	c.row--
	return true
}

func (c *Context) deleteForward() bool {
	line := c.rows[c.row]
	if c.col < len(line) {
		c.rows[c.row] = append(line[:c.col:c.col], line[c.col+1:]...)
		return true
	}
	if c.row == len(c.rows)-1 {
		return false
	}
	c.rows[c.row] = append(line, c.rows[c.row+1]...)
	c.rows = append(c.rows[:c.row+1], c.rows[c.row+2:]...)
	return true
}

func (c *Context) killToEnd() bool {
	line := c.rows[c.row]
	if c.col >= len(line) {
		return false
	}
	c.rows[c.row] = line[:c.col]
	return true
}

func (c *Context) killToStart() bool {
	if c.col == 0 {
		return false
	}
	c.rows[c.row] = append([]rune(nil), c.rows[c.row][c.col:]...)
	c.col = 0
	return true
}

func (c *Context) deleteWordBack() bool {
	if c.col == 0 {
		return false
	}
	target := wordBoundaryLeft(c.rows[c.row], c.col)
	line := c.rows[c.row]
	c.rows[c.row] = append(line[:target:target], line[c.col:]...)
	c.col = target
	return true
}

func (c *Context) pasteClipboard() bool {
	s, err := clipboard.ReadAll()
	if err != nil {
		// 剪贴板不可用属于边界情况，吸收掉。
		c.log.WithField("err", err).Debug("clipboard read failed")
		return false
	}
	return c.insertText(s)
}

func (c *Context) cursorLeft() bool {
	if c.col > 0 {
		c.col--
		return true
	}
	if c.row == 0 {
		return false
	}
	c.row--
	c.col = len(c.rows[c.row])
	return true
}

func (c *Context) cursorRight() bool {
	if c.col < len(c.rows[c.row]) {
		c.col++
		return true
	}
	if c.row == len(c.rows)-1 {
		return false
	}
	c.row++
	c.col = 0
	return true
}

func (c *Context) wordLeft() bool {
	if c.col == 0 {
		return c.cursorLeft()
	}
	c.col = wordBoundaryLeft(c.rows[c.row], c.col)
	return true
}

func (c *Context) wordRight() bool {
	line := c.rows[c.row]
	if c.col >= len(line) {
		return c.cursorRight()
	}
	i := c.col
	for i < len(line) && unicode.IsSpace(line[i]) {
		i++
	}
	for i < len(line) && !unicode.IsSpace(line[i]) {
		i++
	}
	c.col = i
	return true
}

func (c *Context) moveTo(col int) bool {
	if col == c.col {
		return false
	}
	c.col = col
	return true
}

func (c *Context) moveRow(delta int) bool {
	next := c.row + delta
	if next < 0 || next >= len(c.rows) {
		return false
	}
	c.row = next
	if c.col > len(c.rows[c.row]) {
		c.col = len(c.rows[c.row])
	}
	return true
}

// substitute 整体替换缓冲内容（历史回溯的活替换），不触碰浏览位置。
func (c *Context) substitute(text string) {
	c.loadText(text)
	if c.ph == phaseEmpty {
		c.ph = phaseEditing
	}
}

// setText 整体替换缓冲内容并视作一次编辑。
func (c *Context) setText(text string) {
	c.loadText(text)
}

func (c *Context) loadText(text string) {
	var rows [][]rune
	if c.multiline {
		for _, part := range strings.Split(text, "\n") {
			rows = append(rows, []rune(part))
		}
	} else {
		rows = [][]rune{[]rune(strings.ReplaceAll(text, "\n", " "))}
	}
	c.rows = rows
	c.row = len(rows) - 1
	c.col = len(rows[c.row])
}

func isCtrl(ev event.Key, r rune) bool {
	return ev.Mods&event.ModCtrl != 0 && ev.Sym == event.Sym(r)
}

func wordBoundaryLeft(line []rune, col int) int {
	i := col
	for i > 0 && unicode.IsSpace(line[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(line[i-1]) {
		i--
	}
	return i
}

// columnForCell 把显示单元格偏移换算成 rune 列；超出行尾返回 false。
func columnForCell(line []rune, x int) (int, bool) {
	acc := 0
	for i, r := range line {
		w := runewidth.RuneWidth(r)
		if x < acc+w {
			return i, true
		}
		acc += w
	}
	if x == acc {
		return len(line), true
	}
	return 0, false
}
