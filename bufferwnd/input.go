package bufferwnd

import (
	"tuikit/event"
)

// 可由宿主绑定触发的命名动作，走 label 阶段。
const (
	LabelModeHex   = "mode_hex"
	LabelModeText  = "mode_text"
	LabelGotoStart = "goto_start"
	LabelGotoEnd   = "goto_end"
	LabelPageUp    = "page_up"
	LabelPageDown  = "page_down"
)

// InputLabel 处理命名动作。返回 true 表示已消费，同一事件不得再
// 进入后续阶段。
func (w *Window) InputLabel(label string, active bool) bool {
	if w == nil || w.closed || !active {
		return false
	}
	l := w.layout()
	switch label {
	case LabelModeHex:
		w.SetMode(ModeHex)
		return true
	case LabelModeText:
		w.SetMode(ModeText)
		return true
	case LabelGotoStart:
		w.SetOffset(0)
		return true
	case LabelGotoEnd:
		w.SetOffset(len(w.buf))
		return true
	case LabelPageUp:
		w.SetOffset(w.offset - l.visibleBytes())
		return true
	case LabelPageDown:
		w.SetOffset(w.offset + l.visibleBytes())
		return true
	}
	return false
}

// InputUTF8 处理文本输入。写使能关闭时返回 false，把事件让给
// key 阶段做导航兜底；写使能开启时按当前模式改写区域并消费事件。
func (w *Window) InputUTF8(s string) bool {
	if w == nil || w.closed || s == "" {
		return false
	}
	if !w.writeEnable {
		return false
	}
	if w.mode == ModeHex {
		return w.inputNibbles(s)
	}
	w.overwrite([]byte(s))
	return true
}

// InputKey 是按键的终末阶段，总是处理。导航永远可用；
// 修改类按键在写使能关闭时静默落空，不是错误。
func (w *Window) InputKey(ev event.Key) {
	if w == nil || w.closed {
		return
	}
	l := w.layout()
	switch ev.Sym {
	case event.SymLeft:
		w.SetOffset(w.offset - 1)
	case event.SymRight:
		w.SetOffset(w.offset + 1)
	case event.SymUp:
		w.SetOffset(w.offset - l.bytesPerRow)
	case event.SymDown:
		w.SetOffset(w.offset + l.bytesPerRow)
	case event.SymPageUp:
		w.SetOffset(w.offset - l.visibleBytes())
	case event.SymPageDown:
		w.SetOffset(w.offset + l.visibleBytes())
	case event.SymHome:
		if ev.Mods&event.ModCtrl != 0 {
			w.SetOffset(0)
			return
		}
		w.SetOffset(l.rowStart(w.offset))
	case event.SymEnd:
		if ev.Mods&event.ModCtrl != 0 {
			w.SetOffset(len(w.buf))
			return
		}
		w.SetOffset(l.rowStart(w.offset) + l.bytesPerRow - 1)
	case event.SymTab:
		if w.mode == ModeHex {
			w.SetMode(ModeText)
		} else {
			w.SetMode(ModeHex)
		}
	case event.SymDelete:
		w.deleteAt()
	case event.SymBackspace:
		if w.offset > 0 {
			w.offset--
			w.nibblePending = false
			if !w.deleteAt() {
				w.refresh()
			}
		}
	}
}

// InputMouse 经当前模式的布局几何把单元格坐标换算成字节偏移；
// 命中区域内则光标移过去，否则事件被忽略。滚轮按行滚动。
func (w *Window) InputMouse(ev event.Mouse) {
	if w == nil || w.closed {
		return
	}
	l := w.layout()
	switch ev.Button {
	case event.MouseWheelUp:
		w.SetOffset(w.offset - l.bytesPerRow)
		return
	case event.MouseWheelDown:
		w.SetOffset(w.offset + l.bytesPerRow)
		return
	}
	if !ev.Active || ev.Button != event.MouseButtonLeft {
		return
	}
	off, ok := l.offsetAt(w.origin, ev.X, ev.Y)
	if !ok || off < 0 || off >= len(w.buf) {
		return
	}
	w.SetOffset(off)
}

// inputNibbles 按半字节写入 hex 栏输入；非十六进制字符不消费。
func (w *Window) inputNibbles(s string) bool {
	consumed := false
	for _, r := range s {
		v, ok := nibble(r)
		if !ok {
			continue
		}
		consumed = true
		if w.offset >= len(w.buf) {
			continue
		}
		if !w.nibblePending {
			w.nibblePending = true
			w.nibbleHigh = v
			continue
		}
		w.buf[w.offset] = w.nibbleHigh<<4 | v
		w.nibblePending = false
		w.offset++
	}
	if consumed {
		w.refresh()
	}
	return consumed
}

// overwrite 从光标处原地覆写，到区域末尾即截断；区域从不增长。
func (w *Window) overwrite(data []byte) {
	for _, b := range data {
		if w.offset >= len(w.buf) {
			break
		}
		w.buf[w.offset] = b
		w.offset++
	}
	w.refresh()
}

// deleteAt 删除光标处字节：后续内容左移一格，尾部补零。
// 写使能关闭时静默落空。
func (w *Window) deleteAt() bool {
	if !w.writeEnable || w.offset >= len(w.buf) {
		return false
	}
	copy(w.buf[w.offset:], w.buf[w.offset+1:])
	w.buf[len(w.buf)-1] = 0
	w.refresh()
	return true
}

func nibble(r rune) (byte, bool) {
	switch {
	case r >= '0' && r <= '9':
		return byte(r - '0'), true
	case r >= 'a' && r <= 'f':
		return byte(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return byte(r-'A') + 10, true
	}
	return 0, false
}
