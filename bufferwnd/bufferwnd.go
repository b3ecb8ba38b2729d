// Package bufferwnd 提供对调用方字节区域的查看/编辑控件：纯文本或
// hex/text 双栏视图、光标寻址、按写使能门控的原地修改。区域始终归
// 调用方所有，控件只借用，从不复制、从不重新分配。
package bufferwnd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tuikit/event"
	"tuikit/internal/logger"
)

// Mode 视图模式。切换模式保持光标的逻辑字节偏移不变。
type Mode int

const (
	ModeText Mode = iota
	ModeHex
)

var (
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	offsetStyle = lipgloss.NewStyle().Faint(true)
	asciiStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

// Window 缓冲区查看窗口。offset 不变式：0 ≤ offset ≤ len(buf)。
type Window struct {
	host        event.Surface
	buf         []byte
	writeEnable bool

	mode   Mode
	offset int
	origin int

	// hex 栏半字节输入的进位状态。
	nibblePending bool
	nibbleHigh    byte

	log    *logger.LogEntry
	closed bool
}

// New 借用 buf 构造窗口；写使能在此刻固定，之后不可更改。
func New(host event.Surface, buf []byte, writeEnable bool) *Window {
	w := &Window{
		host:        host,
		buf:         buf,
		writeEnable: writeEnable,
		mode:        ModeHex,
		log:         logger.Named("bufferwnd"),
	}
	w.log.WithField("len", len(buf)).WithField("write", writeEnable).Debug("bufferwnd created")
	w.refresh()
	return w
}

// Close 释放控件自有的簿记状态，输入路由交还宿主默认处理。
// 借用的字节区域原样留给调用方。
func (w *Window) Close() {
	if w == nil || w.closed {
		return
	}
	w.closed = true
	w.buf = nil
	w.log.Debug("bufferwnd closed")
}

// Mode 返回当前视图模式。
func (w *Window) Mode() Mode {
	return w.mode
}

// SetMode 切换视图模式；只换表现形式，光标字节偏移原样保留。
func (w *Window) SetMode(m Mode) {
	if w == nil || w.closed || m == w.mode {
		return
	}
	w.mode = m
	w.nibblePending = false
	w.origin = 0
	w.refresh()
}

// Offset 返回光标的逻辑字节偏移。
func (w *Window) Offset() int {
	return w.offset
}

// SetOffset 移动光标，越界值收敛到 [0, len]。
func (w *Window) SetOffset(off int) {
	if w == nil || w.closed {
		return
	}
	if off < 0 {
		off = 0
	}
	if off > len(w.buf) {
		off = len(w.buf)
	}
	if off == w.offset {
		return
	}
	w.offset = off
	w.nibblePending = false
	w.refresh()
}

// WriteEnabled 返回创建时固定的写使能标志。
func (w *Window) WriteEnabled() bool {
	return w.writeEnable
}

func (w *Window) layout() layout {
	width, height := w.host.Size()
	return makeLayout(w.mode, width, height)
}

// refresh 让光标可见、把视图与光标单元格回写给宿主 surface。
func (w *Window) refresh() {
	if w.closed {
		return
	}
	l := w.layout()
	w.origin = l.rowStart(w.origin)
	if w.offset < w.origin {
		w.origin = l.rowStart(w.offset)
	}
	for w.offset >= w.origin+l.visibleBytes() {
		w.origin += l.bytesPerRow
	}
	w.host.SetContent(w.View())
	x, y := l.cellFor(w.origin, w.offset)
	w.host.MoveCursor(x, y)
}

// View 渲染当前可见窗口的文本形式，交由宿主上屏。
func (w *Window) View() string {
	if w == nil || w.closed {
		return ""
	}
	l := w.layout()
	lines := make([]string, 0, l.rows)
	for row := 0; row < l.rows; row++ {
		base := w.origin + row*l.bytesPerRow
		if base > len(w.buf) {
			break
		}
		if w.mode == ModeHex {
			lines = append(lines, w.hexLine(l, base))
		} else {
			lines = append(lines, w.textLine(l, base))
		}
	}
	return strings.Join(lines, "\n")
}

func (w *Window) hexLine(l layout, base int) string {
	var hexCol, textCol strings.Builder
	for i := 0; i < l.bytesPerRow; i++ {
		off := base + i
		if off >= len(w.buf) {
			hexCol.WriteString("   ")
			textCol.WriteByte(' ')
			continue
		}
		cell := fmt.Sprintf("%02x", w.buf[off])
		ch := printable(w.buf[off])
		if off == w.offset {
			cell = cursorStyle.Render(cell)
			ch = cursorStyle.Render(ch)
		}
		hexCol.WriteString(cell)
		hexCol.WriteByte(' ')
		textCol.WriteString(ch)
	}
	return offsetStyle.Render(fmt.Sprintf("%08x", base)) + "  " +
		hexCol.String() + "  " + asciiStyle.Render(textCol.String())
}

func (w *Window) textLine(l layout, base int) string {
	var b strings.Builder
	for i := 0; i < l.bytesPerRow; i++ {
		off := base + i
		if off >= len(w.buf) {
			break
		}
		ch := printable(w.buf[off])
		if off == w.offset {
			ch = cursorStyle.Render(ch)
		}
		b.WriteString(ch)
	}
	return b.String()
}

func printable(b byte) string {
	if b >= 0x20 && b < 0x7f {
		return string(rune(b))
	}
	return "."
}
