// Package event 定义两个控件共享的输入事件形态与宿主 surface 契约。
//
// 输入路由约定（两个控件一致）：label → utf8 → key → mouse。
// label 与 utf8 阶段返回 consumed 信号，调用方一旦拿到 true 必须停止
// 向后续阶段转发同一事件；key 阶段是按键的终末阶段，总是处理。
package event

// Mod 键盘修饰键位掩码。
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModCtrl
	ModAlt
)

// Sym 标识一次按键的逻辑符号。可打印键直接用其 rune 值，
// 非打印键使用下面的命名常量（值域避开 Unicode 标量）。
type Sym uint32

const (
	SymNone Sym = 0x11_0000 + iota
	SymReturn
	SymEscape
	SymBackspace
	SymTab
	SymShiftTab
	SymDelete
	SymInsert
	SymUp
	SymDown
	SymLeft
	SymRight
	SymHome
	SymEnd
	SymPageUp
	SymPageDown
)

// Key 原始按键事件：符号、扫描码、修饰键与子设备编号。
type Key struct {
	Sym      Sym
	Scancode uint8
	Mods     Mod
	Sub      uint16
}

// Rune 返回可打印键对应的字符；非可打印键返回 (0, false)。
func (k Key) Rune() (rune, bool) {
	if k.Sym >= SymNone {
		return 0, false
	}
	return rune(k.Sym), true
}

// Mouse 鼠标事件，坐标为 surface 上的单元格（cell）坐标。
type Mouse struct {
	X, Y   int
	Button int
	Active bool
	Mods   Mod
}

const (
	MouseButtonLeft = iota + 1
	MouseButtonMiddle
	MouseButtonRight
	MouseWheelUp
	MouseWheelDown
)

// Surface 是宿主侧文本 surface 的最小契约。宿主拥有绘制与事件轮询；
// 控件只回写光标偏移，并通过 SetContent 交还准备好的文本内容
// （弹窗建议列表、缓冲区视图等），具体上屏方式由宿主决定。
type Surface interface {
	Size() (width, height int)
	MoveCursor(col, row int)
	SetContent(content string)
}
