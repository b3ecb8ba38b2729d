package event

import (
	tea "github.com/charmbracelet/bubbletea"
)

// FromKeyMsg 把 bubbletea 按键消息翻译成控件事件。
// 返回的 text 非空表示这是一段应走 utf8 阶段的文本输入
// （含括号粘贴）；否则走 key 阶段。
func FromKeyMsg(msg tea.KeyMsg) (Key, string) {
	if msg.Paste {
		return Key{}, string(msg.Runes)
	}

	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt {
			// alt+字符按组合键处理，不当作文本。
			if len(msg.Runes) == 1 {
				return Key{Sym: Sym(msg.Runes[0]), Mods: ModAlt}, ""
			}
			return Key{Sym: SymNone, Mods: ModAlt}, ""
		}
		return Key{}, string(msg.Runes)
	case tea.KeySpace:
		if msg.Alt {
			return Key{Sym: Sym(' '), Mods: ModAlt}, ""
		}
		return Key{}, " "
	}

	k := Key{Sym: SymNone}
	if msg.Alt {
		k.Mods |= ModAlt
	}
	switch msg.Type {
	case tea.KeyEnter:
		k.Sym = SymReturn
	case tea.KeyEsc:
		k.Sym = SymEscape
	case tea.KeyBackspace:
		k.Sym = SymBackspace
	case tea.KeyTab:
		k.Sym = SymTab
	case tea.KeyShiftTab:
		k.Sym = SymShiftTab
		k.Mods |= ModShift
	case tea.KeyDelete:
		k.Sym = SymDelete
	case tea.KeyInsert:
		k.Sym = SymInsert
	case tea.KeyUp:
		k.Sym = SymUp
	case tea.KeyDown:
		k.Sym = SymDown
	case tea.KeyLeft:
		k.Sym = SymLeft
	case tea.KeyRight:
		k.Sym = SymRight
	case tea.KeyHome:
		k.Sym = SymHome
	case tea.KeyEnd:
		k.Sym = SymEnd
	case tea.KeyPgUp:
		k.Sym = SymPageUp
	case tea.KeyPgDown:
		k.Sym = SymPageDown
	default:
		if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
			k.Sym = Sym('a' + rune(msg.Type) - rune(tea.KeyCtrlA))
			k.Mods |= ModCtrl
		}
	}
	return k, ""
}

// FromMouseMsg 把 bubbletea 鼠标消息翻译成控件事件。
func FromMouseMsg(msg tea.MouseMsg) Mouse {
	m := Mouse{X: msg.X, Y: msg.Y, Active: msg.Action == tea.MouseActionPress}
	switch msg.Button {
	case tea.MouseButtonLeft:
		m.Button = MouseButtonLeft
	case tea.MouseButtonMiddle:
		m.Button = MouseButtonMiddle
	case tea.MouseButtonRight:
		m.Button = MouseButtonRight
	case tea.MouseButtonWheelUp:
		m.Button = MouseWheelUp
	case tea.MouseButtonWheelDown:
		m.Button = MouseWheelDown
	}
	if msg.Shift {
		m.Mods |= ModShift
	}
	if msg.Ctrl {
		m.Mods |= ModCtrl
	}
	if msg.Alt {
		m.Mods |= ModAlt
	}
	return m
}
