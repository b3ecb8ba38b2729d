package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"tuikit/bufferwnd"
	"tuikit/event"
	"tuikit/internal/config"
	"tuikit/readline"
)

type uiOptions struct {
	Config      config.Config
	Region      []byte
	RegionName  string
	WriteEnable bool
	Multiline   bool
	StatePath   string
}

type uiResult struct {
	RegionDirty bool
}

type focusArea int

const (
	focusPrompt focusArea = iota
	focusBuffer
)

type keymap struct {
	Quit        key.Binding
	FocusToggle key.Binding
	ModeHex     key.Binding
	ModeText    key.Binding
	GotoStart   key.Binding
	GotoEnd     key.Binding
}

func newKeymap() keymap {
	return keymap{
		Quit:        key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("ctrl+q", "quit")),
		FocusToggle: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "switch pane")),
		ModeHex:     key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "hex view")),
		ModeText:    key.NewBinding(key.WithKeys("f3"), key.WithHelp("f3", "text view")),
		GotoStart:   key.NewBinding(key.WithKeys("f5"), key.WithHelp("f5", "go to start")),
		GotoEnd:     key.NewBinding(key.WithKeys("f6"), key.WithHelp("f6", "go to end")),
	}
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C4A1FF"))
	faintStyle     = lipgloss.NewStyle().Faint(true)
	ghostStyle     = lipgloss.NewStyle().Faint(true)
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7AA2F7")).Bold(true)
	cursorStyle    = lipgloss.NewStyle().Reverse(true)
	focusedBorder  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#C4A1FF"))
	blurredBorder  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#3B4261"))
	transcriptTint = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

const (
	promptPrefix     = "❯ "
	transcriptHeight = 6
)

// model 是两个控件的宿主：负责事件路由、窗格布局与历史持久化。
type model struct {
	opts uiOptions
	keys keymap

	width, height int
	focus         focusArea
	sessionID     string

	promptSurface *paneSurface
	popupSurface  *paneSurface
	bufSurface    *paneSurface

	line   *readline.Context
	window *bufferwnd.Window

	transcript viewport.Model
	lines      []string

	last     readline.Update
	quitting bool
}

func newModel(opts uiOptions) (*model, error) {
	m := &model{
		opts:          opts,
		keys:          newKeymap(),
		sessionID:     uuid.NewString(),
		promptSurface: &paneSurface{width: 80, height: 1},
		popupSurface:  &paneSurface{width: 80, height: opts.Config.PopupMaxLines},
		bufSurface:    &paneSurface{width: 80, height: 16},
		transcript:    viewport.New(80, transcriptHeight),
	}

	workdir, err := os.Getwd()
	if err != nil {
		workdir = "."
	}
	line, err := readline.Setup(m.promptSurface, func(u readline.Update) { m.last = u }, readline.Options{
		Popup:           m.popupSurface,
		OnCompletion:    fileCompleter(workdir),
		Multiline:       opts.Multiline,
		HistoryLimit:    opts.Config.HistoryLimit,
		CompletionLimit: opts.Config.CompletionLimit,
		PopupMaxLines:   opts.Config.PopupMaxLines,
	})
	if err != nil {
		return nil, err
	}
	m.line = line
	m.window = bufferwnd.New(m.bufSurface, opts.Region, opts.WriteEnable)

	if opts.StatePath != "" {
		if blob, err := os.ReadFile(opts.StatePath); err == nil {
			if err := line.LoadState(blob); err != nil {
				log.Warnf("ignoring stale history state: %v", err)
			}
		}
	}
	return m, nil
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tea.MouseMsg:
		m.routeMouse(event.FromMouseMsg(msg))
	}
	return m, nil
}

func (m *model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.FocusToggle):
		if m.focus == focusPrompt {
			m.focus = focusBuffer
		} else {
			m.focus = focusPrompt
		}
		return m, nil
	}

	if m.focus == focusBuffer {
		m.routeBufferKey(msg)
		return m, nil
	}
	m.routePromptKey(msg)
	if m.line.Done() {
		return m.harvest()
	}
	return m, nil
}

// routePromptKey 按 label → utf8 → key 的次序把按键送进命令行。
func (m *model) routePromptKey(msg tea.KeyMsg) {
	k, text := event.FromKeyMsg(msg)
	if text != "" {
		if m.line.InputText(text) {
			return
		}
	}
	m.line.InputKey(k)
}

func (m *model) routeBufferKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.ModeHex):
		m.window.InputLabel(bufferwnd.LabelModeHex, true)
		return
	case key.Matches(msg, m.keys.ModeText):
		m.window.InputLabel(bufferwnd.LabelModeText, true)
		return
	case key.Matches(msg, m.keys.GotoStart):
		m.window.InputLabel(bufferwnd.LabelGotoStart, true)
		return
	case key.Matches(msg, m.keys.GotoEnd):
		m.window.InputLabel(bufferwnd.LabelGotoEnd, true)
		return
	}
	k, text := event.FromKeyMsg(msg)
	if text != "" && m.window.InputUTF8(text) {
		return
	}
	m.window.InputKey(k)
}

// routeMouse 依窗格纵向位置分发鼠标事件，坐标换算成窗格内坐标。
func (m *model) routeMouse(ev event.Mouse) {
	bufTop := 2 // 标题行 + 上边框
	if ev.Y >= bufTop && ev.Y < bufTop+m.bufSurface.height {
		ev.Y -= bufTop
		ev.X--
		m.window.InputMouse(ev)
		return
	}
	promptRow := m.height - 1
	if ev.Y == promptRow {
		ev.Y = 0
		ev.X -= lipgloss.Width(promptPrefix)
		m.line.InputMouse(ev)
	}
}

// harvest 消费 Done 状态：提交的行进历史与回显区，然后 Clear 重新武装。
func (m *model) harvest() (tea.Model, tea.Cmd) {
	u := m.last
	if !u.Cancel && strings.TrimSpace(u.Text) != "" {
		if handled, quit := m.builtin(u.Text); quit {
			m.line.AddHistory(u.Text)
			return m.quit()
		} else if handled {
			m.line.AddHistory(u.Text)
			m.line.Clear()
			return m, nil
		}
		m.lines = append(m.lines, promptPrefix+u.Text)
		m.transcript.SetContent(strings.Join(m.lines, "\n"))
		m.transcript.GotoBottom()
		m.line.AddHistory(u.Text)
		m.saveHistory()
	}
	m.line.Clear()
	return m, nil
}

// builtin 处理少量内建命令；返回 (已处理, 要求退出)。
func (m *model) builtin(text string) (bool, bool) {
	switch strings.TrimSpace(text) {
	case ":q", ":quit":
		return true, true
	case ":hex":
		m.window.InputLabel(bufferwnd.LabelModeHex, true)
		return true, false
	case ":saveconfig":
		if err := config.Save(m.opts.Config.Source, m.opts.Config); err != nil {
			log.Warnf("failed to save config: %v", err)
		}
		return true, false
	case ":text":
		m.window.InputLabel(bufferwnd.LabelModeText, true)
		return true, false
	}
	return false, false
}

func (m *model) quit() (tea.Model, tea.Cmd) {
	m.saveHistory()
	m.quitting = true
	return m, tea.Quit
}

func (m *model) saveHistory() {
	if m.opts.StatePath == "" {
		return
	}
	blob, err := m.line.SaveState()
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(m.opts.StatePath), 0o755); err != nil {
		log.Warnf("failed to create state dir: %v", err)
		return
	}
	if err := os.WriteFile(m.opts.StatePath, blob, 0o644); err != nil {
		log.Warnf("failed to save history state: %v", err)
	}
}

func (m *model) resize(width, height int) {
	m.width, m.height = width, height
	inner := width - 2
	if inner < 1 {
		inner = 1
	}
	bufRows := height - transcriptHeight - 5
	if bufRows < 3 {
		bufRows = 3
	}
	m.bufSurface.resize(inner, bufRows)
	m.promptSurface.resize(inner-lipgloss.Width(promptPrefix), 1)
	m.popupSurface.resize(inner, m.opts.Config.PopupMaxLines)
	m.transcript.Width = width
	m.transcript.Height = transcriptHeight
	m.window.SetOffset(m.window.Offset())
	m.bufSurface.SetContent(m.window.View())
}

func (m *model) View() string {
	if m.quitting {
		return ""
	}
	mode := "hex"
	if m.window.Mode() == bufferwnd.ModeText {
		mode = "text"
	}
	access := "ro"
	if m.window.WriteEnabled() {
		access = "rw"
	}
	title := titleStyle.Render("tuikit demo") + faintStyle.Render(fmt.Sprintf(
		"  %s [%s/%s]  session %s", m.opts.RegionName, mode, access, m.sessionID[:8]))

	bufBorder := blurredBorder
	if m.focus == focusBuffer {
		bufBorder = focusedBorder
	}
	sections := []string{
		title,
		bufBorder.Width(m.bufSurface.width).Render(m.bufSurface.content),
		transcriptTint.Render(m.transcript.View()),
	}
	if m.popupSurface.content != "" {
		sections = append(sections, m.popupSurface.content)
	}
	sections = append(sections, m.promptView())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// promptView 渲染当前编辑行：光标单元格反显，历史建议以灰色“影子”续尾。
func (m *model) promptView() string {
	text := m.last.Text
	rowText := text
	if rows := strings.Split(text, "\n"); m.last.Row < len(rows) {
		rowText = rows[m.last.Row]
	}
	runes := []rune(rowText)
	col := m.last.Col
	if col > len(runes) {
		col = len(runes)
	}

	var b strings.Builder
	b.WriteString(promptStyle.Render(promptPrefix))
	b.WriteString(string(runes[:col]))
	ghost := ""
	if m.last.Hint != "" && strings.HasPrefix(m.last.Hint, text) {
		ghost = m.last.Hint[len(text):]
	}
	if col < len(runes) {
		b.WriteString(cursorStyle.Render(string(runes[col])))
		b.WriteString(string(runes[col+1:]))
		b.WriteString(ghostStyle.Render(ghost))
	} else if ghost != "" {
		b.WriteString(cursorStyle.Render(string([]rune(ghost)[:1])))
		b.WriteString(ghostStyle.Render(string([]rune(ghost)[1:])))
	} else {
		b.WriteString(cursorStyle.Render(" "))
	}
	return b.String()
}

// runUI 封装 Bubble Tea 入口，返回宿主关心的收尾信息。
func runUI(opts uiOptions) (uiResult, error) {
	before := append([]byte(nil), opts.Region...)
	m, err := newModel(opts)
	if err != nil {
		return uiResult{}, err
	}
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	out, err := program.Run()
	if err != nil {
		return uiResult{}, err
	}
	final, ok := out.(*model)
	if !ok {
		return uiResult{}, errors.New("unexpected demo model")
	}
	final.line.Close()
	final.window.Close()
	return uiResult{RegionDirty: !bytes.Equal(before, opts.Region)}, nil
}
