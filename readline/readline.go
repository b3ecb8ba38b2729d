// Package readline 提供 readline 式行编辑控件：历史回溯、补全循环、
// 提交/取消两段式协议。控件不负责上屏，只通过 update 回调与宿主
// surface 交换光标偏移与提示串；建议弹窗是唯一的例外，它把准备好的
// 列表内容写进借用的 popup surface。
package readline

import (
	"errors"
	"strings"

	"github.com/mattn/go-runewidth"

	"tuikit/event"
	"tuikit/internal/history"
	"tuikit/internal/logger"
)

var (
	// ErrNoHost 构造时缺少宿主 surface。
	ErrNoHost = errors.New("readline: host surface is required")
	// ErrNoUpdate 构造时缺少 update 回调。
	ErrNoUpdate = errors.New("readline: update callback is required")
	// ErrClosed 上下文已经 Close。
	ErrClosed = errors.New("readline: context is closed")
)

// Update 是一次状态变更的完整快照，每个被接受的输入事件恰好触发一次。
// Done+Cancel 区分提交与取消：取消时 Text 恒为空。
type Update struct {
	Col, Row int
	Text     string
	Hint     string
	Done     bool
	Cancel   bool
}

// UpdateFunc 状态回调，必须同步、快速返回。
type UpdateFunc func(Update)

// Candidate 一条补全候选：文本与展示用的颜色提示。
type Candidate struct {
	Text  string
	Color [3]uint8
}

// CompleteFunc 外部补全引擎。控件以递增的 index 反复调用，
// 返回 more=false 表示枚举结束；单次循环的调用次数有上限。
type CompleteFunc func(fragment string, index int) (Candidate, bool)

// Options 构造可选项。零值即合法：单行、无弹窗、无补全、默认容量。
type Options struct {
	Popup           event.Surface
	OnCompletion    CompleteFunc
	Multiline       bool
	HistoryLimit    int
	CompletionLimit int
	PopupMaxLines   int
}

// defaultCompletionLimit 单次补全循环的调用上限，防止引擎无界枚举。
const defaultCompletionLimit = 64

const defaultPopupMaxLines = 8

type phase int

const (
	phaseEmpty phase = iota
	phaseEditing
	phaseCompleting
	phaseDoneCommit
	phaseDoneCancel
)

// Context 行编辑上下文。独占行缓冲与历史；popup 只是借用，
// Close/DetachPopup 之后不再触碰。
type Context struct {
	host       event.Surface
	popup      event.Surface
	onUpdate   UpdateFunc
	onComplete CompleteFunc

	multiline       bool
	completionLimit int
	popupMaxLines   int

	rows [][]rune
	col  int
	row  int
	ph   phase

	hist   *history.Store
	browse browseState
	cycle  *cycle

	log    *logger.LogEntry
	closed bool
}

// Setup 构造上下文。host 与 onUpdate 缺一不可，缺失时不产生任何对象。
func Setup(host event.Surface, onUpdate UpdateFunc, opts Options) (*Context, error) {
	if host == nil {
		return nil, ErrNoHost
	}
	if onUpdate == nil {
		return nil, ErrNoUpdate
	}
	limit := opts.CompletionLimit
	if limit <= 0 {
		limit = defaultCompletionLimit
	}
	popupLines := opts.PopupMaxLines
	if popupLines <= 0 {
		popupLines = defaultPopupMaxLines
	}
	c := &Context{
		host:            host,
		popup:           opts.Popup,
		onUpdate:        onUpdate,
		onComplete:      opts.OnCompletion,
		multiline:       opts.Multiline,
		completionLimit: limit,
		popupMaxLines:   popupLines,
		rows:            [][]rune{nil},
		hist:            history.New(opts.HistoryLimit),
		log:             logger.Named("readline"),
	}
	c.browse.store = c.hist
	c.browse.reset()
	c.log.WithField("multiline", opts.Multiline).Debug("readline setup")
	return c, nil
}

// Clear 清空缓冲并回到初始状态，同步触发一次空内容的 update。
// 这是 Done-Commit/Done-Cancel 之后重新武装上下文的唯一途径。
func (c *Context) Clear() {
	if c == nil || c.closed {
		return
	}
	c.rows = [][]rune{nil}
	c.col, c.row = 0, 0
	c.ph = phaseEmpty
	c.browse.reset()
	c.dropCycle()
	c.fireUpdate(false, false)
}

// Close 释放控件自有状态。借用的 popup 只解除引用，绝不释放。
func (c *Context) Close() {
	if c == nil || c.closed {
		return
	}
	c.closed = true
	c.popup = nil
	c.cycle = nil
	c.rows = nil
	c.hist.Reset()
	c.log.Debug("readline closed")
}

// DetachPopup 供 popup 的所有者在销毁 popup 前通知上下文；
// 之后控件不再向 popup 写任何内容。
func (c *Context) DetachPopup() {
	if c == nil {
		return
	}
	c.popup = nil
}

// AddHistory 向历史追加一条已完成的行（FIFO 有界），不改变编辑状态。
func (c *Context) AddHistory(line string) {
	if c == nil || c.closed {
		return
	}
	c.hist.Append(line)
	c.browse.reset()
}

// SaveState 把历史序列化成不透明、自描述的字节串。
func (c *Context) SaveState() ([]byte, error) {
	if c == nil || c.closed {
		return nil, ErrClosed
	}
	return c.hist.MarshalBinary()
}

// LoadState 从 SaveState 产物恢复历史。校验失败时现有历史原样保留。
func (c *Context) LoadState(data []byte) error {
	if c == nil || c.closed {
		return ErrClosed
	}
	if err := c.hist.UnmarshalBinary(data); err != nil {
		c.log.WithField("err", err).Debug("loadstate rejected")
		return err
	}
	c.browse.reset()
	return nil
}

// Text 返回当前完整内容，多行以 \n 连接。
func (c *Context) Text() string {
	if c == nil || len(c.rows) == 0 {
		return ""
	}
	parts := make([]string, len(c.rows))
	for i, r := range c.rows {
		parts[i] = string(r)
	}
	return strings.Join(parts, "\n")
}

// Cursor 返回 (列, 行)，列按 rune 计。
func (c *Context) Cursor() (col, row int) {
	return c.col, c.row
}

// Completing 返回补全循环是否处于激活状态。
func (c *Context) Completing() bool {
	return c != nil && c.cycle != nil
}

// Done 返回上下文是否停在 Done-Commit/Done-Cancel，等待 Clear。
func (c *Context) Done() bool {
	return c != nil && (c.ph == phaseDoneCommit || c.ph == phaseDoneCancel)
}

// hint 计算当前提示串：激活的补全候选优先于历史建议。
func (c *Context) hint() string {
	if c.cycle != nil {
		if cand, ok := c.cycle.current(); ok {
			return cand.Text
		}
	}
	return c.browse.suggest(c.Text())
}

// fireUpdate 汇报一次状态变更：光标（rune 列 + 行）、完整内容、提示、
// 完成标志，并把显示列写回宿主 surface。
func (c *Context) fireUpdate(done, cancel bool) {
	text := c.Text()
	if cancel {
		text = ""
	}
	u := Update{
		Col:    c.col,
		Row:    c.row,
		Text:   text,
		Hint:   c.hint(),
		Done:   done,
		Cancel: cancel,
	}
	if done {
		u.Hint = ""
	}
	c.host.MoveCursor(runewidth.StringWidth(string(c.rows[c.row][:c.col])), c.row)
	c.onUpdate(u)
}

func (c *Context) commit() {
	c.dropCycle()
	c.ph = phaseDoneCommit
	c.log.WithField("len", len(c.Text())).Debug("commit")
	c.fireUpdate(true, false)
}

func (c *Context) cancel() {
	c.dropCycle()
	c.ph = phaseDoneCancel
	c.log.Debug("cancel")
	c.fireUpdate(true, true)
}
