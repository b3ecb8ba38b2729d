package readline

import (
	"strings"

	"tuikit/internal/history"
)

// browseState 负责历史回溯（上下方向键）的读位置。
// cursor == store.Len() 表示当前在“最新输入”（非浏览历史）位置；
// 浏览只移动读位置，绝不改写历史本身。
type browseState struct {
	store  *history.Store
	cursor int
	draft  string
}

func (b *browseState) reset() {
	b.cursor = b.store.Len()
	b.draft = ""
}

func (b *browseState) browsing() bool {
	return b.cursor < b.store.Len()
}

// prev 向更旧的方向回溯一步；首次离开最新位置时暂存 current 为草稿。
func (b *browseState) prev(current string) (string, bool) {
	if b.store.Len() == 0 {
		return "", false
	}
	if b.cursor == b.store.Len() {
		b.draft = current
	}
	if b.cursor > 0 {
		b.cursor--
	}
	return b.store.At(b.cursor), true
}

// next 向更新的方向走一步；越过最新一条时恢复草稿。
func (b *browseState) next() (string, bool) {
	if b.store.Len() == 0 || b.cursor == b.store.Len() {
		return "", false
	}
	if b.cursor < b.store.Len()-1 {
		b.cursor++
		return b.store.At(b.cursor), true
	}
	b.cursor = b.store.Len()
	return b.draft, true
}

// suggest 返回以 current 为前缀、最近提交的一条历史，作为提示串；
// 没有合适条目时返回空。
func (b *browseState) suggest(current string) string {
	if current == "" {
		return ""
	}
	for i := b.store.Len() - 1; i >= 0; i-- {
		entry := b.store.At(i)
		if entry != current && strings.HasPrefix(entry, current) {
			return entry
		}
	}
	return ""
}
