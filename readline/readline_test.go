package readline

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"tuikit/event"
	"tuikit/internal/history"
)

type fakeSurface struct {
	w, h     int
	col, row int
	content  string
}

func (s *fakeSurface) Size() (int, int)      { return s.w, s.h }
func (s *fakeSurface) MoveCursor(col, r int) { s.col, s.row = col, r }
func (s *fakeSurface) SetContent(str string) { s.content = str }

type recorder struct {
	updates []Update
}

func (r *recorder) fn(u Update) {
	r.updates = append(r.updates, u)
}

func (r *recorder) last() Update {
	if len(r.updates) == 0 {
		return Update{}
	}
	return r.updates[len(r.updates)-1]
}

func newTestContext(t *testing.T, opts Options) (*Context, *recorder) {
	t.Helper()
	rec := &recorder{}
	c, err := Setup(&fakeSurface{w: 80, h: 1}, rec.fn, opts)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	return c, rec
}

func TestSetupRequiresHostAndCallback(t *testing.T) {
	t.Parallel()

	if _, err := Setup(nil, func(Update) {}, Options{}); !errors.Is(err, ErrNoHost) {
		t.Fatalf("Setup without host err=%v want ErrNoHost", err)
	}
	if _, err := Setup(&fakeSurface{}, nil, Options{}); !errors.Is(err, ErrNoUpdate) {
		t.Fatalf("Setup without callback err=%v want ErrNoUpdate", err)
	}
}

func TestTypingFiresOneUpdatePerEvent(t *testing.T) {
	t.Parallel()

	c, rec := newTestContext(t, Options{})
	if !c.InputText("a") || !c.InputText("b") {
		t.Fatalf("InputText not consumed")
	}
	if len(rec.updates) != 2 {
		t.Fatalf("updates=%d want 2", len(rec.updates))
	}
	got := rec.last()
	if got.Text != "ab" || got.Col != 2 || got.Row != 0 || got.Hint != "" || got.Done {
		t.Fatalf("last update=%+v", got)
	}
}

func TestSingleLineNeverAdvancesRow(t *testing.T) {
	t.Parallel()

	c, rec := newTestContext(t, Options{})
	c.InputText("a\nb")
	c.InputKey(event.Key{Sym: event.SymReturn, Mods: event.ModAlt})
	if got := c.Text(); got != "ab" {
		t.Fatalf("Text=%q want %q", got, "ab")
	}
	for _, u := range rec.updates {
		if u.Row != 0 {
			t.Fatalf("row advanced in single-line mode: %+v", u)
		}
	}
}

func TestMultilineRowAdvance(t *testing.T) {
	t.Parallel()

	c, rec := newTestContext(t, Options{Multiline: true})
	c.InputText("one")
	c.InputKey(event.Key{Sym: event.SymReturn, Mods: event.ModAlt})
	c.InputText("two")
	if got := c.Text(); got != "one\ntwo" {
		t.Fatalf("Text=%q", got)
	}
	if u := rec.last(); u.Row != 1 || u.Col != 3 {
		t.Fatalf("cursor=(%d,%d) want (3,1)", u.Col, u.Row)
	}
}

func TestCommitIsTwoPhase(t *testing.T) {
	t.Parallel()

	c, rec := newTestContext(t, Options{})
	c.InputText("ls")
	c.InputKey(event.Key{Sym: event.SymReturn})

	u := rec.last()
	if !u.Done || u.Cancel || u.Text != "ls" {
		t.Fatalf("commit update=%+v", u)
	}

	// Done 之后、Clear 之前的输入一律被忽略。
	n := len(rec.updates)
	c.InputText("x")
	c.InputKey(event.Key{Sym: event.SymLeft})
	if len(rec.updates) != n || c.Text() != "ls" {
		t.Fatalf("input accepted after commit: %q", c.Text())
	}

	c.Clear()
	u = rec.last()
	if u.Done || u.Text != "" || u.Col != 0 || u.Row != 0 || u.Hint != "" {
		t.Fatalf("clear update=%+v", u)
	}
	if !c.InputText("x") || c.Text() != "x" {
		t.Fatalf("context not re-armed after Clear")
	}
}

func TestCancelDistinctFromCommit(t *testing.T) {
	t.Parallel()

	c, rec := newTestContext(t, Options{})
	c.InputText("half finished")
	c.InputKey(event.Key{Sym: event.SymEscape})
	u := rec.last()
	if !u.Done || !u.Cancel || u.Text != "" {
		t.Fatalf("cancel update=%+v", u)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	t.Parallel()

	c, rec := newTestContext(t, Options{})
	for i := 0; i < 2; i++ {
		c.Clear()
		u := rec.last()
		if u.Col != 0 || u.Row != 0 || u.Text != "" || u.Hint != "" || u.Done {
			t.Fatalf("clear #%d update=%+v", i, u)
		}
	}
}

func TestHistoryBrowseWithDraft(t *testing.T) {
	t.Parallel()

	c, rec := newTestContext(t, Options{})
	c.AddHistory("first")
	c.AddHistory("second")
	c.InputText("draft")

	c.InputKey(event.Key{Sym: event.SymUp})
	if got := rec.last().Text; got != "second" {
		t.Fatalf("after up Text=%q", got)
	}
	c.InputKey(event.Key{Sym: event.SymUp})
	if got := rec.last().Text; got != "first" {
		t.Fatalf("after up up Text=%q", got)
	}
	c.InputKey(event.Key{Sym: event.SymDown})
	if got := rec.last().Text; got != "second" {
		t.Fatalf("after down Text=%q", got)
	}
	c.InputKey(event.Key{Sym: event.SymDown})
	if got := rec.last().Text; got != "draft" {
		t.Fatalf("draft not restored, Text=%q", got)
	}
}

func TestHistoryHintAndApply(t *testing.T) {
	t.Parallel()

	c, rec := newTestContext(t, Options{})
	c.AddHistory("git status")
	c.InputText("git s")
	if got := rec.last().Hint; got != "git status" {
		t.Fatalf("hint=%q want %q", got, "git status")
	}
	// 行尾右键采纳提示。
	c.InputKey(event.Key{Sym: event.SymRight})
	if got := c.Text(); got != "git status" {
		t.Fatalf("Text=%q after applying hint", got)
	}
}

func TestHistoryEvictionAfterReload(t *testing.T) {
	t.Parallel()

	c, _ := newTestContext(t, Options{HistoryLimit: 3})
	c.AddHistory("ls -la")
	blob, err := c.SaveState()
	if err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	fresh, _ := newTestContext(t, Options{HistoryLimit: 3})
	if err := fresh.LoadState(blob); err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	for i := 0; i < 3; i++ {
		fresh.AddHistory(fmt.Sprintf("cmd-%d", i))
	}
	want := []string{"cmd-0", "cmd-1", "cmd-2"}
	got := fresh.hist.Entries()
	if len(got) != len(want) {
		t.Fatalf("entries=%#v want %#v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entries[%d]=%q want %q", i, got[i], want[i])
		}
	}
}

func TestLoadStateRejectsTruncatedBlob(t *testing.T) {
	t.Parallel()

	c, _ := newTestContext(t, Options{})
	c.AddHistory("ls -la")
	c.AddHistory("make test")
	blob, err := c.SaveState()
	if err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	if err := c.LoadState(blob[:len(blob)-3]); !errors.Is(err, history.ErrCorruptState) {
		t.Fatalf("LoadState err=%v want ErrCorruptState", err)
	}
	// 拒绝加载后原历史必须原样可保存。
	again, err := c.SaveState()
	if err != nil {
		t.Fatalf("SaveState after reject: %v", err)
	}
	if !bytes.Equal(blob, again) {
		t.Fatalf("history mutated by failed load")
	}
}

func TestCloseReleasesOwnStateOnly(t *testing.T) {
	t.Parallel()

	popup := &fakeSurface{w: 40, h: 8, content: "owner data"}
	c, rec := newTestContext(t, Options{Popup: popup})
	c.Close()
	if popup.content != "owner data" {
		t.Fatalf("popup touched on close: %q", popup.content)
	}
	n := len(rec.updates)
	c.InputText("x")
	c.Clear()
	if len(rec.updates) != n {
		t.Fatalf("closed context still firing updates")
	}
}
