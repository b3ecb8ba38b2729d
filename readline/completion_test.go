package readline

import (
	"testing"

	"tuikit/event"
)

func staticEngine(cands ...string) CompleteFunc {
	return func(fragment string, index int) (Candidate, bool) {
		if index >= len(cands) {
			return Candidate{}, false
		}
		return Candidate{Text: cands[index]}, index < len(cands)-1
	}
}

func TestCompletionEnumerationIsBounded(t *testing.T) {
	t.Parallel()

	calls := 0
	greedy := func(fragment string, index int) (Candidate, bool) {
		calls++
		return Candidate{Text: "always-more"}, true
	}
	c, _ := newTestContext(t, Options{OnCompletion: greedy, CompletionLimit: 5})
	c.InputKey(event.Key{Sym: event.SymTab})
	if calls != 5 {
		t.Fatalf("engine called %d times, want exactly 5", calls)
	}
}

func TestCompletionStopsOnEngineSignal(t *testing.T) {
	t.Parallel()

	calls := 0
	engine := func(fragment string, index int) (Candidate, bool) {
		calls++
		return Candidate{Text: "only"}, false
	}
	c, _ := newTestContext(t, Options{OnCompletion: engine, CompletionLimit: 100})
	c.InputKey(event.Key{Sym: event.SymTab})
	if calls != 1 {
		t.Fatalf("engine called %d times, want 1", calls)
	}
	if !c.Completing() {
		t.Fatalf("cycle not active after candidates returned")
	}
}

func TestCompletionCycleAdvancesAndAccepts(t *testing.T) {
	t.Parallel()

	c, rec := newTestContext(t, Options{OnCompletion: staticEngine("echo one", "echo two")})
	c.InputKey(event.Key{Sym: event.SymTab})
	if got := rec.last().Hint; got != "echo one" {
		t.Fatalf("hint=%q want first candidate", got)
	}
	c.InputKey(event.Key{Sym: event.SymTab})
	if got := rec.last().Hint; got != "echo two" {
		t.Fatalf("hint=%q want second candidate", got)
	}
	c.InputKey(event.Key{Sym: event.SymReturn})
	u := rec.last()
	if u.Done || u.Text != "echo two" {
		t.Fatalf("accept update=%+v", u)
	}
	if c.Completing() {
		t.Fatalf("cycle still active after accept")
	}
	// 采纳之后的 Enter 才是提交。
	c.InputKey(event.Key{Sym: event.SymReturn})
	if u := rec.last(); !u.Done || u.Text != "echo two" {
		t.Fatalf("commit update=%+v", u)
	}
}

func TestCompletionCycleDiscardedOnEdit(t *testing.T) {
	t.Parallel()

	c, _ := newTestContext(t, Options{OnCompletion: staticEngine("candidate")})
	c.InputKey(event.Key{Sym: event.SymTab})
	if !c.Completing() {
		t.Fatalf("cycle not started")
	}
	c.InputText("x")
	if c.Completing() {
		t.Fatalf("cycle survived an edit")
	}
}

func TestCompletionHintOverridesHistoryHint(t *testing.T) {
	t.Parallel()

	c, rec := newTestContext(t, Options{OnCompletion: staticEngine("abc from engine")})
	c.AddHistory("abc from history")
	c.InputText("abc")
	if got := rec.last().Hint; got != "abc from history" {
		t.Fatalf("history hint=%q", got)
	}
	c.InputKey(event.Key{Sym: event.SymTab})
	if got := rec.last().Hint; got != "abc from engine" {
		t.Fatalf("hint=%q, completion should win", got)
	}
	c.InputKey(event.Key{Sym: event.SymEscape})
	if got := rec.last().Hint; got != "abc from history" {
		t.Fatalf("hint=%q after closing cycle", got)
	}
}

func TestCompletionWithoutEngineIsNoop(t *testing.T) {
	t.Parallel()

	c, rec := newTestContext(t, Options{})
	n := len(rec.updates)
	c.InputKey(event.Key{Sym: event.SymTab})
	if len(rec.updates) != n || c.Completing() {
		t.Fatalf("tab without engine changed state")
	}
}

func TestPopupReceivesCandidateList(t *testing.T) {
	t.Parallel()

	popup := &fakeSurface{w: 40, h: 8}
	c, _ := newTestContext(t, Options{
		Popup:        popup,
		OnCompletion: staticEngine("alpha", "beta"),
	})
	c.InputKey(event.Key{Sym: event.SymTab})
	if popup.content == "" {
		t.Fatalf("popup not populated")
	}
	c.InputKey(event.Key{Sym: event.SymEscape})
	if popup.content != "" {
		t.Fatalf("popup not cleared after cycle dropped: %q", popup.content)
	}
}

func TestDetachPopupStopsWrites(t *testing.T) {
	t.Parallel()

	popup := &fakeSurface{w: 40, h: 8}
	c, _ := newTestContext(t, Options{
		Popup:        popup,
		OnCompletion: staticEngine("alpha"),
	})
	c.DetachPopup()
	c.InputKey(event.Key{Sym: event.SymTab})
	if popup.content != "" {
		t.Fatalf("popup written after detach: %q", popup.content)
	}
}

func TestMouseMovesCursorWithinLine(t *testing.T) {
	t.Parallel()

	c, rec := newTestContext(t, Options{})
	c.InputText("hello")
	c.InputMouse(event.Mouse{X: 2, Y: 0, Button: event.MouseButtonLeft, Active: true})
	if u := rec.last(); u.Col != 2 {
		t.Fatalf("col=%d want 2", u.Col)
	}
	n := len(rec.updates)
	c.InputMouse(event.Mouse{X: 42, Y: 0, Button: event.MouseButtonLeft, Active: true})
	c.InputMouse(event.Mouse{X: 1, Y: 7, Button: event.MouseButtonLeft, Active: true})
	if len(rec.updates) != n {
		t.Fatalf("out-of-line click not ignored")
	}
}

func TestLabelRouting(t *testing.T) {
	t.Parallel()

	c, rec := newTestContext(t, Options{OnCompletion: staticEngine("zzz")})
	c.AddHistory("older")
	if !c.InputLabel(LabelHistoryPrev, true) {
		t.Fatalf("history_prev not consumed")
	}
	if got := rec.last().Text; got != "older" {
		t.Fatalf("Text=%q", got)
	}
	if c.InputLabel("bogus", true) {
		t.Fatalf("unknown label consumed")
	}
	if c.InputLabel(LabelCommit, false) {
		t.Fatalf("inactive label consumed")
	}
	if !c.InputLabel(LabelCommit, true) {
		t.Fatalf("commit label not consumed")
	}
	if u := rec.last(); !u.Done || u.Text != "older" {
		t.Fatalf("commit update=%+v", u)
	}
}
