package readline

import (
	"github.com/sahilm/fuzzy"
)

// cycle 一次补全循环的全部瞬态：触发时的片段、候选缓存与选中项。
// 片段被继续编辑时整个循环作废重建。
type cycle struct {
	fragment   string
	candidates []Candidate
	highlights [][]int
	selected   int
}

func (cy *cycle) current() (Candidate, bool) {
	if cy == nil || len(cy.candidates) == 0 {
		return Candidate{}, false
	}
	return cy.candidates[cy.selected], true
}

func (cy *cycle) advance(delta int) bool {
	if cy == nil || len(cy.candidates) == 0 {
		return false
	}
	cy.selected = (cy.selected + delta + len(cy.candidates)) % len(cy.candidates)
	return true
}

// startCycle 触发一次补全枚举。引擎按 index 0,1,2,… 被同步调用，
// 返回 more=false 或调用数到达上限即停，防止失控的引擎无界枚举。
// 有候选则进入 Completing 状态并刷新弹窗；无候选不改变任何状态。
func (c *Context) startCycle() bool {
	if c.onComplete == nil {
		return false
	}
	fragment := c.Text()
	var cands []Candidate
	for i := 0; i < c.completionLimit; i++ {
		cand, more := c.onComplete(fragment, i)
		if cand.Text != "" {
			cands = append(cands, cand)
		}
		if !more {
			break
		}
	}
	if len(cands) == 0 {
		c.log.WithField("fragment", fragment).Debug("completion empty")
		return false
	}
	c.cycle = &cycle{fragment: fragment}
	c.cycle.candidates, c.cycle.highlights = rankCandidates(fragment, cands)
	c.ph = phaseCompleting
	c.renderPopup()
	return true
}

// dropCycle 作废当前循环并清掉弹窗内容。
func (c *Context) dropCycle() {
	if c.cycle == nil {
		return
	}
	c.cycle = nil
	if c.ph == phaseCompleting {
		c.ph = phaseEditing
	}
	if c.popup != nil {
		c.popup.SetContent("")
	}
}

// acceptCycle 把选中候选替换进行缓冲，光标移到末尾。
func (c *Context) acceptCycle() bool {
	cand, ok := c.cycle.current()
	if !ok {
		return false
	}
	c.setText(cand.Text)
	c.dropCycle()
	return true
}

// rankCandidates 用 fuzzy 对候选重排：命中片段的按得分靠前并记录
// 高亮位置，未命中的按枚举顺序缀后，任何候选都不会被丢弃。
func rankCandidates(fragment string, cands []Candidate) ([]Candidate, [][]int) {
	if fragment == "" || len(cands) < 2 {
		return cands, make([][]int, len(cands))
	}
	texts := make([]string, len(cands))
	for i, cand := range cands {
		texts[i] = cand.Text
	}
	results := fuzzy.Find(fragment, texts)

	ordered := make([]Candidate, 0, len(cands))
	highlights := make([][]int, 0, len(cands))
	matched := make(map[int]bool, len(results))
	for _, res := range results {
		matched[res.Index] = true
		ordered = append(ordered, cands[res.Index])
		highlights = append(highlights, res.MatchedIndexes)
	}
	for i, cand := range cands {
		if matched[i] {
			continue
		}
		ordered = append(ordered, cand)
		highlights = append(highlights, nil)
	}
	return ordered, highlights
}
