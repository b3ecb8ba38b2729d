package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tuikit/readline"
)

var dirColor = [3]uint8{0x7a, 0xa2, 0xf7}

// fileCompleter 基于文件名前缀匹配的补全引擎。fragment 取行内
// 最后一个空格之后的词；目录候选带尾部分隔符与颜色提示。
func fileCompleter(workdir string) readline.CompleteFunc {
	return func(fragment string, index int) (readline.Candidate, bool) {
		prefix := fragment
		if i := strings.LastIndex(fragment, " "); i >= 0 {
			prefix = fragment[i+1:]
		}
		matches := globPrefix(workdir, prefix)
		if index >= len(matches) {
			return readline.Candidate{}, false
		}
		cand := readline.Candidate{Text: completedLine(fragment, prefix, matches[index])}
		if strings.HasSuffix(matches[index], string(filepath.Separator)) {
			cand.Color = dirColor
		}
		return cand, index < len(matches)-1
	}
}

func globPrefix(workdir, prefix string) []string {
	pattern := prefix + "*"
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(workdir, pattern)
	}
	hits, err := filepath.Glob(pattern)
	if err != nil || len(hits) == 0 {
		return nil
	}
	sort.Strings(hits)
	out := make([]string, 0, len(hits))
	for _, hit := range hits {
		rel := hit
		if !filepath.IsAbs(prefix) {
			if r, err := filepath.Rel(workdir, hit); err == nil {
				rel = r
			}
		}
		if info, err := os.Stat(hit); err == nil && info.IsDir() {
			rel += string(filepath.Separator)
		}
		out = append(out, rel)
	}
	return out
}

// completedLine 用候选词替换行尾正在补全的词，保留前面的内容。
func completedLine(fragment, prefix, match string) string {
	return fragment[:len(fragment)-len(prefix)] + match
}
