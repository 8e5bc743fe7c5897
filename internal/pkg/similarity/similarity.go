package similarity

import (
	"math"
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/echomind/echomind_server/config"
)

// WordOverlapPolicy 整句练习的词重合率评分策略
type WordOverlapPolicy struct {
	// Threshold 判定为正确的最低相似度（含），0~1
	Threshold float64
}

// Score 计算目标句与识别结果的词重合率
func (p WordOverlapPolicy) Score(target, transcript string) float64 {
	targetWords := normalizeWords(target)
	if len(targetWords) == 0 {
		return 0
	}

	transcriptSet := make(map[string]struct{})
	for _, w := range normalizeWords(transcript) {
		transcriptSet[w] = struct{}{}
	}

	matchCount := 0
	for _, w := range targetWords {
		if _, ok := transcriptSet[w]; ok {
			matchCount++
		}
	}

	return float64(matchCount) / float64(len(targetWords))
}

// Correct 相似度达到阈值即判定为正确（阈值本身含在内）
func (p WordOverlapPolicy) Correct(score float64) bool {
	return score >= p.Threshold
}

// normalizeWords 小写、去标点、按空白切词
func normalizeWords(s string) []string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', '!', '?':
			return -1
		}
		return r
	}, s)
	return strings.Fields(strings.TrimSpace(s))
}

// LevenshteinPolicy 单词评分的归一化编辑距离策略
type LevenshteinPolicy struct {
	// Threshold 低于该分数（0~100）需要纠正
	Threshold int
}

// Similarity 归一化编辑距离相似度，0~1
func (p LevenshteinPolicy) Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	lenA, lenB := len([]rune(a)), len([]rune(b))
	if lenA == 0 {
		if lenB == 0 {
			return 1
		}
		return 0
	}
	if lenB == 0 {
		return 0
	}

	distance := matchr.Levenshtein(a, b)
	maxLen := lenA
	if lenB > maxLen {
		maxLen = lenB
	}
	return 1 - float64(distance)/float64(maxLen)
}

// Score 百分制分数
func (p LevenshteinPolicy) Score(a, b string) int {
	return int(math.Round(p.Similarity(a, b) * 100))
}

// NeedsCorrection 是否需要播放纠正发音
func (p LevenshteinPolicy) NeedsCorrection(score int) bool {
	return score < p.Threshold
}

// FeedbackFor 按分数档位选择反馈文案，levels 需按 MinScore 降序
func FeedbackFor(score int, levels []config.FeedbackLevel) string {
	for _, l := range levels {
		if score >= l.MinScore {
			return l.Message
		}
	}
	if len(levels) > 0 {
		return levels[len(levels)-1].Message
	}
	return ""
}
