package similarity

import (
	"math"
	"math/rand"
	"strings"
)

const vowels = "aeiouy"

// SplitSyllables 朴素音节切分：遇到「辅音后接元音」且当前块已含元音时断开，
// 结尾的纯辅音残块并入最后一个音节
func SplitSyllables(word string) []string {
	var syllables []string
	var current strings.Builder
	hasVowel := false

	runes := []rune(word)
	for i, r := range runes {
		lower := strings.ToLower(string(r))
		current.WriteRune(r)

		if strings.Contains(vowels, lower) {
			hasVowel = true
		}

		if hasVowel && i < len(runes)-1 {
			next := strings.ToLower(string(runes[i+1]))
			if !strings.Contains(vowels, lower) && strings.Contains(vowels, next) {
				syllables = append(syllables, current.String())
				current.Reset()
				hasVowel = false
			}
		}
	}

	if current.Len() > 0 {
		if len(syllables) > 0 && !hasVowel {
			syllables[len(syllables)-1] += current.String()
		} else {
			syllables = append(syllables, current.String())
		}
	}

	if len(syllables) == 0 {
		return []string{word}
	}
	return syllables
}

// 常见前后缀的近似音标
var syllablePhonetics = map[string]string{
	"per": "/pɜr/", "pre": "/pri/", "pro": "/proʊ/",
	"se": "/sə/", "si": "/si/", "so": "/soʊ/",
	"ver": "/vɜr/", "tion": "/ʃən/", "ance": "/əns/",
	"ence": "/əns/", "ing": "/ɪŋ/", "ed": "/d/",
	"er": "/ər/", "or": "/ɔr/", "ar": "/ɑr/",
	"ful": "/fəl/", "ment": "/mənt/", "ness": "/nəs/",
	"be": "/bi/", "au": "/ɔ/", "ti": "/ti/",
}

// PhoneticGuess 查表给出音节的近似音标，未命中时退化为 /syllable/
func PhoneticGuess(syllable string) string {
	lower := strings.ToLower(syllable)
	if p, ok := syllablePhonetics[lower]; ok {
		return p
	}
	return "/" + lower + "/"
}

var syllableTips = []string{
	`Stress "%s" more clearly`,
	`Vowel in "%s" should be shorter`,
	`Pronounce "%s" more slowly`,
	`Focus on ending sound`,
	`Soften the consonant`,
}

// Syllable 离线模式下单个音节的评价
type Syllable struct {
	Text     string
	Correct  bool
	Phonetic string
	Tip      *string
}

// OfflineAnalysis 离线（演示）模式的音节级分析结果
type OfflineAnalysis struct {
	Syllables []Syllable
	Score     int // round(correct/total*100)
}

// AnalyzeOffline 无语音识别凭证时的演示分析。音节对错由注入的随机源决定，
// 不是真实的声学信号；rng 可注入以便测试产生确定结果
func AnalyzeOffline(word string, rng *rand.Rand) OfflineAnalysis {
	parts := SplitSyllables(word)

	result := OfflineAnalysis{
		Syllables: make([]Syllable, len(parts)),
	}

	correctCount := 0
	for i, part := range parts {
		s := Syllable{
			Text:     part,
			Correct:  rng.Float64() > 0.4,
			Phonetic: PhoneticGuess(part),
		}
		if rng.Float64() > 0.6 {
			tip := tipFor(part, rng)
			s.Tip = &tip
		}
		if s.Correct {
			correctCount++
		}
		result.Syllables[i] = s
	}

	result.Score = int(math.Round(float64(correctCount) / float64(len(parts)) * 100))
	return result
}

func tipFor(syllable string, rng *rand.Rand) string {
	tpl := syllableTips[rng.Intn(len(syllableTips))]
	if strings.Contains(tpl, "%s") {
		return strings.Replace(tpl, "%s", syllable, 1)
	}
	return tpl
}
