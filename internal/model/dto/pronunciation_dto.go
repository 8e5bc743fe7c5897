package dto

// AnalyzeResult 单词发音评分结果（编辑距离路径）
type AnalyzeResult struct {
	Score           int              `json:"score"` // 0~100
	Transcription   string           `json:"transcription"`
	ExpectedText    string           `json:"expected_text"`
	WordConfidences []WordConfidence `json:"word_confidences,omitempty"`
	NeedsCorrection bool             `json:"needs_correction"`
	Feedback        string           `json:"feedback"`
	// Offline 为 true 表示识别服务不可用，走的是离线音节演示
	Offline   bool               `json:"offline,omitempty"`
	Syllables []SyllableAnalysis `json:"syllables,omitempty"`
}

// WordConfidence 识别结果中单词的置信度
type WordConfidence struct {
	Word       string  `json:"word"`
	Confidence float64 `json:"confidence"`
}

// AnalyzeAndCorrectResult 整句练习「分析并纠正」结果
type AnalyzeAndCorrectResult struct {
	Status          string             `json:"status"` // correct, incorrect
	Transcript      string             `json:"transcript"`
	Similarity      int                `json:"similarity"` // 0~100
	Feedback        string             `json:"feedback"`
	CorrectedAudio  string             `json:"corrected_audio,omitempty"` // base64 mp3，纠正失败时为空
	WordAnalysis    []SyllableAnalysis `json:"word_analysis,omitempty"`
	CommonMistakes  []string           `json:"common_mistakes,omitempty"`
	RemainingClones int                `json:"remaining_clones"`
}

// SyllableAnalysis 离线模式下的音节级反馈
type SyllableAnalysis struct {
	Syllable string  `json:"syllable"`
	Correct  bool    `json:"correct"`
	Phonetic string  `json:"phonetic"`
	Tip      *string `json:"tip,omitempty"`
}

// CloneCorrectResult 克隆语音纠正结果
type CloneCorrectResult struct {
	Audio          string `json:"audio"` // base64
	ContentType    string `json:"content_type"`
	UsageRemaining int    `json:"usage_remaining"`
	Text           string `json:"text"`
}

// VoiceStatus 用户声音克隆状态
type VoiceStatus struct {
	HasVoiceClone  bool `json:"has_voice_clone"`
	UsageRemaining int  `json:"usage_remaining"`
	DailyLimit     int  `json:"daily_limit"`
}

// Phonetics 词典音标查询结果
type Phonetics struct {
	Word     string            `json:"word"`
	Phonetic string            `json:"phonetic"`
	AudioURL string            `json:"audio_url"`
	Meanings []PhoneticMeaning `json:"meanings,omitempty"`
}

// PhoneticMeaning 词条释义
type PhoneticMeaning struct {
	PartOfSpeech string `json:"part_of_speech"`
	Definition   string `json:"definition"`
}
