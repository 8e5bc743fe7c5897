package dto

// CreateSentenceRequest 新建练习句子请求（管理员）
type CreateSentenceRequest struct {
	Sentence    string  `json:"sentence" binding:"required,max=500"`
	Phonetic    *string `json:"phonetic,omitempty"`
	Translation *string `json:"translation,omitempty"`
	Level       string  `json:"level" binding:"required,oneof=beginner elementary intermediate upper-intermediate advanced"`
	Topic       string  `json:"topic,omitempty"`
}

// UpdateSentenceRequest 更新练习句子请求（管理员）
type UpdateSentenceRequest struct {
	Sentence    *string `json:"sentence,omitempty" binding:"omitempty,max=500"`
	Phonetic    *string `json:"phonetic,omitempty"`
	Translation *string `json:"translation,omitempty"`
	Level       *string `json:"level,omitempty" binding:"omitempty,oneof=beginner elementary intermediate upper-intermediate advanced"`
	Topic       *string `json:"topic,omitempty"`
}
