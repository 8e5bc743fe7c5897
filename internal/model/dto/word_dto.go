package dto

// CreateWordRequest 新建词汇请求（管理员）
type CreateWordRequest struct {
	Word        string `json:"word" binding:"required,max=100"`
	Phonetic    string `json:"phonetic,omitempty"`
	Definition  string `json:"definition" binding:"required"`
	Example     string `json:"example,omitempty"`
	Translation string `json:"translation,omitempty"`
	Level       string `json:"level" binding:"required,oneof=beginner elementary intermediate upper-intermediate advanced"`
	Topic       string `json:"topic,omitempty"`
}

// UpdateWordRequest 更新词汇请求（管理员）
type UpdateWordRequest struct {
	Word        *string `json:"word,omitempty" binding:"omitempty,max=100"`
	Phonetic    *string `json:"phonetic,omitempty"`
	Definition  *string `json:"definition,omitempty"`
	Example     *string `json:"example,omitempty"`
	Translation *string `json:"translation,omitempty"`
	Level       *string `json:"level,omitempty" binding:"omitempty,oneof=beginner elementary intermediate upper-intermediate advanced"`
	Topic       *string `json:"topic,omitempty"`
}
