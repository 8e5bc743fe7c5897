package dto

// CreateQuizRequest 新建测验请求（管理员）
type CreateQuizRequest struct {
	Title     string                `json:"title" binding:"required,max=200"`
	Level     string                `json:"level" binding:"required,oneof=beginner elementary intermediate upper-intermediate advanced"`
	Topic     string                `json:"topic,omitempty"`
	Questions []QuizQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

// QuizQuestionRequest 测验题目
type QuizQuestionRequest struct {
	Question    string   `json:"question" binding:"required"`
	Options     []string `json:"options" binding:"required,min=2"`
	AnswerIdx   int      `json:"answer_idx" binding:"gte=0"`
	Explanation string   `json:"explanation,omitempty"`
}

// SubmitQuizRequest 提交答案请求
type SubmitQuizRequest struct {
	Answers []int `json:"answers" binding:"required"`
}

// SubmitQuizResponse 测验结果
type SubmitQuizResponse struct {
	Score        int   `json:"score"` // 0~100
	Correct      int   `json:"correct"`
	Total        int   `json:"total"`
	PointsEarned int   `json:"points_earned"`
	WrongIndexes []int `json:"wrong_indexes,omitempty"`
}
