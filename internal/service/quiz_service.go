package service

import (
	"encoding/json"
	"errors"
	"math"

	"gorm.io/gorm"

	"github.com/echomind/echomind_server/internal/model"
	"github.com/echomind/echomind_server/internal/model/dto"
	"github.com/echomind/echomind_server/internal/repository"
)

var (
	ErrQuizNotFound    = errors.New("测验不存在")
	ErrAnswerMismatch  = errors.New("答案数量与题目数量不符")
	ErrInvalidQuestion = errors.New("题目数据无效")
)

// 每答对一题的积分
const pointsPerCorrectAnswer = 10

// QuizService 测验管理与判分
type QuizService struct {
	quizRepo     *repository.QuizRepository
	progressRepo *repository.ProgressRepository
	userRepo     *repository.UserRepository
}

func NewQuizService(quizRepo *repository.QuizRepository, progressRepo *repository.ProgressRepository, userRepo *repository.UserRepository) *QuizService {
	return &QuizService{
		quizRepo:     quizRepo,
		progressRepo: progressRepo,
		userRepo:     userRepo,
	}
}

// ListQuizzes 分页获取测验列表
func (s *QuizService) ListQuizzes(level string, page, pageSize int) ([]*model.Quiz, int64, error) {
	return s.quizRepo.List(level, page, pageSize)
}

// GetQuiz 获取测验及题目（不含答案，判分在服务端完成）
func (s *QuizService) GetQuiz(id int64) (*model.Quiz, error) {
	quiz, err := s.quizRepo.GetByIDWithQuestions(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

// CreateQuiz 新建测验（管理员）
func (s *QuizService) CreateQuiz(req *dto.CreateQuizRequest) (*model.Quiz, error) {
	questions := make([]model.QuizQuestion, 0, len(req.Questions))
	for _, q := range req.Questions {
		if q.AnswerIdx >= len(q.Options) {
			return nil, ErrInvalidQuestion
		}
		options, err := json.Marshal(q.Options)
		if err != nil {
			return nil, err
		}
		questions = append(questions, model.QuizQuestion{
			Question:    q.Question,
			Options:     string(options),
			AnswerIdx:   q.AnswerIdx,
			Explanation: q.Explanation,
		})
	}

	quiz := &model.Quiz{
		Title:     req.Title,
		Level:     req.Level,
		Topic:     req.Topic,
		Questions: questions,
	}

	if err := s.quizRepo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// DeleteQuiz 删除测验（管理员）
func (s *QuizService) DeleteQuiz(id int64) error {
	return s.quizRepo.Delete(id)
}

// Submit 提交答案并判分，记录进度与积分
func (s *QuizService) Submit(userID, quizID int64, req *dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error) {
	quiz, err := s.quizRepo.GetByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	if len(req.Answers) != len(quiz.Questions) {
		return nil, ErrAnswerMismatch
	}

	correct := 0
	var wrongIndexes []int
	for i, q := range quiz.Questions {
		if req.Answers[i] == q.AnswerIdx {
			correct++
		} else {
			wrongIndexes = append(wrongIndexes, i)
		}
	}

	total := len(quiz.Questions)
	score := int(math.Round(float64(correct) / float64(total) * 100))
	points := correct * pointsPerCorrectAnswer

	progress := &model.Progress{
		UserID:       userID,
		Type:         model.ProgressQuiz,
		Score:        score,
		PointsEarned: points,
		QuizID:       &quizID,
	}
	if err := s.progressRepo.Create(progress); err != nil {
		return nil, err
	}

	if points > 0 {
		if err := s.userRepo.AddPoints(userID, points); err != nil {
			return nil, err
		}
	}

	return &dto.SubmitQuizResponse{
		Score:        score,
		Correct:      correct,
		Total:        total,
		PointsEarned: points,
		WrongIndexes: wrongIndexes,
	}, nil
}
