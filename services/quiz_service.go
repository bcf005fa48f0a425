package services

import (
	"context"

	"quizengine/models"
	"quizengine/session"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrAttemptForbidden = errors.New("attempt belongs to another user")
)

// QuizSource supplies quiz payloads to the session engine.
type QuizSource interface {
	LoadQuiz(ctx context.Context, quizID uint) (session.Quiz, error)
}

// QuizService loads quizzes from the database.
type QuizService struct {
	db *gorm.DB
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{db: db}
}

func (s *QuizService) LoadQuiz(ctx context.Context, quizID uint) (session.Quiz, error) {
	var quiz models.Quiz
	err := s.db.WithContext(ctx).Where("id = ?", quizID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.order")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.order")
		}).
		Preload("Contexts", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_contexts.order")
		}).
		Preload("Contexts.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.order")
		}).
		Preload("Contexts.Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.order")
		}).
		First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return session.Quiz{}, errors.Wrapf(ErrQuizNotFound, "quiz %d", quizID)
	}
	if err != nil {
		return session.Quiz{}, errors.Wrapf(err, "load quiz %d", quizID)
	}
	return ToSessionQuiz(quiz), nil
}

// ToSessionQuiz converts a preloaded quiz row into the engine's payload shape.
func ToSessionQuiz(quiz models.Quiz) session.Quiz {
	out := session.Quiz{
		ID:        quiz.ID,
		Title:     quiz.Title,
		Questions: make([]session.Question, len(quiz.Questions)),
		Contexts:  make([]session.Context, len(quiz.Contexts)),
	}
	for i, q := range quiz.Questions {
		out.Questions[i] = toSessionQuestion(q)
	}
	for i, c := range quiz.Contexts {
		ctx := session.Context{
			ID:        c.ID,
			Prompt:    c.Prompt,
			Image:     c.Image,
			Questions: make([]session.Question, len(c.Questions)),
		}
		for j, q := range c.Questions {
			ctx.Questions[j] = toSessionQuestion(q)
		}
		out.Contexts[i] = ctx
	}
	return out
}

func toSessionQuestion(q models.Question) session.Question {
	out := session.Question{
		ID:        q.ID,
		Title:     q.Text,
		Image:     q.Image,
		ContextID: q.ContextID,
		Options:   make([]session.Option, len(q.Options)),
	}
	for i, o := range q.Options {
		out.Options[i] = session.Option{
			ID:        o.ID,
			Title:     o.Text,
			Image:     o.Image,
			IsCorrect: o.IsCorrect,
			Order:     o.Order,
		}
	}
	return out
}
