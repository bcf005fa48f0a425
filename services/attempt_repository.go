package services

import (
	"context"

	"quizengine/models"
	"quizengine/session"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// AttemptRepository persists attempts and their committed answers.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.Attempt) error
	Get(ctx context.Context, attemptID string) (*models.Attempt, error)
	RecordAnswer(ctx context.Context, attemptID string, answer session.Answer) error
	Answers(ctx context.Context, attemptID string) ([]session.Answer, error)
}

type GormAttemptRepository struct {
	db *gorm.DB
}

func NewGormAttemptRepository(db *gorm.DB) *GormAttemptRepository {
	return &GormAttemptRepository{db: db}
}

func (r *GormAttemptRepository) Create(ctx context.Context, attempt *models.Attempt) error {
	if err := r.db.WithContext(ctx).Create(attempt).Error; err != nil {
		return errors.Wrap(err, "create attempt")
	}
	return nil
}

func (r *GormAttemptRepository) Get(ctx context.Context, attemptID string) (*models.Attempt, error) {
	var attempt models.Attempt
	err := r.db.WithContext(ctx).Where("id = ?", attemptID).First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(ErrAttemptNotFound, "attempt %s", attemptID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get attempt %s", attemptID)
	}
	return &attempt, nil
}

func (r *GormAttemptRepository) RecordAnswer(ctx context.Context, attemptID string, answer session.Answer) error {
	row := models.AttemptAnswer{
		AttemptID:   attemptID,
		QuestionID:  answer.QuestionID,
		OptionID:    answer.OptionID,
		UserID:      answer.UserID,
		CommittedAt: answer.CommittedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return errors.Wrapf(err, "record answer for question %d", answer.QuestionID)
	}
	return nil
}

func (r *GormAttemptRepository) Answers(ctx context.Context, attemptID string) ([]session.Answer, error) {
	var rows []models.AttemptAnswer
	if err := r.db.WithContext(ctx).Where("attempt_id = ?", attemptID).
		Order("committed_at").
		Find(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "list answers of attempt %s", attemptID)
	}

	answers := make([]session.Answer, len(rows))
	for i, row := range rows {
		answers[i] = session.Answer{
			QuestionID:  row.QuestionID,
			OptionID:    row.OptionID,
			UserID:      row.UserID,
			CommittedAt: row.CommittedAt,
		}
	}
	return answers, nil
}
