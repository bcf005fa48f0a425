package models

import (
	"time"

	"gorm.io/gorm"
)

const AttemptInProgress = "in_progress"

// Attempt is one learner's pass through a quiz.
type Attempt struct {
	ID        string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	QuizID    uint           `json:"quiz_id" gorm:"not null;index"`
	UserID    uint           `json:"user_id" gorm:"not null;index"`
	Status    string         `json:"status" gorm:"not null;default:'in_progress'"`
	StartedAt time.Time      `json:"started_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Answers []AttemptAnswer `json:"answers,omitempty" gorm:"foreignKey:AttemptID"`
}
