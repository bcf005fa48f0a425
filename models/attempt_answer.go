package models

import (
	"time"
)

// AttemptAnswer is a committed answer. The unique index keeps the database write-once too.
type AttemptAnswer struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	AttemptID   string    `json:"attempt_id" gorm:"not null;type:varchar(36);uniqueIndex:idx_attempt_question"`
	QuestionID  uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_attempt_question"`
	OptionID    uint      `json:"option_id" gorm:"not null"`
	UserID      uint      `json:"user_id" gorm:"not null"`
	CommittedAt time.Time `json:"committed_at" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}
