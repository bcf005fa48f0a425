package models

import (
	"time"

	"gorm.io/gorm"
)

type Quiz struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	UserID      uint           `json:"user_id" gorm:"not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Questions []Question    `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	Contexts  []QuizContext `json:"contexts,omitempty" gorm:"foreignKey:QuizID"`
	Attempts  []Attempt     `json:"attempts,omitempty" gorm:"foreignKey:QuizID"`
}
