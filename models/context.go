package models

import (
	"time"

	"gorm.io/gorm"
)

// QuizContext is a shared reading passage. Its questions point back at it through ContextID.
type QuizContext struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	QuizID    uint           `json:"quiz_id" gorm:"not null;index"`
	Prompt    string         `json:"prompt" gorm:"not null"`
	Image     string         `json:"image"`
	Order     int            `json:"order" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:ContextID"`
}
