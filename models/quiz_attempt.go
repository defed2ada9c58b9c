package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuizQuestionCount is the number of questions in the trivia quiz.
const QuizQuestionCount = 12

type QuizAttempt struct {
	ID                    string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	FurthestQuestionIndex int       `gorm:"not null" json:"furthestQuestionIndex"`
	Completed             bool      `gorm:"not null" json:"completed"`
	VisitorHash           *string   `gorm:"type:varchar(64);index" json:"visitorHash"`
	CreatedAt             time.Time `gorm:"not null" json:"createdAt"`
}

func (q *QuizAttempt) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}
