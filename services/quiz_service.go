package services

import (
	"context"
	"math"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"wedding-rsvp/models"
	"wedding-rsvp/utils"
)

type QuizService struct {
	DB   *gorm.DB
	Salt string
}

func NewQuizService(db *gorm.DB, salt string) *QuizService {
	return &QuizService{DB: db, Salt: salt}
}

type QuizStats struct {
	TotalAttempts           int         `json:"totalAttempts"`
	Completed               int         `json:"completed"`
	CompletionRate          int         `json:"completionRate"`
	UniqueVisitors          int         `json:"uniqueVisitors"`
	ByFurthestQuestionIndex map[int]int `json:"byFurthestQuestionIndex"`
	AttemptsPerVisitor      map[int]int `json:"attemptsPerVisitor"`
}

// RecordAttempt stores one anonymous attempt. The visitor hash is only
// kept when both a client ip and a salt are available.
func (s *QuizService) RecordAttempt(ctx context.Context, furthestQuestionIndex int, completed bool, clientIP string) error {
	if furthestQuestionIndex < 0 || furthestQuestionIndex >= models.QuizQuestionCount {
		return InvalidArgument("Invalid furthestQuestionIndex")
	}

	attempt := models.QuizAttempt{
		FurthestQuestionIndex: furthestQuestionIndex,
		Completed:             completed,
	}
	if clientIP != "" && s.Salt != "" {
		hash := utils.HashVisitor(clientIP, s.Salt)
		attempt.VisitorHash = &hash
	}

	err := s.DB.WithContext(ctx).Create(&attempt).Error
	log.Debug().Err(err).Int("index", furthestQuestionIndex).Bool("completed", completed).Msg("quiz attempt recorded")
	return err
}

func (s *QuizService) Stats(ctx context.Context) (*QuizStats, error) {
	var attempts []models.QuizAttempt
	if err := s.DB.WithContext(ctx).Find(&attempts).Error; err != nil {
		return nil, err
	}
	return ComputeQuizStats(attempts), nil
}

func ComputeQuizStats(attempts []models.QuizAttempt) *QuizStats {
	st := &QuizStats{
		TotalAttempts:           len(attempts),
		ByFurthestQuestionIndex: map[int]int{},
		AttemptsPerVisitor:      map[int]int{},
	}

	perVisitor := map[string]int{}
	for _, a := range attempts {
		if a.Completed {
			st.Completed++
		}
		st.ByFurthestQuestionIndex[a.FurthestQuestionIndex]++
		if a.VisitorHash != nil && *a.VisitorHash != "" {
			perVisitor[*a.VisitorHash]++
		}
	}

	if st.TotalAttempts > 0 {
		st.CompletionRate = int(math.Round(float64(st.Completed) / float64(st.TotalAttempts) * 100))
	}
	st.UniqueVisitors = len(perVisitor)
	for _, n := range perVisitor {
		st.AttemptsPerVisitor[n]++
	}
	return st
}
