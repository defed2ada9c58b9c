package controllers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"wedding-rsvp/models"
	"wedding-rsvp/services"
	"wedding-rsvp/utils"
)

type QuizController struct {
	Quiz *services.QuizService
}

func NewQuizController(svc *services.QuizService) *QuizController {
	return &QuizController{Quiz: svc}
}

// POST /api/quiz/attempt
func (q *QuizController) RecordAttempt(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		badBody(c)
		return
	}

	// JSON numbers decode as float64; only whole numbers are indexes
	idx, ok := payload["furthestQuestionIndex"].(float64)
	if !ok || idx != math.Trunc(idx) {
		utils.JSONError(c, http.StatusBadRequest, "Invalid furthestQuestionIndex")
		return
	}
	completed, ok := payload["completed"].(bool)
	if !ok {
		if idx < 0 || idx >= models.QuizQuestionCount {
			utils.JSONError(c, http.StatusBadRequest, "Invalid furthestQuestionIndex")
			return
		}
		utils.JSONError(c, http.StatusBadRequest, "Invalid completed")
		return
	}

	ip := utils.ClientIP(c.Request.Header)
	if err := q.Quiz.RecordAttempt(c.Request.Context(), int(idx), completed, ip); err != nil {
		respondError(c, err, "Failed to record attempt")
		return
	}
	c.Status(http.StatusNoContent)
}
