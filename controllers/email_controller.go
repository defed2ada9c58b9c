package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wedding-rsvp/services"
)

type EmailController struct {
	Email *services.EmailService
}

func NewEmailController(svc *services.EmailService) *EmailController {
	return &EmailController{Email: svc}
}

// POST /api/email/send-invites
func (e *EmailController) SendInvites(c *gin.Context) {
	var payload services.BulkInviteInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		badBody(c)
		return
	}

	if payload.DryRun {
		preview, err := e.Email.PreviewInvites(c.Request.Context(), payload)
		if err != nil {
			respondError(c, err, "Failed to send invitations")
			return
		}
		c.JSON(http.StatusOK, preview)
		return
	}

	result, err := e.Email.SendInvites(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err, "Failed to send invitations")
		return
	}
	c.JSON(http.StatusOK, result)
}

// POST /api/email/send-update
func (e *EmailController) SendUpdate(c *gin.Context) {
	var payload services.BulkUpdateInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		badBody(c)
		return
	}

	if payload.DryRun {
		preview, err := e.Email.PreviewUpdates(c.Request.Context(), payload)
		if err != nil {
			respondError(c, err, "Failed to send updates")
			return
		}
		c.JSON(http.StatusOK, preview)
		return
	}

	result, err := e.Email.SendUpdates(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err, "Failed to send updates")
		return
	}
	c.JSON(http.StatusOK, result)
}
