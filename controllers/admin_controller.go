package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"wedding-rsvp/services"
	"wedding-rsvp/utils"
)

// AdminController serves the dashboard. Every route sits behind AdminAuth.
type AdminController struct {
	Directory *services.DirectoryService
	Email     *services.EmailService
	Quiz      *services.QuizService
}

func NewAdminController(dir *services.DirectoryService, email *services.EmailService, quiz *services.QuizService) *AdminController {
	return &AdminController{Directory: dir, Email: email, Quiz: quiz}
}

type guestIDPayload struct {
	GuestID string `json:"guestId"`
}

type householdIDPayload struct {
	HouseholdID string `json:"householdId"`
}

type moveGuestPayload struct {
	GuestID           string `json:"guestId"`
	TargetHouseholdID string `json:"targetHouseholdId"`
}

// ----------------------------------------------------------------------
// GET /api/admin/data
// ----------------------------------------------------------------------
func (a *AdminController) GetData(c *gin.Context) {
	data, err := a.Directory.AdminData(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch data")
		return
	}
	c.JSON(http.StatusOK, data)
}

// ----------------------------------------------------------------------
// POST /api/admin/add-guest
// ----------------------------------------------------------------------
func (a *AdminController) AddGuest(c *gin.Context) {
	var payload services.AddGuestInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		badBody(c)
		return
	}

	guest, err := a.Directory.AddGuestToHousehold(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err, "Failed to add guest")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"guest": guest})
}

// ----------------------------------------------------------------------
// POST /api/admin/create-household
// ----------------------------------------------------------------------
func (a *AdminController) CreateHousehold(c *gin.Context) {
	var payload services.CreateHouseholdInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		badBody(c)
		return
	}

	household, err := a.Directory.CreateHousehold(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err, "Failed to create household")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"household": household})
}

// ----------------------------------------------------------------------
// POST /api/admin/delete-guest
// ----------------------------------------------------------------------
func (a *AdminController) DeleteGuest(c *gin.Context) {
	var payload guestIDPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badBody(c)
		return
	}

	deleted, err := a.Directory.DeleteGuest(c.Request.Context(), payload.GuestID)
	if err != nil {
		respondError(c, err, "Failed to delete guest")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deletedGuest": deleted})
}

// ----------------------------------------------------------------------
// POST /api/admin/delete-household
// ----------------------------------------------------------------------
func (a *AdminController) DeleteHousehold(c *gin.Context) {
	var payload householdIDPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badBody(c)
		return
	}

	if err := a.Directory.DeleteHousehold(c.Request.Context(), payload.HouseholdID); err != nil {
		respondError(c, err, "Failed to delete household")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, nil)
}

// ----------------------------------------------------------------------
// POST /api/admin/move-guest
// ----------------------------------------------------------------------
func (a *AdminController) MoveGuest(c *gin.Context) {
	var payload moveGuestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badBody(c)
		return
	}

	guest, err := a.Directory.MoveGuest(c.Request.Context(), payload.GuestID, payload.TargetHouseholdID)
	if err != nil {
		respondError(c, err, "Failed to move guest")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"guest": guest})
}

// ----------------------------------------------------------------------
// POST /api/admin/update-guest
// ----------------------------------------------------------------------
func (a *AdminController) UpdateGuest(c *gin.Context) {
	var payload services.UpdateGuestInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		badBody(c)
		return
	}

	if err := a.Directory.UpdateGuest(c.Request.Context(), payload); err != nil {
		respondError(c, err, "Failed to update guest")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, nil)
}

// ----------------------------------------------------------------------
// POST /api/admin/update-household
// ----------------------------------------------------------------------
func (a *AdminController) UpdateHousehold(c *gin.Context) {
	var payload services.UpdateHouseholdInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		badBody(c)
		return
	}

	if err := a.Directory.UpdateHousehold(c.Request.Context(), payload); err != nil {
		respondError(c, err, "Failed to update household")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, nil)
}

// ----------------------------------------------------------------------
// POST /api/admin/send-single
// ----------------------------------------------------------------------
func (a *AdminController) SendSingle(c *gin.Context) {
	var payload householdIDPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badBody(c)
		return
	}

	email, err := a.Email.SendSingle(c.Request.Context(), payload.HouseholdID)
	if err != nil {
		respondError(c, err, "Failed to send invitation")
		return
	}
	log.Info().Str("email", email).Msg("✅ single invite sent")
	utils.JSONSuccess(c, http.StatusOK, gin.H{"email": email})
}

// ----------------------------------------------------------------------
// GET /api/admin/quiz-stats
// ----------------------------------------------------------------------
func (a *AdminController) QuizStats(c *gin.Context) {
	stats, err := a.Quiz.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch quiz stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
