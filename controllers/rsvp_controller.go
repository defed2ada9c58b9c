package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"wedding-rsvp/models"
	"wedding-rsvp/services"
	"wedding-rsvp/utils"
)

type RSVPController struct {
	RSVP *services.RSVPService
}

func NewRSVPController(svc *services.RSVPService) *RSVPController {
	return &RSVPController{RSVP: svc}
}

// ----------------------------------------------------------------------
// GET /api/rsvp/:token
// ----------------------------------------------------------------------
func (r *RSVPController) GetByToken(c *gin.Context) {
	view, err := r.RSVP.LookupHouseholdByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err, "Failed to fetch RSVP data")
		return
	}
	c.JSON(http.StatusOK, view)
}

// ----------------------------------------------------------------------
// POST /api/rsvp/:token
// ----------------------------------------------------------------------
func (r *RSVPController) Submit(c *gin.Context) {
	// a body that is not an object with a responses array leaves
	// responses nil; the service reports it after checking the token
	var payload struct {
		Responses json.RawMessage `json:"responses"`
	}
	var responses []services.RSVPResponse
	if err := c.ShouldBindJSON(&payload); err == nil && len(payload.Responses) > 0 && payload.Responses[0] == '[' {
		if err := json.Unmarshal(payload.Responses, &responses); err != nil {
			responses = nil
		} else if responses == nil {
			responses = []services.RSVPResponse{}
		}
	}

	if err := r.RSVP.SubmitRSVP(c.Request.Context(), c.Param("token"), responses); err != nil {
		respondError(c, err, "Failed to submit RSVP")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "RSVP submitted successfully"})
}

// ----------------------------------------------------------------------
// GET /api/rsvp/lookup?firstName=&lastName=
// ----------------------------------------------------------------------
func (r *RSVPController) Lookup(c *gin.Context) {
	token, err := r.RSVP.LookupGuestByName(c.Request.Context(), c.Query("firstName"), c.Query("lastName"))
	if err != nil {
		respondError(c, err, "Failed to look up guest")
		return
	}

	next, _ := models.RSVPStateLookup.Transition(models.RSVPEventNameFound)
	c.JSON(http.StatusOK, gin.H{"token": token, "message": "Guest found", "state": next})
}

// ----------------------------------------------------------------------
// GET /api/rsvp/view?token=
// ----------------------------------------------------------------------
func (r *RSVPController) View(c *gin.Context) {
	state, view, err := r.RSVP.ResolveView(c.Request.Context(), c.Query("token"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"state": state, "error": "Failed to fetch RSVP data"})
		return
	}

	body := gin.H{"state": state}
	if view != nil {
		body["household"] = view.Household
		body["guests"] = view.Guests
	}
	c.JSON(http.StatusOK, body)
}
