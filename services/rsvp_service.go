package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"wedding-rsvp/models"
)

// RSVPService serves the guest-facing flow. The household token is the
// only credential: it authorises reads and writes for that household alone.
type RSVPService struct {
	DB *gorm.DB
}

func NewRSVPService(db *gorm.DB) *RSVPService {
	return &RSVPService{DB: db}
}

type RSVPHousehold struct {
	ID    string  `json:"id"`
	Email *string `json:"email"`
}

type RSVPGuest struct {
	ID                  string                      `json:"id"`
	FirstName           string                      `json:"firstName"`
	LastName            string                      `json:"lastName"`
	IsAttending         *bool                       `json:"isAttending"`
	DietaryRequirements *models.DietaryRequirements `json:"dietaryRequirements"`
	RSVPCompletedAt     *time.Time                  `json:"rsvpCompletedAt"`
}

type RSVPView struct {
	Household RSVPHousehold `json:"household"`
	Guests    []RSVPGuest   `json:"guests"`
}

type RSVPResponse struct {
	GuestID             string                      `json:"guestId"`
	IsAttending         *bool                       `json:"isAttending"`
	DietaryRequirements *models.DietaryRequirements `json:"dietaryRequirements"`
}

func (s *RSVPService) householdByToken(tx *gorm.DB, token string) (*models.Household, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, NotFound(MsgInvalidRSVPLink)
	}

	var h models.Household
	err := tx.Preload("Guests", orderGuests).Where("unique_token = ?", token).First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound(MsgInvalidRSVPLink)
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// ----------------------------------------------------
// LOOKUP BY TOKEN
// ----------------------------------------------------
func (s *RSVPService) LookupHouseholdByToken(ctx context.Context, token string) (*RSVPView, error) {
	h, err := s.householdByToken(s.DB.WithContext(ctx), token)
	if err != nil {
		return nil, err
	}

	view := &RSVPView{
		Household: RSVPHousehold{ID: h.ID, Email: h.Email},
		Guests:    make([]RSVPGuest, 0, len(h.Guests)),
	}
	for _, g := range h.Guests {
		dietary, err := g.Dietary()
		if err != nil {
			// unreadable column: show the guest with an empty selection
			log.Warn().Err(err).Str("guestId", g.ID).Msg("bad dietary_requirements value")
			dietary = nil
		}
		view.Guests = append(view.Guests, RSVPGuest{
			ID:                  g.ID,
			FirstName:           g.FirstName,
			LastName:            g.LastName,
			IsAttending:         g.IsAttending,
			DietaryRequirements: dietary,
			RSVPCompletedAt:     g.RSVPCompletedAt,
		})
	}
	return view, nil
}

// ResolveView maps a token onto the RSVP page state: form for a live
// token, lookup for a missing or unknown one, error otherwise.
func (s *RSVPService) ResolveView(ctx context.Context, token string) (models.RSVPViewState, *RSVPView, error) {
	state := models.RSVPStateLoading

	view, err := s.LookupHouseholdByToken(ctx, token)
	switch {
	case err == nil:
		state, _ = state.Transition(models.RSVPEventTokenValid)
		return state, view, nil
	case KindOf(err) == KindNotFound:
		state, _ = state.Transition(models.RSVPEventTokenInvalid)
		return state, nil, nil
	default:
		state, _ = state.Transition(models.RSVPEventUnexpected)
		return state, nil, err
	}
}

// ----------------------------------------------------
// LOOKUP BY NAME
// ----------------------------------------------------

// LookupGuestByName matches both names exactly, ignoring case and
// surrounding space. Matches in more than one household are refused
// rather than resolved to an arbitrary one.
func (s *RSVPService) LookupGuestByName(ctx context.Context, firstName, lastName string) (string, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	log.Info().Str("firstName", firstName).Str("lastName", lastName).Msg("➡️ RSVPService.LookupGuestByName")

	if firstName == "" || lastName == "" {
		return "", InvalidArgument(MsgNamesRequired)
	}

	db := s.DB.WithContext(ctx)

	var householdIDs []string
	if err := db.Model(&models.Guest{}).
		Where("LOWER(first_name) = LOWER(?) AND LOWER(last_name) = LOWER(?)", firstName, lastName).
		Distinct("household_id").
		Pluck("household_id", &householdIDs).Error; err != nil {
		return "", err
	}

	switch len(householdIDs) {
	case 0:
		log.Info().Msg("⬅️ RSVPService.LookupGuestByName no match")
		return "", NotFound(MsgNameNotFound)
	case 1:
	default:
		log.Warn().Int("households", len(householdIDs)).Msg("⬅️ RSVPService.LookupGuestByName ambiguous")
		return "", Conflict(MsgNameAmbiguous)
	}

	var h models.Household
	if err := db.Select("id", "unique_token").Where("id = ?", householdIDs[0]).First(&h).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", NotFound(MsgNameNotFound)
		}
		return "", err
	}

	log.Info().Str("householdId", h.ID).Msg("⬅️ RSVPService.LookupGuestByName ok")
	return h.UniqueToken, nil
}

// ----------------------------------------------------
// SUBMIT
// ----------------------------------------------------

// SubmitRSVP records attendance for guests of the token's household.
// A nil responses slice means the body did not carry a responses array.
// Nothing is written unless every response is valid.
func (s *RSVPService) SubmitRSVP(ctx context.Context, token string, responses []RSVPResponse) error {
	log.Info().Int("responses", len(responses)).Msg("➡️ RSVPService.SubmitRSVP")

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		h, err := s.householdByToken(tx, token)
		if err != nil {
			return err
		}
		if responses == nil {
			return InvalidArgument(MsgInvalidRequestBody)
		}

		members := make(map[string]bool, len(h.Guests))
		for _, g := range h.Guests {
			members[g.ID] = true
		}

		type pending struct {
			guestID string
			fields  map[string]interface{}
		}
		now := time.Now().UTC()
		updates := make([]pending, 0, len(responses))

		for _, r := range responses {
			if !members[r.GuestID] {
				log.Warn().Str("guestId", r.GuestID).Str("householdId", h.ID).Msg("rsvp for guest outside household")
				return InvalidArgument(MsgInvalidGuestID)
			}
			if r.IsAttending == nil {
				return InvalidArgument(MsgInvalidRequestBody)
			}

			dietary, err := models.EncodeDietary(r.DietaryRequirements)
			if err != nil {
				return InvalidArgument(err.Error())
			}

			fields := map[string]interface{}{
				"is_attending":         *r.IsAttending,
				"dietary_requirements": nil,
				"rsvp_completed_at":    now,
			}
			if dietary != nil {
				fields["dietary_requirements"] = dietary
			}
			updates = append(updates, pending{guestID: r.GuestID, fields: fields})
		}

		for _, u := range updates {
			if err := tx.Model(&models.Guest{}).Where("id = ?", u.guestID).Updates(u.fields).Error; err != nil {
				return err
			}
		}
		return nil
	})

	log.Info().Err(err).Msg("⬅️ RSVPService.SubmitRSVP")
	return err
}
