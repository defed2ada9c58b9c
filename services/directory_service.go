package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wedding-rsvp/models"
	"wedding-rsvp/utils"
)

// DirectoryService owns households and guests. Every mutation that can
// take a guest away from a household removes that household in the same
// transaction once it has no guests left.
type DirectoryService struct {
	DB *gorm.DB
}

func NewDirectoryService(db *gorm.DB) *DirectoryService {
	return &DirectoryService{DB: db}
}

type GuestSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func summarize(g models.Guest) GuestSummary {
	return GuestSummary{ID: g.ID, FirstName: g.FirstName, LastName: g.LastName}
}

type AddGuestInput struct {
	HouseholdID string `json:"householdId" validate:"required"`
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	InvitedBy   string `json:"invitedBy" validate:"required"`
	Role        string `json:"role" validate:"required"`
}

func (in *AddGuestInput) trim() {
	in.HouseholdID = strings.TrimSpace(in.HouseholdID)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.InvitedBy = strings.TrimSpace(in.InvitedBy)
	in.Role = strings.TrimSpace(in.Role)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func lockHousehold(tx *gorm.DB, id string, notFoundMsg string) (*models.Household, error) {
	var h models.Household
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound(notFoundMsg)
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func findGuest(tx *gorm.DB, id string) (*models.Guest, error) {
	var g models.Guest
	err := tx.Where("id = ?", id).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound(MsgGuestNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// removeIfEmpty deletes the household only when no guest references it.
// The check and the delete are one statement.
func removeIfEmpty(tx *gorm.DB, householdID string) (bool, error) {
	res := tx.
		Where("id = ? AND NOT EXISTS (SELECT 1 FROM guests WHERE guests.household_id = ?)", householdID, householdID).
		Delete(&models.Household{})
	return res.RowsAffected > 0, res.Error
}

// ----------------------------------------------------
// ADD GUEST
// ----------------------------------------------------
func (s *DirectoryService) AddGuestToHousehold(ctx context.Context, in AddGuestInput) (*GuestSummary, error) {
	in.trim()
	log.Info().Str("householdId", in.HouseholdID).Msg("➡️ DirectoryService.AddGuestToHousehold")

	bad, err := utils.InvalidFields(in)
	if err != nil {
		return nil, err
	}
	if contains(bad, "householdId") || contains(bad, "firstName") || contains(bad, "lastName") {
		return nil, InvalidArgument("householdId, firstName, and lastName are required")
	}
	if len(bad) > 0 {
		return nil, InvalidArgument("invitedBy and role are required")
	}

	guest := models.Guest{
		HouseholdID: in.HouseholdID,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		InvitedBy:   in.InvitedBy,
		Role:        in.Role,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockHousehold(tx, in.HouseholdID, MsgHouseholdNotFound); err != nil {
			return err
		}
		return tx.Create(&guest).Error
	})
	if err != nil {
		log.Warn().Err(err).Msg("⬅️ DirectoryService.AddGuestToHousehold failed")
		return nil, err
	}

	out := summarize(guest)
	log.Info().Str("guestId", guest.ID).Msg("⬅️ DirectoryService.AddGuestToHousehold ok")
	return &out, nil
}

// ----------------------------------------------------
// DELETE GUEST (+ orphan household)
// ----------------------------------------------------
func (s *DirectoryService) DeleteGuest(ctx context.Context, guestID string) (*GuestSummary, error) {
	guestID = strings.TrimSpace(guestID)
	log.Info().Str("guestId", guestID).Msg("➡️ DirectoryService.DeleteGuest")

	if guestID == "" {
		return nil, InvalidArgument("guestId is required")
	}

	var deleted models.Guest
	var householdRemoved bool
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, err := findGuest(tx, guestID)
		if err != nil {
			return err
		}
		deleted = *g

		if _, err := lockHousehold(tx, g.HouseholdID, MsgHouseholdNotFound); err != nil {
			return err
		}
		if err := tx.Where("id = ?", g.ID).Delete(&models.Guest{}).Error; err != nil {
			return err
		}

		householdRemoved, err = removeIfEmpty(tx, g.HouseholdID)
		return err
	})
	if err != nil {
		log.Warn().Err(err).Msg("⬅️ DirectoryService.DeleteGuest failed")
		return nil, err
	}

	out := summarize(deleted)
	log.Info().
		Str("guestId", deleted.ID).
		Bool("householdRemoved", householdRemoved).
		Msg("⬅️ DirectoryService.DeleteGuest ok")
	return &out, nil
}

// ----------------------------------------------------
// MOVE GUEST (+ orphan source household)
// ----------------------------------------------------
func (s *DirectoryService) MoveGuest(ctx context.Context, guestID, targetHouseholdID string) (*GuestSummary, error) {
	guestID = strings.TrimSpace(guestID)
	targetHouseholdID = strings.TrimSpace(targetHouseholdID)
	log.Info().Str("guestId", guestID).Str("target", targetHouseholdID).Msg("➡️ DirectoryService.MoveGuest")

	if guestID == "" || targetHouseholdID == "" {
		return nil, InvalidArgument("guestId and targetHouseholdId are required")
	}

	var moved models.Guest
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockHousehold(tx, targetHouseholdID, MsgTargetHouseholdNotFound); err != nil {
			return err
		}

		g, err := findGuest(tx, guestID)
		if err != nil {
			return err
		}
		if g.HouseholdID == targetHouseholdID {
			return InvalidArgument(MsgAlreadyInHousehold)
		}
		moved = *g
		previous := g.HouseholdID

		if err := tx.Model(&models.Guest{}).
			Where("id = ?", g.ID).
			Update("household_id", targetHouseholdID).Error; err != nil {
			return err
		}

		var check models.Guest
		if err := tx.Select("id", "household_id").Where("id = ?", g.ID).First(&check).Error; err != nil {
			return err
		}
		if check.HouseholdID != targetHouseholdID {
			log.Error().
				Str("guestId", g.ID).
				Str("target", targetHouseholdID).
				Str("persisted", check.HouseholdID).
				Msg("move guest: update did not persist")
			return Internal(MsgUpdateDidNotPersist, nil)
		}

		// only the source can have become empty
		_, err = removeIfEmpty(tx, previous)
		return err
	})
	if err != nil {
		log.Warn().Err(err).Msg("⬅️ DirectoryService.MoveGuest failed")
		return nil, err
	}

	out := summarize(moved)
	log.Info().Str("guestId", moved.ID).Msg("⬅️ DirectoryService.MoveGuest ok")
	return &out, nil
}

// ----------------------------------------------------
// DELETE HOUSEHOLD (cascade)
// ----------------------------------------------------
func (s *DirectoryService) DeleteHousehold(ctx context.Context, householdID string) error {
	householdID = strings.TrimSpace(householdID)
	log.Info().Str("householdId", householdID).Msg("➡️ DirectoryService.DeleteHousehold")

	if householdID == "" {
		return InvalidArgument("householdId is required")
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockHousehold(tx, householdID, MsgHouseholdNotFound); err != nil {
			return err
		}
		if err := tx.Where("household_id = ?", householdID).Delete(&models.Guest{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", householdID).Delete(&models.Household{}).Error
	})

	log.Info().Err(err).Msg("⬅️ DirectoryService.DeleteHousehold")
	return err
}

// ----------------------------------------------------
// UPDATE HOUSEHOLD
// ----------------------------------------------------
type UpdateHouseholdInput struct {
	HouseholdID  string                 `json:"householdId"`
	Email        utils.Optional[string] `json:"email"`
	InviteStatus utils.Optional[string] `json:"inviteStatus"`
	ResetInvite  bool                   `json:"resetInvite"`
}

func (s *DirectoryService) UpdateHousehold(ctx context.Context, in UpdateHouseholdInput) error {
	in.HouseholdID = strings.TrimSpace(in.HouseholdID)
	log.Info().Str("householdId", in.HouseholdID).Msg("➡️ DirectoryService.UpdateHousehold")

	if in.HouseholdID == "" {
		return InvalidArgument("householdId is required")
	}

	updates := map[string]interface{}{}
	if in.Email.Set {
		if in.Email.Value == nil || strings.TrimSpace(*in.Email.Value) == "" {
			updates["email"] = nil
		} else {
			updates["email"] = strings.TrimSpace(*in.Email.Value)
		}
	}
	if in.InviteStatus.Set {
		if in.InviteStatus.Value == nil || !models.IsValidInviteStatus(*in.InviteStatus.Value) {
			return InvalidArgument("Invalid inviteStatus")
		}
		updates["invite_status"] = *in.InviteStatus.Value
	}
	if in.ResetInvite {
		updates["invite_sent_at"] = nil
	}
	if len(updates) == 0 {
		return InvalidArgument(MsgNoFieldsToUpdate)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockHousehold(tx, in.HouseholdID, MsgHouseholdNotFound); err != nil {
			return err
		}
		err := tx.Model(&models.Household{}).Where("id = ?", in.HouseholdID).Updates(updates).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Conflict("Another household already uses that email")
		}
		return err
	})

	log.Info().Err(err).Int("fields", len(updates)).Msg("⬅️ DirectoryService.UpdateHousehold")
	return err
}

// ----------------------------------------------------
// UPDATE GUEST
// ----------------------------------------------------
type UpdateGuestInput struct {
	GuestID             string                                     `json:"guestId"`
	FirstName           utils.Optional[string]                     `json:"firstName"`
	LastName            utils.Optional[string]                     `json:"lastName"`
	IsAttending         utils.Optional[bool]                       `json:"isAttending"`
	DietaryRequirements utils.Optional[models.DietaryRequirements] `json:"dietaryRequirements"`
	Notes               utils.Optional[string]                     `json:"notes"`
	ResetRsvp           bool                                       `json:"resetRsvp"`
}

func nameUpdate(o utils.Optional[string], column string, updates map[string]interface{}) error {
	if !o.Set {
		return nil
	}
	if o.Value == nil || strings.TrimSpace(*o.Value) == "" {
		return InvalidArgument("firstName and lastName cannot be empty")
	}
	updates[column] = strings.TrimSpace(*o.Value)
	return nil
}

func (s *DirectoryService) UpdateGuest(ctx context.Context, in UpdateGuestInput) error {
	in.GuestID = strings.TrimSpace(in.GuestID)
	log.Info().Str("guestId", in.GuestID).Bool("resetRsvp", in.ResetRsvp).Msg("➡️ DirectoryService.UpdateGuest")

	if in.GuestID == "" {
		return InvalidArgument("guestId is required")
	}

	updates := map[string]interface{}{}
	if err := nameUpdate(in.FirstName, "first_name", updates); err != nil {
		return err
	}
	if err := nameUpdate(in.LastName, "last_name", updates); err != nil {
		return err
	}
	if in.IsAttending.Set && !in.ResetRsvp {
		if in.IsAttending.Value == nil {
			updates["is_attending"] = nil
		} else {
			updates["is_attending"] = *in.IsAttending.Value
		}
	}
	if in.DietaryRequirements.Set && !in.ResetRsvp {
		raw, err := models.EncodeDietary(in.DietaryRequirements.Value)
		if err != nil {
			return InvalidArgument(err.Error())
		}
		if raw == nil {
			updates["dietary_requirements"] = nil
		} else {
			updates["dietary_requirements"] = raw
		}
	}
	if in.Notes.Set {
		if in.Notes.Value == nil || strings.TrimSpace(*in.Notes.Value) == "" {
			updates["notes"] = nil
		} else {
			updates["notes"] = strings.TrimSpace(*in.Notes.Value)
		}
	}

	// reset wins over anything passed for the same columns, valid or not
	if in.ResetRsvp {
		updates["is_attending"] = nil
		updates["dietary_requirements"] = nil
		updates["rsvp_completed_at"] = nil
	}
	if len(updates) == 0 {
		return InvalidArgument(MsgNoFieldsToUpdate)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findGuest(tx, in.GuestID); err != nil {
			return err
		}
		return tx.Model(&models.Guest{}).Where("id = ?", in.GuestID).Updates(updates).Error
	})

	log.Info().Err(err).Int("fields", len(updates)).Msg("⬅️ DirectoryService.UpdateGuest")
	return err
}

// ----------------------------------------------------
// CREATE HOUSEHOLD (with its first guests)
// ----------------------------------------------------
type NewGuestInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	InvitedBy string `json:"invitedBy" validate:"required"`
	Role      string `json:"role" validate:"required"`
}

type CreateHouseholdInput struct {
	Email        *string         `json:"email"`
	InviteStatus string          `json:"inviteStatus" validate:"omitempty,invitestatus"`
	Guests       []NewGuestInput `json:"guests" validate:"required,min=1,dive"`
}

func (s *DirectoryService) CreateHousehold(ctx context.Context, in CreateHouseholdInput) (*models.Household, error) {
	log.Info().Int("guests", len(in.Guests)).Msg("➡️ DirectoryService.CreateHousehold")

	in.InviteStatus = strings.TrimSpace(in.InviteStatus)
	for i := range in.Guests {
		g := &in.Guests[i]
		g.FirstName = strings.TrimSpace(g.FirstName)
		g.LastName = strings.TrimSpace(g.LastName)
		g.InvitedBy = strings.TrimSpace(g.InvitedBy)
		g.Role = strings.TrimSpace(g.Role)
	}

	bad, err := utils.InvalidFields(in)
	if err != nil {
		return nil, err
	}
	switch {
	case contains(bad, "guests"):
		return nil, InvalidArgument("At least one guest is required")
	case contains(bad, "inviteStatus"):
		return nil, InvalidArgument("Invalid inviteStatus")
	case len(bad) > 0:
		return nil, InvalidArgument("firstName, lastName, invitedBy, and role are required for every guest")
	}

	token, err := utils.GenerateSecureToken(16)
	if err != nil {
		return nil, err
	}

	household := models.Household{UniqueToken: token, InviteStatus: in.InviteStatus}
	if in.Email != nil && strings.TrimSpace(*in.Email) != "" {
		email := strings.TrimSpace(*in.Email)
		household.Email = &email
	}
	for _, g := range in.Guests {
		household.Guests = append(household.Guests, models.Guest{
			FirstName: g.FirstName,
			LastName:  g.LastName,
			InvitedBy: g.InvitedBy,
			Role:      g.Role,
		})
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&household).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, Conflict("Another household already uses that email")
	}
	if err != nil {
		log.Warn().Err(err).Msg("⬅️ DirectoryService.CreateHousehold failed")
		return nil, err
	}

	log.Info().Str("householdId", household.ID).Msg("⬅️ DirectoryService.CreateHousehold ok")
	return &household, nil
}

// ----------------------------------------------------
// ADMIN DATA
// ----------------------------------------------------
type DirectoryStats struct {
	TotalGuests     int `json:"totalGuests"`
	TotalHouseholds int `json:"totalHouseholds"`
	InvitesSent     int `json:"invitesSent"`
	RSVPCompleted   int `json:"rsvpCompleted"`
	Attending       int `json:"attending"`
	Declined        int `json:"declined"`
	Pending         int `json:"pending"`
	NoEmail         int `json:"noEmail"`
}

type AdminData struct {
	Households []models.Household `json:"households"`
	Stats      DirectoryStats     `json:"stats"`
}

func orderGuests(db *gorm.DB) *gorm.DB {
	return db.Order("guests.created_at ASC").Order("guests.id ASC")
}

func (s *DirectoryService) AdminData(ctx context.Context) (*AdminData, error) {
	log.Info().Msg("➡️ DirectoryService.AdminData")

	var households []models.Household
	if err := s.DB.WithContext(ctx).
		Preload("Guests", orderGuests).
		Order("created_at DESC").
		Find(&households).Error; err != nil {
		return nil, err
	}

	data := &AdminData{Households: households, Stats: ComputeStats(households)}
	log.Info().Int("households", len(households)).Msg("⬅️ DirectoryService.AdminData ok")
	return data, nil
}

// ComputeStats tallies the dashboard counters over loaded households.
func ComputeStats(households []models.Household) DirectoryStats {
	var st DirectoryStats
	st.TotalHouseholds = len(households)
	for _, h := range households {
		if h.InviteSentAt != nil {
			st.InvitesSent++
		}
		if !h.HasEmail() {
			st.NoEmail++
		}
		for _, g := range h.Guests {
			st.TotalGuests++
			if g.RSVPCompletedAt != nil {
				st.RSVPCompleted++
			}
			switch {
			case g.IsAttending == nil:
				st.Pending++
			case *g.IsAttending:
				st.Attending++
			default:
				st.Declined++
			}
		}
	}
	return st
}
