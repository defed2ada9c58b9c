package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InviteStatusYes      = "Yes"
	InviteStatusMaybe    = "Maybe"
	InviteStatusUnlikely = "Yes - Unlikely to Come"
)

// InviteStatuses lists every accepted invite_status value.
var InviteStatuses = []string{InviteStatusYes, InviteStatusMaybe, InviteStatusUnlikely}

func IsValidInviteStatus(s string) bool {
	for _, v := range InviteStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Household groups the guests that share one invitation and one RSVP token.
// A household never exists without at least one guest.
type Household struct {
	ID               string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email            *string    `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	UniqueToken      string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"uniqueToken"`
	InviteStatus     string     `gorm:"type:varchar(64);not null;default:Yes" json:"inviteStatus"`
	InviteSentAt     *time.Time `json:"inviteSentAt"`
	LastUpdateSentAt *time.Time `json:"lastUpdateSentAt"`
	CreatedAt        time.Time  `gorm:"not null" json:"createdAt"`

	Guests []Guest `gorm:"foreignKey:HouseholdID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"guests"`
}

func (h *Household) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.InviteStatus == "" {
		h.InviteStatus = InviteStatusYes
	}
	return nil
}

// HasEmail reports whether the household can be mailed.
func (h *Household) HasEmail() bool {
	return h.Email != nil && *h.Email != ""
}

// FirstNames returns guest first names in stored order, used for email greetings.
func (h *Household) FirstNames() []string {
	out := make([]string, 0, len(h.Guests))
	for _, g := range h.Guests {
		out = append(out, g.FirstName)
	}
	return out
}
