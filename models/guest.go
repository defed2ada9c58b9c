package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	InvitedByBride = "Bride"
	InvitedByGroom = "Groom"
)

// Guest roles as they appear on the guest list.
var GuestRoles = []string{"B&G", "Family", "Extended Family", "Family Friend", "Friend", "Work"}

type Guest struct {
	ID          string `gorm:"type:varchar(36);primaryKey" json:"id"`
	HouseholdID string `gorm:"type:varchar(36);not null;index" json:"householdId"`

	FirstName string `gorm:"type:varchar(255);not null" json:"firstName"`
	LastName  string `gorm:"type:varchar(255);not null" json:"lastName"`
	InvitedBy string `gorm:"type:varchar(32);not null" json:"invitedBy"`
	Role      string `gorm:"type:varchar(64);not null" json:"role"`

	// nil until the household responds
	IsAttending         *bool          `json:"isAttending"`
	DietaryRequirements datatypes.JSON `json:"dietaryRequirements"`
	Notes               *string        `gorm:"type:text" json:"notes"`
	RSVPCompletedAt     *time.Time     `gorm:"column:rsvp_completed_at" json:"rsvpCompletedAt"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (g *Guest) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

func (g *Guest) FullName() string {
	return g.FirstName + " " + g.LastName
}

// AttendanceLabel renders the tri-state attendance for previews.
func (g *Guest) AttendanceLabel() string {
	switch {
	case g.IsAttending == nil:
		return "not responded"
	case *g.IsAttending:
		return "attending"
	default:
		return "declined"
	}
}

// Dietary decodes the stored dietary column. A NULL column yields nil.
func (g *Guest) Dietary() (*DietaryRequirements, error) {
	return DecodeDietary(g.DietaryRequirements)
}
