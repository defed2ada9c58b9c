package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"wedding-rsvp/models"
	"wedding-rsvp/utils"
)

// Mailer delivers one message. Implementations: utils.SMTPMailer, utils.MockMailer.
type Mailer interface {
	Send(ctx context.Context, msg utils.EmailMessage) error
}

// EmailService selects households for invitation and update mail, sends
// to each in turn and stamps the household on success. A failed send is
// reported and skipped; the household stays eligible for the next run.
type EmailService struct {
	DB      *gorm.DB
	Mailer  Mailer
	BaseURL string

	now func() time.Time
}

func NewEmailService(db *gorm.DB, mailer Mailer, baseURL string) *EmailService {
	return &EmailService{
		DB:      db,
		Mailer:  mailer,
		BaseURL: strings.TrimRight(baseURL, "/"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

type HouseholdPreview struct {
	Email        string   `json:"email"`
	InviteStatus string   `json:"inviteStatus"`
	Guests       []string `json:"guests"`
}

type DryRunResult struct {
	DryRun     bool               `json:"dryRun"`
	Count      int                `json:"count"`
	Households []HouseholdPreview `json:"households"`
}

type SendResult struct {
	Email   string `json:"email"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type BulkSendResult struct {
	Success bool         `json:"success"`
	Sent    int          `json:"sent"`
	Failed  int          `json:"failed"`
	Results []SendResult `json:"results"`
}

type BulkInviteInput struct {
	InviteStatus string `json:"inviteStatus"`
	DryRun       bool   `json:"dryRun"`
}

type BulkUpdateInput struct {
	Subject         string `json:"subject"`
	Message         string `json:"message"`
	IncludeRsvpLink *bool  `json:"includeRsvpLink"`
	OnlyConfirmed   bool   `json:"onlyConfirmed"`
	InviteStatus    string `json:"inviteStatus"`
	DryRun          bool   `json:"dryRun"`
}

func withEmail(db *gorm.DB) *gorm.DB {
	return db.Where("email IS NOT NULL AND email <> ''")
}

// ----------------------------------------------------
// SELECTORS
// ----------------------------------------------------

// InviteCandidates are households never invited that have an email.
func (s *EmailService) InviteCandidates(ctx context.Context, inviteStatus string) ([]models.Household, error) {
	q := s.DB.WithContext(ctx).
		Preload("Guests", orderGuests).
		Scopes(withEmail).
		Where("invite_sent_at IS NULL")
	if status := strings.TrimSpace(inviteStatus); status != "" {
		q = q.Where("invite_status = ?", status)
	}

	var out []models.Household
	err := q.Order("created_at ASC").Find(&out).Error
	return out, err
}

// UpdateCandidates are invited households with an email, optionally only
// those with at least one guest attending.
func (s *EmailService) UpdateCandidates(ctx context.Context, inviteStatus string, onlyConfirmed bool) ([]models.Household, error) {
	q := s.DB.WithContext(ctx).
		Preload("Guests", orderGuests).
		Scopes(withEmail).
		Where("invite_sent_at IS NOT NULL")
	if status := strings.TrimSpace(inviteStatus); status != "" {
		q = q.Where("invite_status = ?", status)
	}
	if onlyConfirmed {
		q = q.Where("EXISTS (SELECT 1 FROM guests WHERE guests.household_id = households.id AND guests.is_attending = ?)", true)
	}

	var out []models.Household
	err := q.Order("created_at ASC").Find(&out).Error
	return out, err
}

func preview(households []models.Household, guestLabel func(models.Guest) string) *DryRunResult {
	out := &DryRunResult{DryRun: true, Count: len(households), Households: make([]HouseholdPreview, 0, len(households))}
	for _, h := range households {
		p := HouseholdPreview{InviteStatus: h.InviteStatus, Guests: make([]string, 0, len(h.Guests))}
		if h.Email != nil {
			p.Email = *h.Email
		}
		for _, g := range h.Guests {
			p.Guests = append(p.Guests, guestLabel(g))
		}
		out.Households = append(out.Households, p)
	}
	return out
}

// sendEach mails every household in order and stamps column on success.
func (s *EmailService) sendEach(
	ctx context.Context,
	households []models.Household,
	column string,
	build func(h models.Household) (utils.EmailMessage, error),
) *BulkSendResult {
	result := &BulkSendResult{Success: true, Results: make([]SendResult, 0, len(households))}

	for _, h := range households {
		email := *h.Email
		err := s.sendOne(ctx, h, column, build)
		if err != nil {
			log.Error().Err(err).Str("email", email).Msg("❌ bulk send failed for household")
			result.Failed++
			result.Results = append(result.Results, SendResult{Email: email, Success: false, Error: err.Error()})
			continue
		}
		result.Sent++
		result.Results = append(result.Results, SendResult{Email: email, Success: true})
	}
	return result
}

func (s *EmailService) sendOne(
	ctx context.Context,
	h models.Household,
	column string,
	build func(h models.Household) (utils.EmailMessage, error),
) error {
	msg, err := build(h)
	if err != nil {
		return err
	}
	if err := s.Mailer.Send(ctx, msg); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).
		Model(&models.Household{}).
		Where("id = ?", h.ID).
		Update(column, s.now()).Error
}

func (s *EmailService) invitationFor(h models.Household) (utils.EmailMessage, error) {
	return BuildInvitation(*h.Email, h.FirstNames(), utils.RSVPLink(s.BaseURL, h.UniqueToken), s.BaseURL)
}

// ----------------------------------------------------
// BULK INVITE
// ----------------------------------------------------
func (s *EmailService) PreviewInvites(ctx context.Context, in BulkInviteInput) (*DryRunResult, error) {
	log.Info().Str("inviteStatus", in.InviteStatus).Msg("➡️ EmailService.PreviewInvites")

	households, err := s.InviteCandidates(ctx, in.InviteStatus)
	if err != nil {
		return nil, err
	}
	return preview(households, func(g models.Guest) string { return g.FullName() }), nil
}

func (s *EmailService) SendInvites(ctx context.Context, in BulkInviteInput) (*BulkSendResult, error) {
	log.Info().Str("inviteStatus", in.InviteStatus).Msg("➡️ EmailService.SendInvites")

	households, err := s.InviteCandidates(ctx, in.InviteStatus)
	if err != nil {
		return nil, err
	}

	result := s.sendEach(ctx, households, "invite_sent_at", s.invitationFor)
	log.Info().Int("sent", result.Sent).Int("failed", result.Failed).Msg("⬅️ EmailService.SendInvites")
	return result, nil
}

// ----------------------------------------------------
// BULK UPDATE
// ----------------------------------------------------
func validateUpdate(in *BulkUpdateInput) error {
	in.Subject = strings.TrimSpace(in.Subject)
	if in.Subject == "" || strings.TrimSpace(in.Message) == "" {
		return InvalidArgument(MsgSubjectMessageRequired)
	}
	return nil
}

func (s *EmailService) PreviewUpdates(ctx context.Context, in BulkUpdateInput) (*DryRunResult, error) {
	if err := validateUpdate(&in); err != nil {
		return nil, err
	}
	log.Info().Bool("onlyConfirmed", in.OnlyConfirmed).Msg("➡️ EmailService.PreviewUpdates")

	households, err := s.UpdateCandidates(ctx, in.InviteStatus, in.OnlyConfirmed)
	if err != nil {
		return nil, err
	}
	return preview(households, func(g models.Guest) string {
		return g.FullName() + " (" + g.AttendanceLabel() + ")"
	}), nil
}

func (s *EmailService) SendUpdates(ctx context.Context, in BulkUpdateInput) (*BulkSendResult, error) {
	if err := validateUpdate(&in); err != nil {
		return nil, err
	}
	includeLink := in.IncludeRsvpLink == nil || *in.IncludeRsvpLink
	log.Info().Bool("onlyConfirmed", in.OnlyConfirmed).Bool("includeRsvpLink", includeLink).Msg("➡️ EmailService.SendUpdates")

	households, err := s.UpdateCandidates(ctx, in.InviteStatus, in.OnlyConfirmed)
	if err != nil {
		return nil, err
	}

	result := s.sendEach(ctx, households, "last_update_sent_at", func(h models.Household) (utils.EmailMessage, error) {
		link := ""
		if includeLink {
			link = utils.RSVPLink(s.BaseURL, h.UniqueToken)
		}
		return BuildUpdate(*h.Email, h.FirstNames(), in.Subject, in.Message, link)
	})
	log.Info().Int("sent", result.Sent).Int("failed", result.Failed).Msg("⬅️ EmailService.SendUpdates")
	return result, nil
}

// ----------------------------------------------------
// SINGLE INVITE
// ----------------------------------------------------

// SendSingle invites one household regardless of whether it was invited before.
func (s *EmailService) SendSingle(ctx context.Context, householdID string) (string, error) {
	householdID = strings.TrimSpace(householdID)
	log.Info().Str("householdId", householdID).Msg("➡️ EmailService.SendSingle")

	if householdID == "" {
		return "", InvalidArgument("householdId is required")
	}

	var h models.Household
	err := s.DB.WithContext(ctx).Preload("Guests", orderGuests).Where("id = ?", householdID).First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", NotFound(MsgHouseholdNotFound)
	}
	if err != nil {
		return "", err
	}
	if !h.HasEmail() {
		return "", InvalidArgument(MsgHouseholdNoEmail)
	}

	if err := s.sendOne(ctx, h, "invite_sent_at", s.invitationFor); err != nil {
		log.Error().Err(err).Msg("⬅️ EmailService.SendSingle failed")
		return "", err
	}

	log.Info().Str("email", *h.Email).Msg("⬅️ EmailService.SendSingle ok")
	return *h.Email, nil
}
