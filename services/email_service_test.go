package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"wedding-rsvp/models"
	"wedding-rsvp/utils"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []utils.EmailMessage
	fail map[string]bool
}

func (m *fakeMailer) Send(ctx context.Context, msg utils.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail[msg.To] {
		return errors.New("smtp: mailbox unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newTestEmailService(t *testing.T) (*EmailService, *fakeMailer) {
	t.Helper()
	db := setupTestDB(t)
	mailer := &fakeMailer{fail: map[string]bool{}}
	svc := NewEmailService(db, mailer, "https://party.example.com/")
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }
	return svc, mailer
}

func markInvited(t *testing.T, svc *EmailService, id string) {
	t.Helper()
	if err := svc.DB.Model(&models.Household{}).Where("id = ?", id).Update("invite_sent_at", time.Now().UTC()).Error; err != nil {
		t.Fatalf("mark invited: %v", err)
	}
}

func TestPreviewInvitesIsReadOnly(t *testing.T) {
	svc, mailer := newTestEmailService(t)
	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		createHousehold(t, svc.DB, strPtr(email), "tok-"+string(rune('a'+i)), "Guest")
	}
	createHousehold(t, svc.DB, nil, "tok-none", "NoMail")
	sent := createHousehold(t, svc.DB, strPtr("done@example.com"), "tok-done", "Done")
	markInvited(t, svc, sent.ID)

	preview, err := svc.PreviewInvites(bg, BulkInviteInput{DryRun: true})
	if err != nil {
		t.Fatalf("PreviewInvites() error = %v", err)
	}
	if !preview.DryRun || preview.Count != 3 || len(preview.Households) != 3 {
		t.Errorf("preview = %+v, want 3 households", preview)
	}
	if len(mailer.sent) != 0 {
		t.Errorf("dry run sent %d emails", len(mailer.sent))
	}

	var invited int64
	svc.DB.Model(&models.Household{}).Where("invite_sent_at IS NOT NULL").Count(&invited)
	if invited != 1 {
		t.Errorf("invited households = %d after dry run, want 1", invited)
	}
}

func TestSendInvites(t *testing.T) {
	svc, mailer := newTestEmailService(t)
	ok := createHousehold(t, svc.DB, strPtr("ok@example.com"), "tok-ok", "Ana", "Ben")
	bad := createHousehold(t, svc.DB, strPtr("bad@example.com"), "tok-bad", "Cy")
	maybe := createHousehold(t, svc.DB, strPtr("maybe@example.com"), "tok-maybe", "Dee")
	svc.DB.Model(&models.Household{}).Where("id = ?", maybe.ID).Update("invite_status", models.InviteStatusMaybe)
	mailer.fail["bad@example.com"] = true

	result, err := svc.SendInvites(bg, BulkInviteInput{InviteStatus: models.InviteStatusYes})
	if err != nil {
		t.Fatalf("SendInvites() error = %v", err)
	}
	if result.Sent != 1 || result.Failed != 1 || len(result.Results) != 2 {
		t.Errorf("result = %+v, want 1 sent and 1 failed", result)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("mailer got %d messages", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if msg.Subject != InviteSubject {
		t.Errorf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.Text, "Ana & Ben") || !strings.Contains(msg.Text, "https://party.example.com/rsvp?token=tok-ok") {
		t.Errorf("text body missing names or link:\n%s", msg.Text)
	}

	var gotOK, gotBad models.Household
	svc.DB.Where("id = ?", ok.ID).First(&gotOK)
	if gotOK.InviteSentAt == nil {
		t.Error("successful send not stamped")
	}
	svc.DB.Where("id = ?", bad.ID).First(&gotBad)
	if gotBad.InviteSentAt != nil {
		t.Error("failed send was stamped")
	}

	// the sent household is no longer eligible; the failed one still is
	mailer.fail = map[string]bool{}
	preview, _ := svc.PreviewInvites(bg, BulkInviteInput{InviteStatus: models.InviteStatusYes})
	if preview.Count != 1 || preview.Households[0].Email != "bad@example.com" {
		t.Errorf("second preview = %+v", preview)
	}
}

func TestSendUpdates(t *testing.T) {
	svc, mailer := newTestEmailService(t)
	confirmed := createHousehold(t, svc.DB, strPtr("yes@example.com"), "tok-yes", "Ana")
	declined := createHousehold(t, svc.DB, strPtr("no@example.com"), "tok-no", "Ben")
	createHousehold(t, svc.DB, strPtr("never@example.com"), "tok-never", "Cy")
	markInvited(t, svc, confirmed.ID)
	markInvited(t, svc, declined.ID)
	svc.DB.Model(&models.Guest{}).Where("id = ?", confirmed.Guests[0].ID).Update("is_attending", true)
	svc.DB.Model(&models.Guest{}).Where("id = ?", declined.Guests[0].ID).Update("is_attending", false)

	t.Run("requires subject and message", func(t *testing.T) {
		_, err := svc.SendUpdates(bg, BulkUpdateInput{Subject: " ", Message: "hi"})
		assertKind(t, err, KindInvalidArgument, MsgSubjectMessageRequired)
	})

	t.Run("preview labels attendance", func(t *testing.T) {
		preview, err := svc.PreviewUpdates(bg, BulkUpdateInput{Subject: "Venue", Message: "News"})
		if err != nil {
			t.Fatalf("PreviewUpdates() error = %v", err)
		}
		if preview.Count != 2 {
			t.Fatalf("preview count = %d, want 2 invited households", preview.Count)
		}
		labels := preview.Households[0].Guests[0] + "|" + preview.Households[1].Guests[0]
		if !strings.Contains(labels, "(attending)") || !strings.Contains(labels, "(declined)") {
			t.Errorf("labels = %q", labels)
		}
	})

	t.Run("only confirmed without link", func(t *testing.T) {
		noLink := false
		result, err := svc.SendUpdates(bg, BulkUpdateInput{
			Subject: "Venue change", Message: "First.\n\nSecond.", OnlyConfirmed: true, IncludeRsvpLink: &noLink,
		})
		if err != nil {
			t.Fatalf("SendUpdates() error = %v", err)
		}
		if result.Sent != 1 || len(mailer.sent) != 1 || mailer.sent[0].To != "yes@example.com" {
			t.Fatalf("result = %+v, sent = %+v", result, mailer.sent)
		}
		msg := mailer.sent[0]
		if msg.Subject != "Venue change" || strings.Contains(msg.Text, "rsvp?token=") {
			t.Errorf("message = %+v", msg)
		}
		if strings.Count(msg.HTML, "<p>First.</p>") != 1 || !strings.Contains(msg.HTML, "<p>Second.</p>") {
			t.Errorf("paragraphs not rendered:\n%s", msg.HTML)
		}

		var got models.Household
		svc.DB.Where("id = ?", confirmed.ID).First(&got)
		if got.LastUpdateSentAt == nil {
			t.Error("lastUpdateSentAt not stamped")
		}
	})
}

func TestSendSingle(t *testing.T) {
	svc, mailer := newTestEmailService(t)
	h := createHousehold(t, svc.DB, strPtr("one@example.com"), "tok-one", "Ana")
	markInvited(t, svc, h.ID)
	noMail := createHousehold(t, svc.DB, nil, "tok-nomail", "Ben")

	email, err := svc.SendSingle(bg, h.ID)
	if err != nil {
		t.Fatalf("SendSingle() error = %v", err)
	}
	if email != "one@example.com" || len(mailer.sent) != 1 {
		t.Errorf("email = %q, sent = %d", email, len(mailer.sent))
	}

	var got models.Household
	svc.DB.Where("id = ?", h.ID).First(&got)
	if got.InviteSentAt == nil || !got.InviteSentAt.Equal(svc.now()) {
		t.Errorf("inviteSentAt = %v, want %v", got.InviteSentAt, svc.now())
	}

	_, err = svc.SendSingle(bg, noMail.ID)
	assertKind(t, err, KindInvalidArgument, MsgHouseholdNoEmail)

	_, err = svc.SendSingle(bg, "missing")
	assertKind(t, err, KindNotFound, MsgHouseholdNotFound)

	mailer.fail["one@example.com"] = true
	if _, err := svc.SendSingle(bg, h.ID); err == nil {
		t.Error("expected mailer failure to surface")
	}
}

func TestBuildUpdateEscapesHTML(t *testing.T) {
	msg, err := BuildUpdate("x@example.com", []string{"Ana"}, "Hi", "<script>alert(1)</script>", "")
	if err != nil {
		t.Fatalf("BuildUpdate() error = %v", err)
	}
	if strings.Contains(msg.HTML, "<script>") {
		t.Error("message not escaped in HTML body")
	}
	if !strings.Contains(msg.Text, "<script>") {
		t.Error("text body should carry the raw message")
	}
}
