package config

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/gorm"

	"wedding-rsvp/models"
)

const guestCSV = `First Name,Last Name,Email,Invited By,Role,Invite Status,Invite Sent,RSVP,Notes
Ana,Silva,ana@example.com ,Bride,Family,Yes,,Yes,
Ben,Silva,ana@example.com,Bride,Family,Yes,,No,plus one
Cy,Jones,,Groom,Friend,Maybe,,,
Dee,Jones,,Groom,Friend,,,,
,,,,,,,,
`

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestParseGuestCSV(t *testing.T) {
	rows, err := ParseGuestCSV(strings.NewReader(guestCSV))
	if err != nil {
		t.Fatalf("ParseGuestCSV() error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4 (blank row skipped)", len(rows))
	}
	if rows[0].Email != "ana@example.com" {
		t.Errorf("email not trimmed: %q", rows[0].Email)
	}
	if rows[3].InviteStatus != models.InviteStatusYes {
		t.Errorf("missing status defaulted to %q", rows[3].InviteStatus)
	}

	if _, err := ParseGuestCSV(strings.NewReader("")); err == nil {
		t.Error("expected error for empty csv")
	}
}

func TestGroupRows(t *testing.T) {
	rows, _ := ParseGuestCSV(strings.NewReader(guestCSV))
	groups := GroupRows(rows)
	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(groups))
	}
	if len(groups[0].Rows) != 2 || groups[0].Email == nil {
		t.Errorf("first group = %+v, want two rows sharing an email", groups[0])
	}
	for _, g := range groups[1:] {
		if g.Email != nil || len(g.Rows) != 1 {
			t.Errorf("no-email group = %+v, want one guest and nil email", g)
		}
	}
	if groups[1].InviteStatus != models.InviteStatusMaybe {
		t.Errorf("status = %q, want Maybe", groups[1].InviteStatus)
	}
}

func TestSeedFromCSV(t *testing.T) {
	ctx := context.Background()

	t.Run("dry run writes nothing", func(t *testing.T) {
		db := setupSeedDB(t)
		report, err := SeedFromCSV(ctx, db, strings.NewReader(guestCSV), true)
		if err != nil {
			t.Fatalf("SeedFromCSV() error = %v", err)
		}
		if report.GuestCount != 4 || len(report.Households) != 3 {
			t.Errorf("report = %d guests / %d households", report.GuestCount, len(report.Households))
		}
		var n int64
		db.Model(&models.Household{}).Count(&n)
		if n != 0 {
			t.Errorf("dry run created %d households", n)
		}
	})

	t.Run("creates households with guests", func(t *testing.T) {
		db := setupSeedDB(t)
		if _, err := SeedFromCSV(ctx, db, strings.NewReader(guestCSV), false); err != nil {
			t.Fatalf("SeedFromCSV() error = %v", err)
		}

		var households []models.Household
		if err := db.Preload("Guests").Find(&households).Error; err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(households) != 3 {
			t.Fatalf("households = %d, want 3", len(households))
		}
		tokens := map[string]bool{}
		for _, h := range households {
			if len(h.Guests) == 0 {
				t.Errorf("household %s has no guests", h.ID)
			}
			if h.UniqueToken == "" || tokens[h.UniqueToken] {
				t.Errorf("household %s has empty or duplicate token", h.ID)
			}
			tokens[h.UniqueToken] = true
		}

		var ben models.Guest
		db.Where("first_name = ?", "Ben").First(&ben)
		if ben.IsAttending == nil || *ben.IsAttending {
			t.Errorf("Ben attending = %v, want false", ben.IsAttending)
		}
		if ben.Notes == nil || *ben.Notes != "plus one" {
			t.Errorf("Ben notes = %v", ben.Notes)
		}
	})
}

func TestSQLiteDSN(t *testing.T) {
	if got := sqliteDSN("a.db"); got != "a.db?_foreign_keys=1" {
		t.Errorf("sqliteDSN = %q", got)
	}
	if got := sqliteDSN("a.db?cache=shared"); got != "a.db?cache=shared&_foreign_keys=1" {
		t.Errorf("sqliteDSN = %q", got)
	}
}
