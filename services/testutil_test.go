package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"wedding-rsvp/config"
	"wedding-rsvp/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.Open(config.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

// createHousehold inserts a household with one guest per first name.
func createHousehold(t *testing.T, db *gorm.DB, email *string, token string, firstNames ...string) *models.Household {
	t.Helper()
	h := models.Household{Email: email, UniqueToken: token}
	for _, name := range firstNames {
		h.Guests = append(h.Guests, models.Guest{
			FirstName: name,
			LastName:  "Tester",
			InvitedBy: models.InvitedByBride,
			Role:      "Friend",
		})
	}
	if err := db.Create(&h).Error; err != nil {
		t.Fatalf("create household: %v", err)
	}
	return &h
}

// assertNoEmptyHouseholds checks that every household still has a guest.
func assertNoEmptyHouseholds(t *testing.T, db *gorm.DB) {
	t.Helper()
	var n int64
	err := db.Model(&models.Household{}).
		Where("NOT EXISTS (SELECT 1 FROM guests WHERE guests.household_id = households.id)").
		Count(&n).Error
	if err != nil {
		t.Fatalf("count empty households: %v", err)
	}
	if n != 0 {
		t.Errorf("%d household(s) left without guests", n)
	}
}

func householdExists(t *testing.T, db *gorm.DB, id string) bool {
	t.Helper()
	var h models.Household
	err := db.Where("id = ?", id).First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	if err != nil {
		t.Fatalf("load household: %v", err)
	}
	return true
}

func assertKind(t *testing.T, err error, kind ErrorKind, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", msg)
	}
	var svcErr *Error
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *services.Error, got %T: %v", err, err)
	}
	if svcErr.Kind != kind {
		t.Errorf("kind = %v, want %v", svcErr.Kind, kind)
	}
	if msg != "" && svcErr.Message != msg {
		t.Errorf("message = %q, want %q", svcErr.Message, msg)
	}
}

var bg = context.Background()
