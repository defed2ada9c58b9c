package config

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"wedding-rsvp/models"
	"wedding-rsvp/utils"
)

// GuestRow is one line of the guest list spreadsheet export.
type GuestRow struct {
	FirstName    string
	LastName     string
	Email        string
	InvitedBy    string
	Role         string
	InviteStatus string
	InviteSent   string
	RSVP         string
	Notes        string
}

// SeedHousehold is a group of rows that will share one household.
type SeedHousehold struct {
	Key          string
	Email        *string
	InviteStatus string
	Rows         []GuestRow
}

type SeedReport struct {
	Households []SeedHousehold
	GuestCount int
}

func column(values []string, i int) string {
	if i < len(values) {
		return strings.TrimSpace(values[i])
	}
	return ""
}

// ParseGuestCSV reads the header row and every guest row after it.
func ParseGuestCSV(r io.Reader) ([]GuestRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv is empty")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var rows []GuestRow
	for {
		values, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		row := GuestRow{
			FirstName:    column(values, 0),
			LastName:     column(values, 1),
			Email:        strings.Join(strings.Fields(column(values, 2)), ""),
			InvitedBy:    column(values, 3),
			Role:         column(values, 4),
			InviteStatus: column(values, 5),
			InviteSent:   column(values, 6),
			RSVP:         column(values, 7),
			Notes:        column(values, 8),
		}
		if row.FirstName == "" && row.LastName == "" {
			continue
		}
		if row.InviteStatus == "" {
			row.InviteStatus = models.InviteStatusYes
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// GroupRows groups rows by email; rows without one get a household each.
func GroupRows(rows []GuestRow) []SeedHousehold {
	index := map[string]int{}
	var out []SeedHousehold

	for _, row := range rows {
		key := row.Email
		if key == "" {
			key = fmt.Sprintf("no-email-%s-%s", row.FirstName, row.LastName)
		}

		i, ok := index[key]
		if !ok {
			h := SeedHousehold{Key: key, InviteStatus: row.InviteStatus}
			if row.Email != "" {
				email := row.Email
				h.Email = &email
			}
			out = append(out, h)
			i = len(out) - 1
			index[key] = i
		}
		out[i].Rows = append(out[i].Rows, row)
	}
	return out
}

func rsvpFromCSV(v string) *bool {
	switch v {
	case "Yes":
		t := true
		return &t
	case "No":
		f := false
		return &f
	}
	return nil
}

// SeedFromCSV imports the guest list. With dryRun it only reports the grouping.
func SeedFromCSV(ctx context.Context, db *gorm.DB, r io.Reader, dryRun bool) (*SeedReport, error) {
	rows, err := ParseGuestCSV(r)
	if err != nil {
		return nil, err
	}

	report := &SeedReport{Households: GroupRows(rows), GuestCount: len(rows)}
	log.Info().Int("guests", report.GuestCount).Int("households", len(report.Households)).Msg("🌱 seed parsed")
	if dryRun {
		return report, nil
	}

	for _, group := range report.Households {
		token, err := utils.GenerateSecureToken(16)
		if err != nil {
			return nil, err
		}

		household := models.Household{
			Email:        group.Email,
			UniqueToken:  token,
			InviteStatus: group.InviteStatus,
		}
		for _, row := range group.Rows {
			g := models.Guest{
				FirstName:   row.FirstName,
				LastName:    row.LastName,
				InvitedBy:   row.InvitedBy,
				Role:        row.Role,
				IsAttending: rsvpFromCSV(row.RSVP),
			}
			if row.Notes != "" {
				notes := row.Notes
				g.Notes = &notes
			}
			household.Guests = append(household.Guests, g)
		}

		// household and guests land together or not at all
		if err := db.WithContext(ctx).Create(&household).Error; err != nil {
			return nil, fmt.Errorf("seed household %s: %w", group.Key, err)
		}

		names := make([]string, 0, len(household.Guests))
		for _, g := range household.Guests {
			names = append(names, g.FullName())
		}
		email := "(no email)"
		if group.Email != nil {
			email = *group.Email
		}
		log.Info().Str("email", email).Str("guests", strings.Join(names, ", ")).Msg("  ✓ seeded")
	}

	return report, nil
}
