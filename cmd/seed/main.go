// Command seed imports the guest list CSV into the database.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"wedding-rsvp/config"
)

var CLI struct {
	CSV    string `help:"Guest list CSV." type:"existingfile" default:"guests.csv"`
	DryRun bool   `help:"Parse and group rows without writing."`
	Driver string `help:"Database driver (mysql, postgres, sqlite). Defaults to DB_DRIVER." env:"DB_DRIVER" default:"mysql" enum:"mysql,postgres,sqlite"`
	DSN    string `help:"Override the DSN resolved from the environment."`
}

func main() {
	_ = godotenv.Load()

	kong.Parse(&CLI,
		kong.Name("seed"),
		kong.Description("Import households and guests from a CSV export"),
		kong.UsageOnError(),
	)

	config.InitLogger(config.Get())

	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	f, err := os.Open(CLI.CSV)
	if err != nil {
		return err
	}
	defer f.Close()

	if CLI.DryRun {
		report, err := config.SeedFromCSV(ctx, nil, f, true)
		if err != nil {
			return err
		}
		printReport(report)
		return nil
	}

	driver := strings.ToLower(CLI.Driver)
	dsn := CLI.DSN
	if dsn == "" {
		if dsn, err = config.ResolveDSN(driver); err != nil {
			return err
		}
	}

	db, err := config.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	if err := config.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	report, err := config.SeedFromCSV(ctx, db, f, false)
	if err != nil {
		return err
	}
	log.Info().Int("households", len(report.Households)).Int("guests", report.GuestCount).Msg("🎉 seeding complete")
	return nil
}

func printReport(report *config.SeedReport) {
	for _, h := range report.Households {
		email := "(no email)"
		if h.Email != nil {
			email = *h.Email
		}
		fmt.Printf("%s [%s]\n", email, h.InviteStatus)
		for _, row := range h.Rows {
			fmt.Printf("  - %s %s\n", row.FirstName, row.LastName)
		}
	}
	fmt.Printf("%d households, %d guests\n", len(report.Households), report.GuestCount)
}
