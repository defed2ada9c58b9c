package config

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"wedding-rsvp/models"
)

var DB *gorm.DB

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	cfg := mysqlBaseConfig()
	cfg.User = u.User.Username()
	cfg.Passwd, _ = u.User.Password()
	cfg.Addr = u.Hostname() + ":" + port
	cfg.DBName = dbName
	for k, v := range u.Query() {
		if len(v) == 0 || k == "parseTime" || k == "loc" {
			continue
		}
		cfg.Params[k] = v[0]
	}
	return cfg.FormatDSN(), nil
}

func mysqlBaseConfig() *mysqldriver.Config {
	cfg := mysqldriver.NewConfig()
	cfg.Net = "tcp"
	cfg.ParseTime = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	cfg := mysqlBaseConfig()
	cfg.User = envOrDefault("DB_USER", "root")
	cfg.Passwd = envOrDefault("DB_PASS", "")
	cfg.Addr = envOrDefault("DB_HOST", "127.0.0.1") + ":" + envOrDefault("DB_PORT", "3306")
	cfg.DBName = envOrDefault("DB_NAME", "wedding_rsvp")
	return cfg.FormatDSN(), nil
}

func resolvePostgresDSN() string {
	if raw := strings.TrimSpace(os.Getenv("DATABASE_URL")); raw != "" {
		return raw
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		envOrDefault("DB_HOST", "127.0.0.1"),
		envOrDefault("DB_PORT", "5432"),
		envOrDefault("DB_USER", "postgres"),
		envOrDefault("DB_PASS", ""),
		envOrDefault("DB_NAME", "wedding_rsvp"),
		envOrDefault("DB_SSLMODE", "disable"),
	)
}

// sqliteDSN turns on foreign keys so household deletes cascade to guests.
func sqliteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys") || strings.Contains(path, "_fk=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=1"
}

// ResolveDSN picks the DSN for driver from the environment.
func ResolveDSN(driver string) (string, error) {
	switch driver {
	case DriverMySQL:
		return resolveMySQLDSN()
	case DriverPostgres:
		return resolvePostgresDSN(), nil
	case DriverSQLite:
		return envOrDefault("SQLITE_PATH", "wedding.db"), nil
	default:
		return "", fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// Open connects with the given driver. It does not migrate.
func Open(driver, dsn string) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: newGormLogger(), TranslateError: true}

	switch driver {
	case DriverMySQL:
		return gorm.Open(mysql.Open(dsn), gormCfg)

	case DriverPostgres:
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, err
		}
		db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormCfg)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		return db, nil

	case DriverSQLite:
		db, err := gorm.Open(sqlite.Open(sqliteDSN(dsn)), gormCfg)
		if err != nil {
			return nil, err
		}
		// one writer at a time; avoids SQLITE_BUSY inside transactions
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// Migrate creates or updates the schema in parent -> child order.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Household{},
		&models.Guest{},
		&models.QuizAttempt{},
	)
}

// ConnectDatabase opens the configured database, migrates it and sets DB.
func ConnectDatabase() error {
	driver := strings.ToLower(envOrDefault("DB_DRIVER", DriverMySQL))
	dsn, err := ResolveDSN(driver)
	if err != nil {
		return err
	}

	db, err := Open(driver, dsn)
	if err != nil {
		return err
	}

	if err := Migrate(db); err != nil {
		return err
	}

	log.Info().Str("driver", driver).Msg("✅ database ready")
	DB = db
	return nil
}
