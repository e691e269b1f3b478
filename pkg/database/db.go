package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Config holds database connection settings
type Config struct {
	Type     string `yaml:"type"` // mysql/postgres
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	Charset  string `yaml:"charset"` // mysql only
}

// Init opens the database connection and runs migrations
func Init(config Config) error {
	if err := ensureDatabase(config); err != nil {
		return fmt.Errorf("failed to ensure database exists: %w", err)
	}

	var dialector gorm.Dialector
	var err error

	dsn := ""
	switch config.Type {
	case "mysql":
		if config.Charset == "" {
			config.Charset = "utf8mb4"
		}
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
			config.User, config.Password, config.Host, config.Port, config.Database, config.Charset)
		dialector = mysql.Open(dsn)
	case "postgres":
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
			config.Host, config.User, config.Password, config.Database, config.Port)
		dialector = postgres.Open(dsn)
	default:
		return fmt.Errorf("unsupported database type: %s", config.Type)
	}

	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	err = AutoMigrate()
	if err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	log.Println("Database connected successfully")
	return nil
}

// ensureDatabase creates the configured database when it does not exist yet
func ensureDatabase(config Config) error {
	switch config.Type {
	case "mysql":
		return ensureMySQLDatabase(config)
	case "postgres":
		return ensurePostgresDatabase(config)
	default:
		return fmt.Errorf("unsupported database type: %s", config.Type)
	}
}

func ensureMySQLDatabase(config Config) error {
	// connect to the server without selecting a database
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/?charset=utf8mb4&parseTime=True&loc=Local",
		config.User, config.Password, config.Host, config.Port)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to MySQL server: %w", err)
	}
	defer db.Close()

	if err = db.Ping(); err != nil {
		return fmt.Errorf("failed to ping MySQL server: %w", err)
	}

	var exists int
	query := "SELECT 1 FROM information_schema.SCHEMATA WHERE SCHEMA_NAME = ?"
	err = db.QueryRow(query, config.Database).Scan(&exists)
	if err == nil {
		return nil
	}

	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}

	log.Printf("Database '%s' does not exist, creating...\n", config.Database)
	// CREATE DATABASE does not support placeholders, escape the identifier
	createSQL := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci", escapeMySQLIdentifier(config.Database))
	_, err = db.Exec(createSQL)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	return nil
}

// escapeMySQLIdentifier doubles backticks in an identifier
func escapeMySQLIdentifier(name string) string {
	escaped := ""
	for _, r := range name {
		if r == '`' {
			escaped += "``"
		} else {
			escaped += string(r)
		}
	}
	return escaped
}

func ensurePostgresDatabase(config Config) error {
	// connect to the default postgres database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=postgres port=%d sslmode=disable",
		config.Host, config.User, config.Password, config.Port)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL server: %w", err)
	}
	defer db.Close()

	if err = db.Ping(); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL server: %w", err)
	}

	var exists int
	query := "SELECT 1 FROM pg_database WHERE datname = $1"
	err = db.QueryRow(query, config.Database).Scan(&exists)
	if err == nil {
		return nil
	}

	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}

	log.Printf("Database '%s' does not exist, creating...\n", config.Database)
	createSQL := fmt.Sprintf("CREATE DATABASE %s", quotePostgresIdentifier(config.Database))
	_, err = db.Exec(createSQL)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	return nil
}

// quotePostgresIdentifier doubles quotes in an identifier and wraps it
func quotePostgresIdentifier(name string) string {
	escaped := ""
	for _, r := range name {
		if r == '"' {
			escaped += `""`
		} else {
			escaped += string(r)
		}
	}
	return fmt.Sprintf(`"%s"`, escaped)
}

// AutoMigrate migrates all tables
func AutoMigrate() error {
	return DB.AutoMigrate(
		&model.Platform{},
		&model.AffiliateLink{},
		&model.ClickEvent{},
		&model.ConversionEvent{},
		&model.RotationConfig{},
		&model.ImportTask{},
		&model.TaskExecution{},
		&model.Setting{},
	)
}

// Close closes the underlying connection
func Close() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
