package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

var PostgresDB *sql.DB

// ConnectPostgres connects to PostgreSQL database
func ConnectPostgres(postgresURI string) error {
	var err error

	PostgresDB, err = sql.Open("postgres", postgresURI)
	if err != nil {
		return err
	}

	// Set connection pool settings
	PostgresDB.SetMaxOpenConns(25)
	PostgresDB.SetMaxIdleConns(5)
	PostgresDB.SetConnMaxLifetime(5 * time.Minute)

	if err = PostgresDB.Ping(); err != nil {
		return err
	}

	log.Println("✅ Connected to PostgreSQL")

	if err = InitPostgresTables(PostgresDB); err != nil {
		return err
	}

	return nil
}

// schema is applied in order on every start; each statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,

	// One profile per user; empty until onboarding completes
	`CREATE TABLE IF NOT EXISTS profiles (
		user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		full_name VARCHAR(120) NOT NULL DEFAULT '',
		age INTEGER,
		gender VARCHAR(20),
		current_weight NUMERIC(5,2),
		height_cm NUMERIC(5,2),
		goal_type VARCHAR(30),
		activity_level VARCHAR(30),
		daily_calorie_goal INTEGER,
		daily_protein_goal INTEGER,
		daily_carbs_goal INTEGER,
		daily_fat_goal INTEGER,
		avatar_url TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
		CHECK (age IS NULL OR age BETWEEN 13 AND 120),
		CHECK (current_weight IS NULL OR current_weight BETWEEN 20 AND 300),
		CHECK (height_cm IS NULL OR height_cm BETWEEN 100 AND 250)
	)`,

	`CREATE TABLE IF NOT EXISTS food_entries (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		entry_date DATE NOT NULL,
		meal_type VARCHAR(20) NOT NULL,
		food_name VARCHAR(200) NOT NULL,
		calories INTEGER NOT NULL CHECK (calories >= 0),
		protein NUMERIC(7,2) CHECK (protein IS NULL OR protein >= 0),
		carbs NUMERIC(7,2) CHECK (carbs IS NULL OR carbs >= 0),
		fat NUMERIC(7,2) CHECK (fat IS NULL OR fat >= 0),
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS weight_logs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		log_date DATE NOT NULL,
		weight NUMERIC(5,2) NOT NULL CHECK (weight BETWEEN 20 AND 300),
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE(user_id, log_date)
	)`,

	// User devices table (SECURITY: Device tracking for support)
	`CREATE TABLE IF NOT EXISTS user_devices (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		device_token VARCHAR(255) NOT NULL UNIQUE,
		ip_address VARCHAR(255),
		user_agent TEXT,
		last_used TIMESTAMP NOT NULL DEFAULT NOW(),
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_users_email_lower ON users(LOWER(email))`,
	`CREATE INDEX IF NOT EXISTS idx_food_entries_user_date ON food_entries(user_id, entry_date, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_weight_logs_user_date ON weight_logs(user_id, log_date)`,
	`CREATE INDEX IF NOT EXISTS idx_user_devices_user_id ON user_devices(user_id)`,
}

// InitPostgresTables creates all necessary tables if they don't exist
func InitPostgresTables(db *sql.DB) error {
	for _, query := range schema {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	log.Println("✅ PostgreSQL tables initialized")
	return nil
}

// DisconnectPostgres closes the PostgreSQL connection
func DisconnectPostgres() error {
	if PostgresDB != nil {
		return PostgresDB.Close()
	}
	return nil
}
