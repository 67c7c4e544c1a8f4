package datafeed

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

var DB *sql.DB

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func InitDatabase() error {
	config := DatabaseConfig{
		Host:     getEnvOrDefault("DB_HOST", "localhost"),
		Port:     getEnvOrDefault("DB_PORT", "5432"),
		User:     getEnvOrDefault("DB_USER", "postgres"),
		Password: os.Getenv("DB_PASSWORD"), // Required - no default
		DBName:   getEnvOrDefault("DB_NAME", "coinpulse"),
		SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	var err error
	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err = initializeSchema(); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	fmt.Println("Database connected successfully!")
	return nil
}

// initializeSchema creates the scan-result tables if they don't exist.
func initializeSchema() error {
	schemaSQL := `
	CREATE TABLE IF NOT EXISTS market_gate_results (
		id SERIAL PRIMARY KEY,
		gate TEXT NOT NULL,
		score INT NOT NULL,
		reasons TEXT NOT NULL,
		metrics JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS vcp_scan_results (
		id SERIAL PRIMARY KEY,
		scan_batch BIGINT NOT NULL,
		symbol TEXT NOT NULL,
		score INT NOT NULL,
		grade TEXT NOT NULL,
		signal_type TEXT NOT NULL,
		pivot_price TEXT NOT NULL,
		current_price TEXT NOT NULL,
		breakout_pct REAL NOT NULL,
		c1 REAL NOT NULL,
		c2 REAL NOT NULL,
		c3 REAL NOT NULL,
		atr_pct REAL NOT NULL,
		volume_ratio REAL NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_vcp_scan_batch ON vcp_scan_results(scan_batch);
	`
	_, err := DB.Exec(schemaSQL)
	return err
}

func CloseDatabase() {
	if DB != nil {
		DB.Close()
	}
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
