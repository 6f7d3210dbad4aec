package datafeed

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/bajutae/Findupbitjewel/Internal/types"
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
		DBName:   getEnvOrDefault("DB_NAME", "findupbitjewel"),
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

// initializeSchema creates the market universe and scan log tables if missing.
func initializeSchema() error {
	schemaSQL := `
	CREATE TABLE IF NOT EXISTS markets (
		id SERIAL PRIMARY KEY,
		symbol TEXT NOT NULL UNIQUE,
		name TEXT,
		circulating_supply NUMERIC,
		active BOOLEAN DEFAULT TRUE,
		added_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS scan_log (
		id SERIAL PRIMARY KEY,
		profile_name TEXT NOT NULL,
		evaluated INTEGER NOT NULL,
		admitted INTEGER NOT NULL,
		insufficient_data INTEGER NOT NULL,
		criteria_rejected INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_markets_symbol ON markets(symbol);
	CREATE INDEX IF NOT EXISTS idx_markets_active ON markets(active);
	CREATE INDEX IF NOT EXISTS idx_scan_log_profile ON scan_log(profile_name);
	`

	_, err := DB.Exec(schemaSQL)
	return err
}

func CloseDatabase() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func HealthCheck() error {
	if DB == nil {
		return fmt.Errorf("database connection is nil")
	}
	return DB.Ping()
}

// GetActiveMarkets returns the screening universe stored in the database.
func GetActiveMarkets(ctx context.Context) ([]string, error) {
	rows, err := DB.QueryContext(ctx,
		`SELECT symbol FROM markets WHERE active = TRUE ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to query markets: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, err
		}
		symbols = append(symbols, symbol)
	}
	return symbols, rows.Err()
}

// GetCirculatingSupply looks up the supply estimate for one symbol. A missing
// or NULL row reports ErrMetricUnavailable so callers can carry the market cap
// as unknown instead of zero.
func GetCirculatingSupply(ctx context.Context, symbol string) (decimal.Decimal, error) {
	var supply sql.NullString
	err := DB.QueryRowContext(ctx,
		`SELECT circulating_supply FROM markets WHERE symbol = $1`, symbol).Scan(&supply)
	if err == sql.ErrNoRows {
		return decimal.Zero, fmt.Errorf("%w: circulating supply for %s", types.ErrMetricUnavailable, symbol)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query supply for %s: %w", symbol, err)
	}
	if !supply.Valid {
		return decimal.Zero, fmt.Errorf("%w: circulating supply for %s", types.ErrMetricUnavailable, symbol)
	}
	return decimal.NewFromString(supply.String)
}

// UpsertMarket adds or refreshes one universe entry. Supply estimates are
// maintained out of band, so the upsert leaves any stored value alone.
func UpsertMarket(ctx context.Context, symbol, name string) error {
	_, err := DB.ExecContext(ctx, `
		INSERT INTO markets (symbol, name, active, last_updated)
		VALUES ($1, $2, TRUE, CURRENT_TIMESTAMP)
		ON CONFLICT (symbol) DO UPDATE
		SET name = EXCLUDED.name,
		    active = TRUE,
		    last_updated = CURRENT_TIMESTAMP`,
		symbol, name)
	if err != nil {
		return fmt.Errorf("failed to upsert market %s: %w", symbol, err)
	}
	return nil
}

// LogScanRun records a per-run summary for later inspection.
func LogScanRun(ctx context.Context, profileName string, report *types.ScreenReport) error {
	_, err := DB.ExecContext(ctx, `
		INSERT INTO scan_log (profile_name, evaluated, admitted, insufficient_data, criteria_rejected, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		profileName, report.Evaluated, report.Admitted, report.InsufficientData,
		report.CriteriaRejected, report.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to log scan run: %w", err)
	}
	return nil
}
