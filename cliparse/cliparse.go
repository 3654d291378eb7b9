// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/magic-vote/ledger"
)

type Config struct {
	Port         int
	DatabaseType string
	DatabaseURL  string

	SeedCandidate1  int
	SeedCandidate2  int
	TargetCandidate int
	TargetShare     float64

	SettleDelay  time.Duration
	StepInterval time.Duration

	TokenSize      float64
	MaxStackHeight float64
}

// Defaults
const (
	DefaultPort           = 3318
	DefaultDatabaseType   = "sqlite"
	DefaultSQLiteURL      = "file::memory:"
	DefaultSeedCandidate1 = 10
	DefaultTargetShare    = 0.51
	DefaultSettleDelay    = 2500 * time.Millisecond
	DefaultStepInterval   = 600 * time.Millisecond
	DefaultTokenSize      = 96
	DefaultMaxStackHeight = 10
)

// ParseFlags builds the configuration from CLI flags, falling back to
// environment variables (optionally read from an .env file) and then to
// defaults.
func ParseFlags(args []string) (Config, error) {
	cfg := Config{
		SeedCandidate1:  -1,
		SeedCandidate2:  -1,
		TargetCandidate: -1,
	}
	var envFile string

	fs := flag.NewFlagSet("magic-vote", flag.ContinueOnError)

	fs.StringVar(&envFile, "env-file", ".env", "Environment file to load (missing file is ignored)")

	// Network and storage
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (memory, sqlite or postgres)")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")

	// Ledger
	fs.IntVar(&cfg.SeedCandidate1, "seed-1", -1, "Votes seeded for candidate 1")
	fs.IntVar(&cfg.SeedCandidate2, "seed-2", -1, "Votes seeded for candidate 2")
	fs.IntVar(&cfg.TargetCandidate, "target", -1, "Candidate id whose share is rigged (0 or 1)")
	fs.Float64Var(&cfg.TargetShare, "target-share", 0, "Share the target candidate is held at")

	// Rigging pace
	fs.DurationVar(&cfg.SettleDelay, "settle-delay", 0, "Wait after the last vote before rigging")
	fs.DurationVar(&cfg.StepInterval, "step-interval", 0, "Wait between rigging steps")

	// Layout
	fs.Float64Var(&cfg.TokenSize, "token-size", 0, "Vote token size in pixels")
	fs.Float64Var(&cfg.MaxStackHeight, "max-stack-height", 0, "Stacking density")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		port, err := envInt("PORT", DefaultPort)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DefaultDatabaseType
		}
	}
	switch cfg.DatabaseType {
	case "memory", "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		switch cfg.DatabaseType {
		case "sqlite":
			cfg.DatabaseURL = DefaultSQLiteURL
		case "postgres":
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
	}

	var err error
	if cfg.SeedCandidate1 < 0 {
		if cfg.SeedCandidate1, err = envInt("SEED_CANDIDATE_1", DefaultSeedCandidate1); err != nil {
			return Config{}, err
		}
	}
	if cfg.SeedCandidate2 < 0 {
		if cfg.SeedCandidate2, err = envInt("SEED_CANDIDATE_2", 0); err != nil {
			return Config{}, err
		}
	}
	if cfg.SeedCandidate1 < 0 || cfg.SeedCandidate2 < 0 {
		return Config{}, errors.New("seed counts must not be negative")
	}

	if cfg.TargetCandidate < 0 {
		if cfg.TargetCandidate, err = envInt("TARGET_CANDIDATE", 0); err != nil {
			return Config{}, err
		}
	}
	if cfg.TargetCandidate != 0 && cfg.TargetCandidate != 1 {
		return Config{}, fmt.Errorf("target candidate must be 0 or 1, got %d", cfg.TargetCandidate)
	}

	if cfg.TargetShare == 0 {
		if cfg.TargetShare, err = envFloat("TARGET_SHARE", DefaultTargetShare); err != nil {
			return Config{}, err
		}
	}
	if cfg.TargetShare <= 0 || cfg.TargetShare >= 1 {
		return Config{}, fmt.Errorf("target share must be in (0,1), got %v", cfg.TargetShare)
	}

	if cfg.SettleDelay == 0 {
		if cfg.SettleDelay, err = envDuration("SETTLE_DELAY", DefaultSettleDelay); err != nil {
			return Config{}, err
		}
	}
	if cfg.StepInterval == 0 {
		if cfg.StepInterval, err = envDuration("STEP_INTERVAL", DefaultStepInterval); err != nil {
			return Config{}, err
		}
	}

	if cfg.TokenSize == 0 {
		if cfg.TokenSize, err = envFloat("TOKEN_SIZE", DefaultTokenSize); err != nil {
			return Config{}, err
		}
	}
	if cfg.TokenSize <= 0 {
		return Config{}, fmt.Errorf("token size must be positive, got %v", cfg.TokenSize)
	}
	if cfg.MaxStackHeight == 0 {
		if cfg.MaxStackHeight, err = envFloat("MAX_STACK_HEIGHT", DefaultMaxStackHeight); err != nil {
			return Config{}, err
		}
	}
	if cfg.MaxStackHeight <= 0 {
		return Config{}, fmt.Errorf("max stack height must be positive, got %v", cfg.MaxStackHeight)
	}

	return cfg, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	// godotenv never overrides variables that are already set.
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return v, nil
}

func envFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return v, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return v, nil
}

// LedgerConfig returns the seed and rigging settings for ledger.New.
func (c Config) LedgerConfig() ledger.Config {
	return ledger.Config{
		Seed: map[ledger.CandidateID]int{
			ledger.Candidate1: c.SeedCandidate1,
			ledger.Candidate2: c.SeedCandidate2,
		},
		TargetCandidateID: ledger.CandidateID(c.TargetCandidate),
		TargetShare:       c.TargetShare,
	}
}
