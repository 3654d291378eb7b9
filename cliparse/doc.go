// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: memory, sqlite or postgres (default: sqlite)
  - DatabaseURL: Connection string (default for sqlite: file::memory:)
  - SeedCandidate1, SeedCandidate2: Votes present at start (default: 10 and 0)
  - TargetCandidate: Candidate whose share is held (default: 0)
  - TargetShare: Share held for the target (default: 0.51)
  - SettleDelay: Quiet period after a vote before rigging (default: 2.5s)
  - StepInterval: Pause between rigging steps (default: 600ms)
  - TokenSize, MaxStackHeight: Layout defaults (96 and 10)

# CLI Flags

	-env-file         Environment file (default: .env)
	-p                Server port
	-t                Database type
	-d                Database URL
	-seed-1, -seed-2  Seed counts
	-target           Target candidate id
	-target-share     Target share
	-settle-delay     Settle delay
	-step-interval    Step interval
	-token-size       Token size
	-max-stack-height Stacking density

# Environment Variables

Flags fall back to environment variables, which may come from the
environment file:

	PORT             → -p
	DATABASE_TYPE    → -t
	DATABASE_URL     → -d
	SEED_CANDIDATE_1 → -seed-1
	SEED_CANDIDATE_2 → -seed-2
	TARGET_CANDIDATE → -target
	TARGET_SHARE     → -target-share
	SETTLE_DELAY     → -settle-delay
	STEP_INTERVAL    → -step-interval
	TOKEN_SIZE       → -token-size
	MAX_STACK_HEIGHT → -max-stack-height

CLI flags take precedence over environment variables, and variables
already set take precedence over the environment file.

# Validation

ParseFlags returns an error if:

  - the database type is unknown
  - postgres is selected without a URL
  - a seed count is negative
  - the target candidate is not 0 or 1
  - the target share is outside (0, 1)
  - the token size or max stack height is not positive
*/
package cliparse
