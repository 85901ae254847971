// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite file or PostgreSQL connection string (required)
  - DatabaseType: sqlite (default) or postgres
  - AdminKeySalt: Secret for admin key HMAC (required)

# CLI Flags

	-p           Server port
	-d           Database URL
	-t           Database type
	-admin-salt  Admin key salt
	-c           YAML config file
	-env-file    dotenv file (default .env)

# Sources

Each field is resolved in order:

 1. CLI flag
 2. Environment variable (PORT, DATABASE_URL, DATABASE_TYPE, ADMIN_KEY_SALT),
    including values loaded from the dotenv file
 3. YAML config file (-c or POLLXBLOCK_CONFIG)
 4. Default

A missing dotenv file is ignored. Variables already set in the
environment are not overridden by it.

# Config File

	port: 3318
	database_url: pollxblock.db
	database_type: sqlite
	admin_key_salt: change-me
*/
package cliparse
