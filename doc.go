// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the pollxblock runtime.

pollxblock is an embeddable poll widget: a question with selectable
answers, one vote per learner, a running tally, and an instructor editor.
The block definition imports from and exports to a small XML document.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=pollxblock.db ADMIN_KEY_SALT=secret go run .

Or with flags, against PostgreSQL:

	go run . -p 3318 -t postgres -d "postgres://..." -admin-salt secret

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - POLLXBLOCK_CONFIG (-c): YAML config file
  - -env-file: dotenv file (default: .env)

# Architecture

  - xblock: poll state, commands, XML codec (no I/O)
  - render: student and studio HTML fragments
  - db: schema and block storage
  - handlers: HTTP request handlers (blocks, commands, views)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, metrics, response helpers
  - metrics: Prometheus collectors
  - models: Request/response types
  - auth: Admin key generation and validation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
