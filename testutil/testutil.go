// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/pollxblock/auth"
	"github.com/danielhkuo/pollxblock/cliparse"
	"github.com/danielhkuo/pollxblock/db"
	"github.com/danielhkuo/pollxblock/xblock"
)

// ImportXML is the canonical pollxblock document used across tests
const ImportXML = `<pollxblock display_name="Test Poll XBlock" reset="True">
  <question>Did you enjoy import?</question>
  <answers>
    <answer id="one">ONE</answer>
    <answer id="two">TWO</answer>
  </answers>
</pollxblock>`

// SetupTestDB opens a private in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// Every connection to :memory: is a separate database
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  ":memory:",
		DatabaseType: cliparse.DatabaseSQLite,
		AdminKeySalt: "test-admin-salt",
	}
}

// CreateTestBlock stores a block and returns its ID and admin key
func CreateTestBlock(t *testing.T, conn *sql.DB, cfg cliparse.Config, state xblock.PollState) (blockID, adminKey string) {
	t.Helper()

	blockID, err := db.NewBlockStore(conn, cliparse.DatabaseSQLite).Create(context.Background(), state)
	if err != nil {
		t.Fatalf("Failed to create test block: %v", err)
	}

	return blockID, auth.GenerateAdminKey(blockID, cfg.AdminKeySalt)
}

// GetTestBlock loads the stored state of a block
func GetTestBlock(t *testing.T, conn *sql.DB, blockID string) xblock.PollState {
	t.Helper()

	state, err := db.NewBlockStore(conn, cliparse.DatabaseSQLite).Get(context.Background(), blockID)
	if err != nil {
		t.Fatalf("Failed to load test block: %v", err)
	}
	return state
}

// CreateTestLearner registers a learner for the block and returns its token
func CreateTestLearner(t *testing.T, conn *sql.DB, blockID string) string {
	t.Helper()

	token, err := auth.GenerateLearnerToken()
	if err != nil {
		t.Fatalf("Failed to generate learner token: %v", err)
	}
	if err := db.NewBlockStore(conn, cliparse.DatabaseSQLite).AddLearner(context.Background(), blockID, token); err != nil {
		t.Fatalf("Failed to register test learner: %v", err)
	}
	return token
}

// GetTestLearnerState loads the block as seen by one learner
func GetTestLearnerState(t *testing.T, conn *sql.DB, blockID, token string) xblock.PollState {
	t.Helper()

	state, err := db.NewBlockStore(conn, cliparse.DatabaseSQLite).GetForLearner(context.Background(), blockID, token)
	if err != nil {
		t.Fatalf("Failed to load learner state: %v", err)
	}
	return state
}

// MakeRequest creates an HTTP test request with a JSON body
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// MakeXMLRequest creates an HTTP test request with a raw XML body
func MakeXMLRequest(method, path, body string, headers map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/xml")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertJSONBody compares the response body with the expected JSON document,
// ignoring formatting and key order
func AssertJSONBody(t *testing.T, w *httptest.ResponseRecorder, expected string) {
	t.Helper()

	var got, want interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to decode JSON response: %v. Body: %s", err, w.Body.String())
	}
	if err := json.Unmarshal([]byte(expected), &want); err != nil {
		t.Fatalf("Failed to decode expected JSON: %v", err)
	}

	gotJSON, _ := json.Marshal(got)
	wantJSON, _ := json.Marshal(want)
	if !bytes.Equal(gotJSON, wantJSON) {
		t.Errorf("Expected body %s, got %s", wantJSON, gotJSON)
	}
}
