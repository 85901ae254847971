// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/pollxblock/cliparse"
	"github.com/danielhkuo/pollxblock/xblock"
)

var (
	ErrBlockNotFound   = errors.New("block not found")
	ErrLearnerNotFound = errors.New("learner not registered for block")
)

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// BlockStore persists the field data of poll block instances.
// Definition fields and the tally are stored per block; poll_answer and
// voted are stored per (block, learner).
type BlockStore struct {
	db *sql.DB

	// PostgreSQL locks the block row in Update so that several server
	// processes serialize on it. SQLite has a single writer already.
	lockRows bool

	// serializes Update within this process
	mu sync.Mutex
}

// NewBlockStore wraps db. dbType is the configured database type
// (cliparse.DatabaseSQLite or cliparse.DatabasePostgres).
func NewBlockStore(db *sql.DB, dbType string) *BlockStore {
	return &BlockStore{db: db, lockRows: dbType == cliparse.DatabasePostgres}
}

// Create stores a new block and returns its generated ID.
// Learner fields of state are ignored.
func (s *BlockStore) Create(ctx context.Context, state xblock.PollState) (string, error) {
	answers, tally, err := encodeFields(state)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	now := time.Now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO block (id, display_name, question, answers, poll_answers, reset, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, state.DisplayName, state.Question, answers, tally, state.Reset, now, now)
	if err != nil {
		return "", fmt.Errorf("insert block: %w", err)
	}

	return id, nil
}

// AddLearner registers token as a learner of the block.
func (s *BlockStore) AddLearner(ctx context.Context, blockID, token string) error {
	now := time.Now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO learner (block_id, token, created_at, updated_at)
		SELECT id, $2, $3, $4 FROM block WHERE id = $1
	`, blockID, token, now, now)
	if err != nil {
		return fmt.Errorf("insert learner: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert learner: %w", err)
	}
	if n == 0 {
		return ErrBlockNotFound
	}
	return nil
}

// Get loads the block state as seen by no particular learner:
// poll_answer is empty and voted is false.
func (s *BlockStore) Get(ctx context.Context, id string) (xblock.PollState, error) {
	return getBlock(ctx, s.db, s.blockQuery(false), id)
}

// GetForLearner loads the block state with the vote fields of learner.
// An empty learner is the same as Get.
func (s *BlockStore) GetForLearner(ctx context.Context, id, learner string) (xblock.PollState, error) {
	state, err := s.Get(ctx, id)
	if err != nil || learner == "" {
		return state, err
	}
	if err := getLearner(ctx, s.db, id, learner, &state); err != nil {
		return xblock.PollState{}, err
	}
	return state, nil
}

// Save overwrites the stored definition and tally of an existing block.
func (s *BlockStore) Save(ctx context.Context, id string, state xblock.PollState) error {
	return saveBlock(ctx, s.db, id, state)
}

// Delete removes a block and its learners.
func (s *BlockStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// SQLite does not enforce ON DELETE CASCADE unless foreign keys are enabled
	if _, err := tx.ExecContext(ctx, `DELETE FROM learner WHERE block_id = $1`, id); err != nil {
		return fmt.Errorf("delete learners: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM block WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete block: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete block: %w", err)
	}
	if n == 0 {
		return ErrBlockNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Update loads a block as seen by learner, passes it to fn and saves the
// result in the same transaction when fn reports a change. An error from fn
// aborts the update.
//
// With an empty learner the vote fields start empty and are not saved, so
// callers must not run learner commands anonymously.
func (s *BlockStore) Update(ctx context.Context, id, learner string, fn func(*xblock.PollState) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	state, err := getBlock(ctx, tx, s.blockQuery(true), id)
	if err != nil {
		return err
	}
	if learner != "" {
		if err := getLearner(ctx, tx, id, learner, &state); err != nil {
			return err
		}
	}

	changed, err := fn(&state)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err := saveBlock(ctx, tx, id, state); err != nil {
		return err
	}
	if learner != "" {
		if err := saveLearner(ctx, tx, id, learner, state); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// blockQuery selects one block row, locking it for the rest of the
// transaction when forUpdate is set and the database supports row locks.
func (s *BlockStore) blockQuery(forUpdate bool) string {
	q := `
		SELECT display_name, question, answers, poll_answers, reset
		FROM block
		WHERE id = $1`
	if forUpdate && s.lockRows {
		q += `
		FOR UPDATE`
	}
	return q
}

func getBlock(ctx context.Context, q queryer, query, id string) (xblock.PollState, error) {
	var (
		state   xblock.PollState
		answers string
		tally   string
	)
	err := q.QueryRowContext(ctx, query, id).Scan(&state.DisplayName, &state.Question, &answers, &tally, &state.Reset)

	if err == sql.ErrNoRows {
		return xblock.PollState{}, ErrBlockNotFound
	}
	if err != nil {
		return xblock.PollState{}, fmt.Errorf("query block: %w", err)
	}

	if err := json.Unmarshal([]byte(answers), &state.Answers); err != nil {
		return xblock.PollState{}, fmt.Errorf("decode answers of block %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(tally), &state.PollAnswers); err != nil {
		return xblock.PollState{}, fmt.Errorf("decode poll_answers of block %s: %w", id, err)
	}

	return state, nil
}

func getLearner(ctx context.Context, q queryer, blockID, learner string, state *xblock.PollState) error {
	err := q.QueryRowContext(ctx, `
		SELECT poll_answer, voted
		FROM learner
		WHERE block_id = $1 AND token = $2
	`, blockID, learner).Scan(&state.PollAnswer, &state.Voted)

	if err == sql.ErrNoRows {
		return ErrLearnerNotFound
	}
	if err != nil {
		return fmt.Errorf("query learner: %w", err)
	}
	return nil
}

func saveBlock(ctx context.Context, q queryer, id string, state xblock.PollState) error {
	answers, tally, err := encodeFields(state)
	if err != nil {
		return err
	}

	res, err := q.ExecContext(ctx, `
		UPDATE block
		SET display_name = $1, question = $2, answers = $3, poll_answers = $4,
		    reset = $5, updated_at = $6
		WHERE id = $7
	`, state.DisplayName, state.Question, answers, tally, state.Reset, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update block: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update block: %w", err)
	}
	if n == 0 {
		return ErrBlockNotFound
	}
	return nil
}

func saveLearner(ctx context.Context, q queryer, blockID, learner string, state xblock.PollState) error {
	res, err := q.ExecContext(ctx, `
		UPDATE learner
		SET poll_answer = $1, voted = $2, updated_at = $3
		WHERE block_id = $4 AND token = $5
	`, state.PollAnswer, state.Voted, time.Now(), blockID, learner)
	if err != nil {
		return fmt.Errorf("update learner: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update learner: %w", err)
	}
	if n == 0 {
		return ErrLearnerNotFound
	}
	return nil
}

// encodeFields renders the list and map fields as JSON text columns.
func encodeFields(state xblock.PollState) (answers, tally string, err error) {
	list := state.Answers
	if list == nil {
		list = []xblock.Answer{}
	}
	counts := state.PollAnswers
	if counts == nil {
		counts = map[string]int{}
	}

	a, err := json.Marshal(list)
	if err != nil {
		return "", "", fmt.Errorf("encode answers: %w", err)
	}
	c, err := json.Marshal(counts)
	if err != nil {
		return "", "", fmt.Errorf("encode poll_answers: %w", err)
	}
	return string(a), string(c), nil
}
