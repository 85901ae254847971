// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db stores poll block field data.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same SQL runs on PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite).

# Tables

  - block: one row per block instance with its configuration and the
    shared tally (poll_answers)
  - learner: one row per (block, learner token) with that learner's
    poll_answer and voted flag

The answers list and the poll_answers tally are stored as JSON text.
A CHECK constraint keeps voted consistent with poll_answer.

# Block Store

BlockStore wraps both tables:

	store := db.NewBlockStore(conn, cfg.DatabaseType)
	id, err := store.Create(ctx, state)
	err = store.AddLearner(ctx, id, token)
	state, err = store.GetForLearner(ctx, id, token)

Update runs a read-modify-write for one learner in one transaction:

	err := store.Update(ctx, id, token, func(s *xblock.PollState) (bool, error) {
		res := xblock.Handle(s, "answer_poll", body)
		return res.Changed, nil
	})

On PostgreSQL the block row is read with SELECT ... FOR UPDATE, so commands
on the same block serialize across server processes. On SQLite the single
writer and an in-process mutex do the same.

Missing blocks return ErrBlockNotFound; tokens not registered for the block
return ErrLearnerNotFound.
*/
package db
