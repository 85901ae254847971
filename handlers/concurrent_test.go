// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/pollxblock/testutil"
	"github.com/danielhkuo/pollxblock/xblock"
)

// TestConcurrentVotes verifies that simultaneous answer_poll commands from
// different learners are all counted, while each learner's repeated votes
// are rejected, with no lost tally updates
func TestConcurrentVotes(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewCommandHandler(conn, cfg, nil)

	blockID, _ := testutil.CreateTestBlock(t, conn, cfg, xblock.PollState{
		DisplayName: "Race",
		Question:    "Who wins?",
		Answers:     []xblock.Answer{{ID: "a", Text: "A"}, {ID: "b", Text: "B"}},
	})

	numLearners := 10
	votesEach := 3
	learners := make([]string, numLearners)

	// Pre-register all learners
	for i := range learners {
		learners[i] = testutil.CreateTestLearner(t, conn, blockID)
	}

	var accepted, rejected atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numLearners; i++ {
		for j := 0; j < votesEach; j++ {
			wg.Add(1)
			go func(learnerIdx int) {
				defer wg.Done()

				answer := "a"
				if learnerIdx%2 == 1 {
					answer = "b"
				}
				w := postCommand(t, handler, blockID, "answer_poll", `{"poll_answer": "`+answer+`"}`, learnerHeader(learners[learnerIdx]))
				if w.Code != http.StatusOK {
					t.Errorf("Unexpected status %d", w.Code)
					return
				}

				var resp map[string]any
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Errorf("Failed to decode response: %v", err)
					return
				}
				if _, isErr := resp["error"]; isErr {
					rejected.Add(1)
				} else {
					accepted.Add(1)
				}
			}(i)
		}
	}

	wg.Wait()

	if int(accepted.Load()) != numLearners {
		t.Errorf("Expected %d accepted votes (one per learner), got %d", numLearners, accepted.Load())
	}
	if int(rejected.Load()) != numLearners*(votesEach-1) {
		t.Errorf("Expected %d rejected repeat votes, got %d", numLearners*(votesEach-1), rejected.Load())
	}

	state := testutil.GetTestBlock(t, conn, blockID)
	if state.Total() != numLearners {
		t.Errorf("Expected tally total %d, got %d (%v)", numLearners, state.Total(), state.PollAnswers)
	}
	if state.PollAnswers["a"] != numLearners/2 || state.PollAnswers["b"] != numLearners/2 {
		t.Errorf("Unexpected tally %v", state.PollAnswers)
	}

	for i, token := range learners {
		ls := testutil.GetTestLearnerState(t, conn, blockID, token)
		if !ls.Voted {
			t.Errorf("Learner %d has no stored vote", i)
		}
	}
}
