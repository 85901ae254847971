// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/pollxblock/models"
	"github.com/danielhkuo/pollxblock/testutil"
)

func TestRegisterLearner(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewLearnerHandler(conn, cfg, nil)

	blockID, _ := testutil.CreateTestBlock(t, conn, cfg, pollFixture())

	tests := []struct {
		name           string
		blockID        string
		expectedStatus int
	}{
		{"existing block", blockID, http.StatusCreated},
		{"unknown block", "missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/blocks/"+tt.blockID+"/learners", nil, nil)
			req.SetPathValue("id", tt.blockID)
			w := httptest.NewRecorder()

			handler.Register(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus != http.StatusCreated {
				return
			}

			var resp models.RegisterLearnerResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.LearnerToken == "" {
				t.Fatal("Expected non-empty learner_token")
			}

			// A fresh learner has not voted yet
			state := testutil.GetTestLearnerState(t, conn, tt.blockID, resp.LearnerToken)
			if state.Voted || state.PollAnswer != "" {
				t.Errorf("Expected fresh learner, got voted=%v poll_answer=%q", state.Voted, state.PollAnswer)
			}
		})
	}
}

func TestRegisterLearnerIssuesDistinctTokens(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewLearnerHandler(conn, cfg, nil)

	blockID, _ := testutil.CreateTestBlock(t, conn, cfg, pollFixture())

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		req := testutil.MakeRequest("POST", "/blocks/"+blockID+"/learners", nil, nil)
		req.SetPathValue("id", blockID)
		w := httptest.NewRecorder()
		handler.Register(w, req)
		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp models.RegisterLearnerResponse
		testutil.AssertJSON(t, w, &resp)
		if seen[resp.LearnerToken] {
			t.Fatalf("Duplicate learner token %q", resp.LearnerToken)
		}
		seen[resp.LearnerToken] = true
	}
}
