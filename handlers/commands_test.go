// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/danielhkuo/pollxblock/testutil"
	"github.com/danielhkuo/pollxblock/xblock"
)

func pollFixture() xblock.PollState {
	return xblock.PollState{
		DisplayName: "Lunch",
		Question:    "What should we eat?",
		Answers:     []xblock.Answer{{ID: "pizza", Text: "Pizza"}, {ID: "tacos", Text: "Tacos"}},
		PollAnswers: map[string]int{"pizza": 2},
		Reset:       true,
	}
}

func postCommand(t *testing.T, handler *CommandHandler, blockID, command, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("POST", "/blocks/"+blockID+"/handler/"+command, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.SetPathValue("id", blockID)
	req.SetPathValue("command", command)

	w := httptest.NewRecorder()
	handler.HandleCommand(w, req)
	return w
}

func learnerHeader(token string) map[string]string {
	return map[string]string{"X-Learner-Token": token}
}

type commandFixture struct {
	conn     *sql.DB
	handler  *CommandHandler
	blockID  string
	adminKey string
	learner  string
}

func newCommandFixture(t *testing.T) commandFixture {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	blockID, adminKey := testutil.CreateTestBlock(t, conn, cfg, pollFixture())
	return commandFixture{
		conn:     conn,
		handler:  NewCommandHandler(conn, cfg, nil),
		blockID:  blockID,
		adminKey: adminKey,
		learner:  testutil.CreateTestLearner(t, conn, blockID),
	}
}

func TestHandleCommand(t *testing.T) {
	tests := []struct {
		name         string
		command      string
		body         string
		expectedBody string
	}{
		{
			name:         "get_state",
			command:      "get_state",
			body:         `{}`,
			expectedBody: `{"poll_answer": "", "poll_answers": {"pizza": 2}, "total": 2}`,
		},
		{
			name:         "answer_poll",
			command:      "answer_poll",
			body:         `{"poll_answer": "tacos"}`,
			expectedBody: `{"poll_answers": {"pizza": 2, "tacos": 1}, "total": 3, "callback": {"objectName": "Conditional"}}`,
		},
		{
			name:         "reset_poll before voting",
			command:      "reset_poll",
			body:         `{}`,
			expectedBody: `{"error": "Unknown Command!"}`,
		},
		{
			name:         "unknown command",
			command:      "drop_tables",
			body:         `{}`,
			expectedBody: `{"error": "Unknown Command!"}`,
		},
		{
			name:         "malformed body",
			command:      "answer_poll",
			body:         `{"poll_answer": `,
			expectedBody: `{"error": "Unknown Command!"}`,
		},
		{
			name:         "empty body",
			command:      "get_state",
			body:         ``,
			expectedBody: `{"poll_answer": "", "poll_answers": {"pizza": 2}, "total": 2}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newCommandFixture(t)

			w := postCommand(t, fx.handler, fx.blockID, tt.command, tt.body, learnerHeader(fx.learner))

			testutil.AssertStatus(t, w, http.StatusOK)
			testutil.AssertJSONBody(t, w, tt.expectedBody)
		})
	}
}

func TestHandleCommandPersistsState(t *testing.T) {
	fx := newCommandFixture(t)

	w := postCommand(t, fx.handler, fx.blockID, "answer_poll", `{"poll_answer": "pizza"}`, learnerHeader(fx.learner))
	testutil.AssertStatus(t, w, http.StatusOK)

	state := testutil.GetTestLearnerState(t, fx.conn, fx.blockID, fx.learner)
	if !state.Voted || state.PollAnswer != "pizza" {
		t.Errorf("Expected stored vote for pizza, got voted=%v poll_answer=%q", state.Voted, state.PollAnswer)
	}
	if state.PollAnswers["pizza"] != 3 {
		t.Errorf("Expected pizza tally 3, got %d", state.PollAnswers["pizza"])
	}
}

func TestHandleCommandRejectionLeavesState(t *testing.T) {
	fx := newCommandFixture(t)

	before := testutil.GetTestLearnerState(t, fx.conn, fx.blockID, fx.learner)

	for _, command := range []string{"reset_poll", "unknown"} {
		w := postCommand(t, fx.handler, fx.blockID, command, `{}`, learnerHeader(fx.learner))
		testutil.AssertStatus(t, w, http.StatusOK)
		testutil.AssertJSONBody(t, w, `{"error": "Unknown Command!"}`)
	}

	after := testutil.GetTestLearnerState(t, fx.conn, fx.blockID, fx.learner)
	if !reflect.DeepEqual(before, after) {
		t.Errorf("Rejected commands changed state: %+v -> %+v", before, after)
	}
}

func TestLearnerTokenRequired(t *testing.T) {
	fx := newCommandFixture(t)

	otherID, _ := testutil.CreateTestBlock(t, fx.conn, testutil.GetTestConfig(), pollFixture())
	otherLearner := testutil.CreateTestLearner(t, fx.conn, otherID)

	tests := []struct {
		name           string
		command        string
		headers        map[string]string
		expectedStatus int
	}{
		{"answer_poll without token", "answer_poll", nil, http.StatusUnauthorized},
		{"reset_poll without token", "reset_poll", nil, http.StatusUnauthorized},
		{"unregistered token", "answer_poll", learnerHeader("not-a-learner"), http.StatusForbidden},
		{"token of another block", "answer_poll", learnerHeader(otherLearner), http.StatusForbidden},
		{"get_state with unregistered token", "get_state", learnerHeader("not-a-learner"), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postCommand(t, fx.handler, fx.blockID, tt.command, `{"poll_answer": "pizza"}`, tt.headers)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	if state := testutil.GetTestBlock(t, fx.conn, fx.blockID); state.PollAnswers["pizza"] != 2 {
		t.Errorf("Rejected requests changed the tally: %v", state.PollAnswers)
	}
}

func TestVotesArePerLearner(t *testing.T) {
	fx := newCommandFixture(t)
	second := testutil.CreateTestLearner(t, fx.conn, fx.blockID)

	w := postCommand(t, fx.handler, fx.blockID, "answer_poll", `{"poll_answer": "tacos"}`, learnerHeader(fx.learner))
	testutil.AssertJSONBody(t, w, `{"poll_answers": {"pizza": 2, "tacos": 1}, "total": 3, "callback": {"objectName": "Conditional"}}`)

	// A different learner still gets to vote
	w = postCommand(t, fx.handler, fx.blockID, "answer_poll", `{"poll_answer": "pizza"}`, learnerHeader(second))
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSONBody(t, w, `{"poll_answers": {"pizza": 3, "tacos": 1}, "total": 4, "callback": {"objectName": "Conditional"}}`)

	// The same learner does not
	w = postCommand(t, fx.handler, fx.blockID, "answer_poll", `{"poll_answer": "pizza"}`, learnerHeader(fx.learner))
	testutil.AssertJSONBody(t, w, `{"error": "Unknown Command!"}`)

	// Each learner sees their own answer against the shared tally
	tests := []struct {
		name         string
		headers      map[string]string
		expectedBody string
	}{
		{"first learner", learnerHeader(fx.learner), `{"poll_answer": "tacos", "poll_answers": {"pizza": 3, "tacos": 1}, "total": 4}`},
		{"second learner", learnerHeader(second), `{"poll_answer": "pizza", "poll_answers": {"pizza": 3, "tacos": 1}, "total": 4}`},
		{"anonymous", nil, `{"poll_answer": "", "poll_answers": {"pizza": 3, "tacos": 1}, "total": 4}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postCommand(t, fx.handler, fx.blockID, "get_state", `{}`, tt.headers)
			testutil.AssertStatus(t, w, http.StatusOK)
			testutil.AssertJSONBody(t, w, tt.expectedBody)
		})
	}
}

func TestSaveEditRequiresAdmin(t *testing.T) {
	fx := newCommandFixture(t)

	body := `{"display_name": "Dinner", "question": "Where?", "answerIds": ["a", "b", "c"], "answerTexts": ["A", "B"], "reset": "no"}`

	tests := []struct {
		name           string
		headers        map[string]string
		expectedStatus int
	}{
		{"missing key", nil, http.StatusUnauthorized},
		{"wrong key", map[string]string{"X-Admin-Key": "nope"}, http.StatusForbidden},
		{"learner token is not an admin key", learnerHeader(fx.learner), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postCommand(t, fx.handler, fx.blockID, "save_edit", body, tt.headers)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if state := testutil.GetTestBlock(t, fx.conn, fx.blockID); state.DisplayName != "Lunch" {
				t.Errorf("Unauthorized save_edit changed display name to %q", state.DisplayName)
			}
		})
	}

	t.Run("valid key", func(t *testing.T) {
		w := postCommand(t, fx.handler, fx.blockID, "save_edit", body, map[string]string{"X-Admin-Key": fx.adminKey})
		testutil.AssertStatus(t, w, http.StatusOK)
		testutil.AssertJSONBody(t, w, `{"result": "success"}`)

		state := testutil.GetTestBlock(t, fx.conn, fx.blockID)
		want := []xblock.Answer{{ID: "a", Text: "A"}, {ID: "b", Text: "B"}}
		if state.DisplayName != "Dinner" || state.Question != "Where?" || state.Reset {
			t.Errorf("Unexpected edited fields: %+v", state)
		}
		if !reflect.DeepEqual(state.Answers, want) {
			t.Errorf("Expected answers %+v, got %+v", want, state.Answers)
		}
		if state.PollAnswers["pizza"] != 2 {
			t.Errorf("save_edit must keep the tally, got %v", state.PollAnswers)
		}
	})
}

func TestHandleCommandUnknownBlock(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewCommandHandler(conn, testutil.GetTestConfig(), nil)

	w := postCommand(t, handler, "missing", "get_state", `{}`, nil)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestPollWorkflow(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	blocks := NewBlockHandler(conn, cfg, nil)
	learners := NewLearnerHandler(conn, cfg, nil)
	commands := NewCommandHandler(conn, cfg, nil)

	// Import
	req := testutil.MakeXMLRequest("POST", "/blocks/import", testutil.ImportXML, nil)
	w := httptest.NewRecorder()
	blocks.ImportBlock(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var created struct {
		BlockID  string `json:"block_id"`
		AdminKey string `json:"admin_key"`
	}
	testutil.AssertJSON(t, w, &created)
	id := created.BlockID

	register := func() string {
		req := testutil.MakeRequest("POST", "/blocks/"+id+"/learners", nil, nil)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		learners.Register(w, req)
		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp struct {
			LearnerToken string `json:"learner_token"`
		}
		testutil.AssertJSON(t, w, &resp)
		return resp.LearnerToken
	}
	ann, ben := register(), register()

	steps := []struct {
		learner      string
		command      string
		body         string
		expectedBody string
	}{
		{ann, "get_state", `{}`, `{"poll_answer": "", "poll_answers": {}, "total": 0}`},
		{ann, "answer_poll", `{"poll_answer": "one"}`, `{"poll_answers": {"one": 1}, "total": 1, "callback": {"objectName": "Conditional"}}`},
		{ann, "answer_poll", `{"poll_answer": "two"}`, `{"error": "Unknown Command!"}`},
		{ben, "answer_poll", `{"poll_answer": "two"}`, `{"poll_answers": {"one": 1, "two": 1}, "total": 2, "callback": {"objectName": "Conditional"}}`},
		{ann, "get_state", `{}`, `{"poll_answer": "one", "poll_answers": {"one": 1, "two": 1}, "total": 2}`},
		{ann, "reset_poll", `{}`, `{"status": "success"}`},
		{ann, "reset_poll", `{}`, `{"error": "Unknown Command!"}`},
		{ben, "get_state", `{}`, `{"poll_answer": "two", "poll_answers": {"one": 1, "two": 1}, "total": 2}`},
		{ann, "answer_poll", `{"poll_answer": "two"}`, `{"poll_answers": {"one": 1, "two": 2}, "total": 3, "callback": {"objectName": "Conditional"}}`},
		{ann, "get_state", `{}`, `{"poll_answer": "two", "poll_answers": {"one": 1, "two": 2}, "total": 3}`},
	}

	for i, step := range steps {
		w := postCommand(t, commands, id, step.command, step.body, learnerHeader(step.learner))
		testutil.AssertStatus(t, w, http.StatusOK)
		if t.Failed() {
			t.Fatalf("step %d (%s) failed", i, step.command)
		}
		testutil.AssertJSONBody(t, w, step.expectedBody)
	}

	// Export still reflects the imported definition
	req = testutil.MakeRequest("GET", "/blocks/"+id+"/export", nil, map[string]string{"X-Admin-Key": created.AdminKey})
	req.SetPathValue("id", id)
	w = httptest.NewRecorder()
	blocks.ExportBlock(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	want, err := xblock.ParseXMLString(testutil.ImportXML)
	if err != nil {
		t.Fatalf("Failed to parse fixture: %v", err)
	}
	got, err := xblock.ParseXMLString(w.Body.String())
	if err != nil {
		t.Fatalf("Exported XML does not parse: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Exported definition %+v, want %+v", got, want)
	}
}
