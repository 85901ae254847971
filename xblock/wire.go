// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package xblock

// Wire literals of the command protocol
const (
	UnknownCommandMessage = "Unknown Command!"
	StatusSuccess         = "success"
	ConditionalObjectName = "Conditional"
)

// Command request bodies

type AnswerPollRequest struct {
	PollAnswer string `json:"poll_answer"`
}

// Reset is boolean-ish: a JSON bool or a string such as "True" or "no".
type SaveEditRequest struct {
	DisplayName string   `json:"display_name"`
	Question    string   `json:"question"`
	AnswerIDs   []string `json:"answerIds"`
	AnswerTexts []string `json:"answerTexts"`
	Reset       any      `json:"reset"`
}

// Command response bodies

type GetStateResponse struct {
	PollAnswer  string         `json:"poll_answer"`
	PollAnswers map[string]int `json:"poll_answers"`
	Total       int            `json:"total"`
}

type Callback struct {
	ObjectName string `json:"objectName"`
}

type AnswerPollResponse struct {
	PollAnswers map[string]int `json:"poll_answers"`
	Total       int            `json:"total"`
	Callback    Callback       `json:"callback"`
}

type ResetPollResponse struct {
	Status string `json:"status"`
}

type SaveEditResponse struct {
	Result string `json:"result"`
}

// ErrorResponse is the body of every rejected or unknown command.
type ErrorResponse struct {
	Error string `json:"error"`
}
