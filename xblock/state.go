// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package xblock

// Answer is one selectable choice of a poll.
type Answer struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// PollState holds the configuration and vote tally of one poll block.
//
// Voted is true exactly when PollAnswer is non-empty. PollAnswers may keep
// keys for answers removed by a later edit.
type PollState struct {
	DisplayName string         `json:"display_name"`
	Question    string         `json:"question"`
	Answers     []Answer       `json:"answers"`
	PollAnswer  string         `json:"poll_answer"`
	PollAnswers map[string]int `json:"poll_answers"`
	Voted       bool           `json:"voted"`
	Reset       bool           `json:"reset"`
}

// Total returns the number of votes cast so far.
func (s PollState) Total() int {
	total := 0
	for _, n := range s.PollAnswers {
		total += n
	}
	return total
}

// tally returns a copy of the tally that is never nil, so it encodes as {}.
func (s PollState) tally() map[string]int {
	out := make(map[string]int, len(s.PollAnswers))
	for k, v := range s.PollAnswers {
		out[k] = v
	}
	return out
}
