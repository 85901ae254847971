// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package xblock

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Command names accepted on the handler endpoint
const (
	CmdGetState   = "get_state"
	CmdAnswerPoll = "answer_poll"
	CmdResetPoll  = "reset_poll"
	CmdSaveEdit   = "save_edit"
)

// ErrUnknownCommand is returned for unrecognized command names and for
// commands whose guard rejects the current state.
var ErrUnknownCommand = errors.New("unknown command")

// Command is one of GetState, AnswerPoll, ResetPoll or SaveEdit.
type Command interface {
	Name() string
}

type GetState struct{}

type AnswerPoll struct {
	PollAnswer string
}

type ResetPoll struct{}

type SaveEdit struct {
	DisplayName string
	Question    string
	AnswerIDs   []string
	AnswerTexts []string
	Reset       bool
}

func (GetState) Name() string   { return CmdGetState }
func (AnswerPoll) Name() string { return CmdAnswerPoll }
func (ResetPoll) Name() string  { return CmdResetPoll }
func (SaveEdit) Name() string   { return CmdSaveEdit }

// KnownCommand reports whether name is one of the four command names.
func KnownCommand(name string) bool {
	switch name {
	case CmdGetState, CmdAnswerPoll, CmdResetPoll, CmdSaveEdit:
		return true
	}
	return false
}

// DecodeCommand turns a command name and its JSON body into a Command.
// get_state and reset_poll ignore the body.
func DecodeCommand(name string, body []byte) (Command, error) {
	switch name {
	case CmdGetState:
		return GetState{}, nil

	case CmdAnswerPoll:
		var req AnswerPollRequest
		if err := decodeBody(body, &req); err != nil {
			return nil, err
		}
		return AnswerPoll{PollAnswer: req.PollAnswer}, nil

	case CmdResetPoll:
		return ResetPoll{}, nil

	case CmdSaveEdit:
		var req SaveEditRequest
		if err := decodeBody(body, &req); err != nil {
			return nil, err
		}
		return SaveEdit{
			DisplayName: req.DisplayName,
			Question:    req.Question,
			AnswerIDs:   req.AnswerIDs,
			AnswerTexts: req.AnswerTexts,
			Reset:       coerceReset(req.Reset),
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

func decodeBody(body []byte, v any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode command body: %w", err)
	}
	return nil
}

// A JSON boolean is taken as is; anything else goes through Str2Bool.
func coerceReset(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return Str2Bool(v, false)
}

// Apply runs cmd against state and returns the next state with the
// response body. On error the returned state is the input state.
func Apply(state PollState, cmd Command) (PollState, any, error) {
	switch c := cmd.(type) {
	case GetState:
		return state, GetStateResponse{
			PollAnswer:  state.PollAnswer,
			PollAnswers: state.tally(),
			Total:       state.Total(),
		}, nil

	case AnswerPoll:
		// an empty answer would leave voted set with no poll_answer
		if state.Voted || c.PollAnswer == "" {
			return state, nil, fmt.Errorf("%w: answer_poll not allowed", ErrUnknownCommand)
		}
		next := state
		next.PollAnswers = state.tally()
		next.PollAnswers[c.PollAnswer]++
		next.PollAnswer = c.PollAnswer
		next.Voted = true
		return next, AnswerPollResponse{
			PollAnswers: next.tally(),
			Total:       next.Total(),
			Callback:    Callback{ObjectName: ConditionalObjectName},
		}, nil

	case ResetPoll:
		if !state.Reset || !state.Voted {
			return state, nil, fmt.Errorf("%w: reset_poll not allowed", ErrUnknownCommand)
		}
		next := state
		next.PollAnswer = ""
		next.Voted = false
		return next, ResetPollResponse{Status: StatusSuccess}, nil

	case SaveEdit:
		n := min(len(c.AnswerIDs), len(c.AnswerTexts))
		answers := make([]Answer, 0, n)
		for i := 0; i < n; i++ {
			answers = append(answers, Answer{ID: c.AnswerIDs[i], Text: c.AnswerTexts[i]})
		}
		next := state
		next.DisplayName = c.DisplayName
		next.Question = c.Question
		next.Answers = answers
		next.Reset = c.Reset
		return next, SaveEditResponse{Result: StatusSuccess}, nil
	}

	return state, nil, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
}

// Result is the outcome of one dispatched command.
type Result struct {
	// Response is the JSON body for the caller.
	Response any
	// Changed reports whether the state was modified and must be saved.
	Changed bool
	// Err is the internal reason for a rejection. It is never sent to the
	// caller, who only sees the "Unknown Command!" body.
	Err error
}

// Handle dispatches a named command against state, updating it in place.
// Every failure, whether an unknown name, an undecodable body or a
// rejected guard, produces the same {"error": "Unknown Command!"} body.
func Handle(state *PollState, name string, body []byte) Result {
	cmd, err := DecodeCommand(name, body)
	if err != nil {
		return rejected(err)
	}

	next, resp, err := Apply(*state, cmd)
	if err != nil {
		return rejected(err)
	}

	_, readOnly := cmd.(GetState)
	*state = next
	return Result{Response: resp, Changed: !readOnly}
}

func rejected(err error) Result {
	return Result{
		Response: ErrorResponse{Error: UnknownCommandMessage},
		Err:      err,
	}
}
