// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package xblock implements the poll block: its state, the command state
machine and the pollxblock XML format.

# State

PollState holds the question, the ordered answers, the learner's current
answer and the running tally:

	state := xblock.PollState{Question: "Lunch?", Reset: true}

# Commands

Four commands drive the state machine:

	get_state    read the current answer and tally
	answer_poll  vote once (rejected after voting)
	reset_poll   clear the vote (only when reset is allowed)
	save_edit    replace display name, question, answers and reset

Apply is the pure form, operating on a typed Command:

	next, resp, err := xblock.Apply(state, xblock.AnswerPoll{PollAnswer: "one"})

Handle is the dispatch boundary used by the HTTP transport. It takes the
wire name and JSON body, and turns every rejection into the literal
{"error": "Unknown Command!"} body:

	res := xblock.Handle(&state, "answer_poll", body)
	if res.Changed {
		// persist state
	}

# XML

ParseXML and ExportXML convert between PollState and:

	<pollxblock display_name="..." reset="True">
	  <question>...</question>
	  <answers>
	    <answer id="one">ONE</answer>
	  </answers>
	</pollxblock>

Structural problems are reported as *MalformedPollXMLError with a fixed
message. The reset attribute is read with Str2Bool and written as
"True" or "False".
*/
package xblock
