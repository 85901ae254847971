// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package render produces the HTML fragments shown for a poll block.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/pollxblock/xblock"
)

type Mode string

const (
	ModeStudent Mode = "student"
	ModeStudio  Mode = "studio"
)

var ErrUnknownMode = errors.New("unknown view mode")

// Fragment is a rendered view plus the name of the JS function that binds it.
type Fragment struct {
	Content      string
	InitFunction string
}

const studentTemplate = `<div class="pollxblock_block" data-voted="{{.Voted}}">
<h2 class="poll_title">{{.DisplayName}}</h2>
<div class="poll_question">{{.Question}}</div>
<form class="poll_answers">
{{- range .Answers}}
  <label class="poll_answer"><input type="radio" name="poll_answer" value="{{.ID}}"{{if eq .ID $.PollAnswer}} checked{{end}}{{if $.Voted}} disabled{{end}}> {{.Text}}</label>
{{- end}}
</form>
{{- if .Voted}}
<div class="poll_results">
{{- range .Answers}}
  <div class="poll_result" data-id="{{.ID}}">{{.Text}}: {{index $.Counts .ID}}</div>
{{- end}}
  <div class="poll_total">{{.TotalText}} votes</div>
</div>
{{- if .Reset}}
<button class="poll_reset">Vote again</button>
{{- end}}
{{- else}}
<button class="poll_submit">Submit</button>
{{- end}}
</div>
`

const studioTemplate = `<div class="editor-with-buttons">
<div class="wrapper-comp-settings is-active editor-with-buttons" id="settings-tab">
<ul class="list-input settings-list">
  <li class="field"><label for="poll_display_name">Display Name</label>
    <input type="text" id="poll_display_name" name="display_name" value="{{.DisplayName}}"></li>
  <li class="field"><label for="poll_question">Question</label>
    <textarea id="poll_question" name="question">{{.Question}}</textarea></li>
  <li class="field"><label for="poll_reset">Allow re-voting</label>
    <input type="checkbox" id="poll_reset" name="reset"{{if .Reset}} checked{{end}}></li>
</ul>
<ol class="poll_edit_answers">
{{- range .Answers}}
  <li><input type="text" name="answerIds" value="{{.ID}}"> <input type="text" name="answerTexts" value="{{.Text}}"></li>
{{- end}}
</ol>
</div>
<div class="xblock-actions">
  <button class="save-button">Save</button>
  <button class="cancel-button">Cancel</button>
</div>
</div>
`

var (
	studentTmpl = template.Must(template.New("student").Parse(studentTemplate))
	studioTmpl  = template.Must(template.New("studio").Parse(studioTemplate))
)

type studentView struct {
	xblock.PollState
	Counts    map[string]int
	TotalText string
}

// Render builds the fragment for the requested mode. It only reads state.
func Render(state xblock.PollState, mode Mode) (Fragment, error) {
	var (
		buf  bytes.Buffer
		err  error
		init string
	)

	switch mode {
	case ModeStudent:
		counts := state.PollAnswers
		if counts == nil {
			counts = map[string]int{}
		}
		err = studentTmpl.Execute(&buf, studentView{
			PollState: state,
			Counts:    counts,
			TotalText: humanize.Comma(int64(state.Total())),
		})
		init = "PollXBlock"
	case ModeStudio:
		err = studioTmpl.Execute(&buf, state)
		init = "PollXBlockEdit"
	default:
		return Fragment{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	if err != nil {
		return Fragment{}, fmt.Errorf("render %s view: %w", mode, err)
	}
	return Fragment{Content: buf.String(), InitFunction: init}, nil
}
