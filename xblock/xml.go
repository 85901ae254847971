// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package xblock

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
)

// RootTag is the element name of a serialized poll block.
const RootTag = "pollxblock"

var (
	ErrNoRootElement  = errors.New("xml document has no root element")
	ErrUnexpectedRoot = errors.New("unexpected root element")
)

// MalformedPollXMLError reports a structurally invalid pollxblock element.
// Its message is one of a fixed set shown to course authors.
type MalformedPollXMLError struct {
	msg string
}

func (e *MalformedPollXMLError) Error() string {
	return e.msg
}

func malformed(msg string) error {
	return &MalformedPollXMLError{msg: msg}
}

// ParseXML builds a PollState from a pollxblock element.
// Vote fields are not part of the schema and stay at their zero values.
func ParseXML(root *etree.Element) (PollState, error) {
	var state PollState

	displayName := root.SelectAttr("display_name")
	if displayName == nil {
		return state, malformed(`Every "pollxblock" element must contain a "display_name" attribute.`)
	}

	question := root.SelectElement("question")
	if question == nil {
		return state, malformed(`Every pollxblock must contain a "question" element.`)
	}

	answersEl := root.SelectElement("answers")
	if answersEl == nil {
		return state, malformed(`Every pollxblock must contain a "answers" element.`)
	}

	answers := []Answer{}
	for _, el := range answersEl.SelectElements("answer") {
		id := el.SelectAttr("id")
		if id == nil {
			return state, malformed(`Every "answer" element must contain a "id" attribute.`)
		}
		answers = append(answers, Answer{ID: id.Value, Text: el.Text()})
	}

	state.DisplayName = displayName.Value
	state.Reset = Str2Bool(root.SelectAttrValue("reset", ""), false)
	state.Question = question.Text()
	state.Answers = answers
	return state, nil
}

// ParseXMLReader reads a whole document and parses its root element.
func ParseXMLReader(r io.Reader) (PollState, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return PollState{}, fmt.Errorf("read pollxblock xml: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return PollState{}, ErrNoRootElement
	}
	if root.Tag != RootTag {
		return PollState{}, fmt.Errorf("%w: %q", ErrUnexpectedRoot, root.Tag)
	}
	return ParseXML(root)
}

// ParseXMLString is ParseXMLReader for an in-memory document.
func ParseXMLString(s string) (PollState, error) {
	return ParseXMLReader(strings.NewReader(s))
}

// ExportXML serializes the schema fields of state into a pollxblock document.
func ExportXML(state PollState) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement(RootTag)
	root.CreateAttr("display_name", state.DisplayName)
	root.CreateAttr("reset", formatBool(state.Reset))
	root.CreateElement("question").SetText(state.Question)

	answers := root.CreateElement("answers")
	for _, a := range state.Answers {
		el := answers.CreateElement("answer")
		el.CreateAttr("id", a.ID)
		el.SetText(a.Text)
	}

	doc.Indent(2)
	return doc
}

// ExportXMLString renders ExportXML as text.
func ExportXMLString(state PollState) (string, error) {
	return ExportXML(state).WriteToString()
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
