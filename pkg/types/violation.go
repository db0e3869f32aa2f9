package types

import (
	"encoding/json"
	"fmt"
)

// MessageKind represents the kind of an explanatory message attached to a rule
type MessageKind int32

const (
	MessageKind_NOTE MessageKind = 0
	MessageKind_HELP MessageKind = 1
)

func (k MessageKind) String() string {
	switch k {
	case MessageKind_NOTE:
		return "note"
	case MessageKind_HELP:
		return "help"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler for MessageKind
func (k MessageKind) MarshalText() ([]byte, error) {
	switch k {
	case MessageKind_NOTE, MessageKind_HELP:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("unknown message kind: %d", int32(k))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for MessageKind
func (k *MessageKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "note":
		*k = MessageKind_NOTE
	case "help":
		*k = MessageKind_HELP
	default:
		return fmt.Errorf("unknown message kind: %q", string(text))
	}
	return nil
}

// Message is a single note or help entry of a rule.
// Notes explain why a pattern is dangerous, helps suggest a remediation.
type Message struct {
	Kind MessageKind `json:"kind" yaml:"kind"`
	Text string      `json:"text" yaml:"text"`
}

// Note creates a note message.
func Note(text string) Message {
	return Message{Kind: MessageKind_NOTE, Text: text}
}

// Help creates a help message.
func Help(text string) Message {
	return Message{Kind: MessageKind_HELP, Text: text}
}

// Span is a half-open [Start, End) range of byte offsets into the source text.
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end"   yaml:"end"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Valid reports whether the span is well formed for a source of the given length.
func (s Span) Valid(sourceLen int) bool {
	return 0 <= s.Start && s.Start <= s.End && s.End <= sourceLen
}

// Text returns the part of source covered by the span.
// Out of range spans are clamped to the source.
func (s Span) Text(source string) string {
	start, end := s.Start, s.End
	if start < 0 {
		start = 0
	}
	if end > len(source) {
		end = len(source)
	}
	if start > end {
		return ""
	}
	return source[start:end]
}

// Position represents a position in the source code
type Position struct {
	Line   int32 `json:"line"   yaml:"line"`
	Column int32 `json:"column" yaml:"column"`
}

// PositionOf converts a byte offset into a 1-based line and column.
// Columns count runes, not bytes.
func PositionOf(source string, offset int) Position {
	if offset > len(source) {
		offset = len(source)
	}
	line, column := int32(1), int32(1)
	for _, r := range source[:max(offset, 0)] {
		if r == '\n' {
			line++
			column = 1
			continue
		}
		column++
	}
	return Position{Line: line, Column: column}
}

// Violation is one diagnostic emitted by a rule.
//
// Messages references the owning rule's message list; it must not be modified.
type Violation struct {
	Kind     string    `json:"kind"     yaml:"kind"`
	Span     Span      `json:"span"     yaml:"span"`
	Messages []Message `json:"messages" yaml:"messages"`
}

// String returns a compact description used in logs and test failures.
func (v *Violation) String() string {
	return fmt.Sprintf("%s[%d:%d]", v.Kind, v.Span.Start, v.Span.End)
}

// MarshalJSON keeps a nil message list rendered as an empty array.
func (v Violation) MarshalJSON() ([]byte, error) {
	type violation Violation
	out := violation(v)
	if out.Messages == nil {
		out.Messages = []Message{}
	}
	return json.Marshal(out)
}
