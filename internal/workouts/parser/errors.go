package parser

import (
	"fmt"
	"strings"
)

// ParseError points at the line (and, when known, the block and slot) that
// could not be parsed.
type ParseError struct {
	Line     int
	Category string
	Field    Field
	Token    string
	Msg      string
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString("parse error")
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(" at line %d", e.Line))
	}
	if e.Category != "" {
		sb.WriteString(fmt.Sprintf(" in block [%s]", e.Category))
	}
	if e.Field > 0 {
		sb.WriteString(fmt.Sprintf(" (field %d: %s)", e.Field, e.Field))
	}
	sb.WriteString(": ")
	sb.WriteString(e.Msg)
	if e.Token != "" {
		sb.WriteString(fmt.Sprintf(" [%s]", e.Token))
	}
	return sb.String()
}
