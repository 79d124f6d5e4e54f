package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	setsRepsRegex = regexp.MustCompile(`(?i)^(\S+?)\s*sets?\s*x\s*(\S+?)\s*reps?$`)
	weightRegex   = regexp.MustCompile(`(?i)^(\S+?)\s*kgs?$`)
	durationRegex = regexp.MustCompile(`(?i)^(\S+?)\s*(?:min|mins|minute|minutes)$`)
	caloriesRegex = regexp.MustCompile(`(?i)^(\S+?)\s*(?:kcal|cal|cals|calories)$`)
)

type state int

const (
	stateIdle state = iota
	stateInBlock
)

// fsm walks the input line by line. A block is open from its '#' header
// until the next header or the end of input.
type fsm struct {
	state  state
	blocks []Block
	// current block and the number of slots it has filled so far
	current Block
	filled  int
}

// Parse turns the raw workout text into blocks, in the order they were written.
//
//	#Legs
//	-Back Squat
//	-5 sets X 15 reps
//	-30 kg
//	-10 min
//	-120 kcal (optional)
//
// It returns a *ParseError on the first line that does not fit the grammar.
func Parse(raw string) ([]Block, error) {
	m := &fsm{}
	for i, line := range strings.Split(raw, "\n") {
		if err := m.feed(i+1, strings.TrimSpace(line)); err != nil {
			return nil, err
		}
	}
	if err := m.closeBlock(); err != nil {
		return nil, err
	}
	if len(m.blocks) == 0 {
		return nil, &ParseError{Msg: "no workout blocks found, a block starts with '#category'"}
	}
	return m.blocks, nil
}

func (m *fsm) feed(lineNo int, line string) error {
	if line == "" {
		return nil
	}

	switch {
	case strings.HasPrefix(line, "#"):
		if err := m.closeBlock(); err != nil {
			return err
		}
		m.state = stateInBlock
		m.current = Block{
			Line:     lineNo,
			Category: strings.TrimSpace(strings.TrimPrefix(line, "#")),
		}
		m.filled = 0
		return nil
	case strings.HasPrefix(line, "-"):
		if m.state != stateInBlock {
			return &ParseError{
				Line: lineNo,
				Msg:  "field line outside of a block, start the block with '#category'",
			}
		}
		return m.fillSlot(lineNo, strings.TrimSpace(strings.TrimPrefix(line, "-")))
	default:
		return &ParseError{
			Line:     lineNo,
			Category: m.current.Category,
			Msg:      "line must start with '#' or '-'",
			Token:    line,
		}
	}
}

func (m *fsm) fillSlot(lineNo int, value string) error {
	field := Field(m.filled + 1)
	switch field {
	case FieldName:
		m.current.Name = value
	case FieldSetsReps:
		sets, reps, err := m.parseSetsReps(lineNo, value)
		if err != nil {
			return err
		}
		m.current.Sets, m.current.Reps = sets, reps
	case FieldWeight:
		weight, err := m.parseMeasure(lineNo, field, value, weightRegex, "<number> kg")
		if err != nil {
			return err
		}
		m.current.Weight = weight
	case FieldDuration:
		duration, err := m.parseMeasure(lineNo, field, value, durationRegex, "<number> min")
		if err != nil {
			return err
		}
		m.current.Duration = duration
	case FieldCalories:
		calories, err := m.parseMeasure(lineNo, field, value, caloriesRegex, "<number> kcal")
		if err != nil {
			return err
		}
		m.current.Calories = &calories
	default:
		return &ParseError{
			Line:     lineNo,
			Category: m.current.Category,
			Msg:      "too many lines in block",
			Token:    value,
		}
	}
	m.filled++
	return nil
}

func (m *fsm) closeBlock() error {
	if m.state != stateInBlock {
		return nil
	}
	if m.filled < requiredFields {
		missing := Field(m.filled + 1)
		return &ParseError{
			Line:     m.current.Line,
			Category: m.current.Category,
			Field:    missing,
			Msg:      "missing " + missing.String() + " line",
		}
	}
	m.blocks = append(m.blocks, m.current)
	m.state = stateIdle
	m.current = Block{}
	m.filled = 0
	return nil
}

func (m *fsm) parseSetsReps(lineNo int, value string) (int, int, error) {
	match := setsRepsRegex.FindStringSubmatch(value)
	if match == nil {
		return 0, 0, m.slotError(lineNo, FieldSetsReps, value, "expected '<int> sets X <int> reps'")
	}
	sets, err := strconv.Atoi(match[1])
	if err != nil || sets < 0 {
		return 0, 0, m.slotError(lineNo, FieldSetsReps, match[1], "sets must be a non-negative integer")
	}
	reps, err := strconv.Atoi(match[2])
	if err != nil || reps < 0 {
		return 0, 0, m.slotError(lineNo, FieldSetsReps, match[2], "reps must be a non-negative integer")
	}
	return sets, reps, nil
}

func (m *fsm) parseMeasure(lineNo int, field Field, value string, re *regexp.Regexp, format string) (float64, error) {
	match := re.FindStringSubmatch(value)
	if match == nil {
		return 0, m.slotError(lineNo, field, value, "expected '"+format+"'")
	}
	number, ok := nonNegativeNumber(match[1])
	if !ok {
		return 0, m.slotError(lineNo, field, match[1], field.String()+" must be a non-negative number")
	}
	return number, nil
}

func (m *fsm) slotError(lineNo int, field Field, token, msg string) *ParseError {
	return &ParseError{
		Line:     lineNo,
		Category: m.current.Category,
		Field:    field,
		Token:    token,
		Msg:      msg,
	}
}

func nonNegativeNumber(token string) (float64, bool) {
	number, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) || number < 0 {
		return 0, false
	}
	if number == 0 {
		// drops the sign of "-0"
		return 0, true
	}
	return number, true
}
