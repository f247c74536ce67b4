package qa

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrMalformed is the base error wrapped by every parse failure.
	ErrMalformed = errors.New("malformed question/answer text")
	// ErrEmptyInput indicates the text contained no question lines at all.
	ErrEmptyInput = fmt.Errorf("%w: no question/answer content found", ErrMalformed)
	// ErrUnrecognizedFormat indicates text that does not follow the Q/A grammar.
	ErrUnrecognizedFormat = fmt.Errorf("%w: unrecognized question/answer format", ErrMalformed)
)

// Pair is one question with its answer, ordered by Position (1-based).
type Pair struct {
	Position int    `json:"position"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

var linePrefix = regexp.MustCompile(`(?i)^(q|a)(\d*)\s*[:.]\s*(.*)$`)

// Parse converts line-oriented Q/A text into ordered pairs.
//
// A line starting with "Q:" or "Qn:" opens a question; "A:"/"An:" opens the
// answer for the question that precedes it. Prefixes are case-insensitive and
// blank lines are skipped. Lines without a prefix continue the current
// question or answer, since transcripts wrap freely. When both lines of a
// pair carry explicit indices they must agree.
//
// Every question must have an answer before the next question starts; a
// dangling question or an answer without a question is an error, never a
// silently dropped or mispaired entry.
func Parse(text string) ([]Pair, error) {
	var pairs []Pair
	var current *Pair
	inAnswer := false
	questionIndex := 0
	declared := 0

	for lineNo, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		match := linePrefix.FindStringSubmatch(line)
		if match == nil {
			if current == nil {
				return nil, fmt.Errorf("line %d: %w", lineNo+1, ErrUnrecognizedFormat)
			}
			// Continuation of the current question or answer.
			if inAnswer {
				current.Answer = joinText(current.Answer, line)
			} else {
				current.Question = joinText(current.Question, line)
			}
			continue
		}

		kind := strings.ToLower(match[1])
		index := match[2]
		body := strings.TrimSpace(match[3])

		switch kind {
		case "q":
			if current != nil && !inAnswer {
				return nil, fmt.Errorf("%w: question %d has no answer", ErrMalformed, current.Position)
			}
			if current != nil {
				pairs = append(pairs, *current)
			}
			questionIndex++
			current = &Pair{Position: questionIndex, Question: body}
			inAnswer = false
			declared = 0
			if index != "" {
				declared, _ = strconv.Atoi(index)
			}
		case "a":
			if current == nil {
				return nil, fmt.Errorf("%w: line %d: answer without a preceding question", ErrMalformed, lineNo+1)
			}
			if inAnswer {
				return nil, fmt.Errorf("%w: line %d: duplicate answer for question %d", ErrMalformed, lineNo+1, current.Position)
			}
			if index != "" && declared != 0 {
				if n, err := strconv.Atoi(index); err == nil && n != declared {
					return nil, fmt.Errorf("%w: answer %d does not match question %d", ErrMalformed, n, declared)
				}
			}
			current.Answer = body
			inAnswer = true
		}
	}

	if current != nil {
		if !inAnswer {
			return nil, fmt.Errorf("%w: question %d has no answer", ErrMalformed, current.Position)
		}
		pairs = append(pairs, *current)
	}

	if len(pairs) == 0 {
		return nil, ErrEmptyInput
	}

	for _, pair := range pairs {
		if strings.TrimSpace(pair.Question) == "" {
			return nil, fmt.Errorf("%w: question %d is empty", ErrMalformed, pair.Position)
		}
		if strings.TrimSpace(pair.Answer) == "" {
			return nil, fmt.Errorf("%w: question %d has an empty answer", ErrMalformed, pair.Position)
		}
	}

	return pairs, nil
}

// Render produces canonical "Qn:"/"An:" text from pairs.
func Render(pairs []Pair) string {
	builder := strings.Builder{}
	for i, pair := range pairs {
		if i > 0 {
			builder.WriteString("\n\n")
		}
		builder.WriteString(fmt.Sprintf("Q%d: %s\n", pair.Position, pair.Question))
		builder.WriteString(fmt.Sprintf("A%d: %s", pair.Position, pair.Answer))
	}
	return builder.String()
}

// Points returns the points awarded for a parsed submission, one per question.
func Points(pairs []Pair) int {
	return len(pairs)
}

func joinText(existing, addition string) string {
	if existing == "" {
		return addition
	}
	return existing + " " + addition
}
