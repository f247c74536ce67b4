package qa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIndexedPairs(t *testing.T) {
	input := "Q1: Why did it fail?\nA1: Bearing wear.\nQ2: Fix?\nA2: Replaced bearing."

	pairs, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	require.Equal(t, Pair{Position: 1, Question: "Why did it fail?", Answer: "Bearing wear."}, pairs[0])
	require.Equal(t, Pair{Position: 2, Question: "Fix?", Answer: "Replaced bearing."}, pairs[1])
	require.Equal(t, 2, Points(pairs))
}

func TestParseUnindexedPairs(t *testing.T) {
	input := "Q: What was serviced?\nA: The optical sorter.\nQ: Any parts replaced?\nA: One valve block."

	pairs, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	require.Equal(t, 1, pairs[0].Position)
	require.Equal(t, 2, pairs[1].Position)
}

func TestParsePreservesOrder(t *testing.T) {
	input := "Q1: first?\nA1: one.\nQ2: second?\nA2: two.\nQ3: third?\nA3: three."

	pairs, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, pairs, 3)
	for i, pair := range pairs {
		require.Equal(t, i+1, pair.Position)
	}
	require.Equal(t, "first?", pairs[0].Question)
	require.Equal(t, "three.", pairs[2].Answer)
}

func TestParseContinuationLines(t *testing.T) {
	input := "Q1: What happened to the\nmain drive motor?\nA1: It overheated after the\nbelt seized."

	pairs, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	require.Equal(t, "What happened to the main drive motor?", pairs[0].Question)
	require.Equal(t, "It overheated after the belt seized.", pairs[0].Answer)
}

func TestParseSkipsBlankLinesAndCase(t *testing.T) {
	input := "q1: lower case?\n\na1: still fine.\n\nQ2: upper?\nA2: yes."

	pairs, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
}

func TestParseQuestionWithoutAnswer(t *testing.T) {
	cases := map[string]string{
		"dangling last question":   "Q1: done?\nA1: yes.\nQ2: anything else?",
		"question before question": "Q1: one?\nQ2: two?\nA2: only one answer.",
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)
			require.Contains(t, err.Error(), "has no answer")
		})
	}
}

func TestParseAnswerWithoutQuestion(t *testing.T) {
	_, err := Parse("A1: orphaned answer.")
	require.Error(t, err)
	require.Contains(t, err.Error(), "answer without a preceding question")
}

func TestParseDuplicateAnswer(t *testing.T) {
	_, err := Parse("Q1: one?\nA1: first.\nA1: second.")
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate answer")
}

func TestParseMismatchedIndices(t *testing.T) {
	_, err := Parse("Q1: one?\nA2: wrong index.")
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not match")
}

func TestParseUnrecognizedFormat(t *testing.T) {
	_, err := Parse("just some free text\nwith no structure")
	require.ErrorIs(t, err, ErrUnrecognizedFormat)
}

func TestParseEmptyInput(t *testing.T) {
	_, err := Parse("\n\n")
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestParseRejectsEmptyBodies(t *testing.T) {
	_, err := Parse("Q1:\nA1: answer.")
	require.Error(t, err)
	require.Contains(t, err.Error(), "is empty")

	_, err = Parse("Q1: question?\nA1:")
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty answer")
}

func TestRenderRoundTrip(t *testing.T) {
	pairs := []Pair{
		{Position: 1, Question: "Why did it fail?", Answer: "Bearing wear."},
		{Position: 2, Question: "Fix?", Answer: "Replaced bearing."},
	}

	rendered := Render(pairs)
	require.Equal(t, "Q1: Why did it fail?\nA1: Bearing wear.\n\nQ2: Fix?\nA2: Replaced bearing.", rendered)

	parsed, err := Parse(rendered)
	require.NoError(t, err)
	require.Equal(t, pairs, parsed)
}
