package pdftext

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToTextRejectsGarbage(t *testing.T) {
	_, err := ToText([]byte("this is not a pdf"))
	require.ErrorIs(t, err, ErrUnreadable)

	_, err = ToText(nil)
	require.ErrorIs(t, err, ErrUnreadable)
}

func TestRenderMarkdown(t *testing.T) {
	input := "BOARD OF SUPERVISORS\n" +
		"Meeting Minutes\n" +
		"\n" +
		"File No. 250210\n" +
		"Ordinance amending the Planning Code.\n" +
		"\f\n" +
		"ROLL CALL\n" +
		"Present: 11 members"

	expected := "## BOARD OF SUPERVISORS\n" +
		"Meeting Minutes\n" +
		"\n" +
		"### File No. 250210\n" +
		"Ordinance amending the Planning Code.\n" +
		"\f\n" +
		"## ROLL CALL\n" +
		"Present: 11 members"

	require.Equal(t, expected, renderMarkdown(input))
}

func TestIsUpperHeading(t *testing.T) {
	testCases := []struct {
		line     string
		expected bool
	}{
		{line: "BOARD OF SUPERVISORS", expected: true},
		{line: "AGENDA", expected: true},
		{line: "Meeting Minutes", expected: false},
		{line: "250210", expected: false},
		{line: "ITEM 12 - 2025", expected: true},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, isUpperHeading(test.line), test.line)
	}
}
