package minutes

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSegment(t *testing.T) {
	text := "BOARD OF SUPERVISORS\n" +
		"Roll call: all members present.\n" +
		"File No. 250210\n" +
		"Ordinance amending the Planning Code to allow things.\n" +
		"APPROVED\n" +
		"File #250211\n" +
		"Resolution commending someone.\n" +
		"[250212]\n" +
		"Motion continuing the other thing.\n"

	spans := Segment(text)
	require.Len(t, spans, 3)

	require.Equal(t, "250210", spans[0].FileNumber)
	require.Equal(t, "250211", spans[1].FileNumber)
	require.Equal(t, "250212", spans[2].FileNumber)

	// each span runs from its heading to the next heading
	require.Contains(t, text[spans[0].Start:spans[0].End], "Planning Code")
	require.NotContains(t, text[spans[0].Start:spans[0].End], "commending")
	require.Contains(t, text[spans[2].Start:spans[2].End], "continuing")

	// front matter belongs to no span
	require.NotContains(t, text[spans[0].Start:], "Roll call: all members")
}

func TestSegmentNoHeadings(t *testing.T) {
	spans := Segment("Purely procedural agenda.\nNo items were heard.\n")
	require.Empty(t, spans)

	require.Empty(t, Segment(""))
}

func TestSegmentHeadingMustStartLine(t *testing.T) {
	// references to file numbers inside running prose are not headings
	text := "The clerk noted that File No. 250210 was previously heard.\n"
	require.Empty(t, Segment(text))

	text = "  File No. 250210\nIndented heading still counts.\n"
	require.Len(t, Segment(text), 1)
}

func TestItemTitle(t *testing.T) {
	testCases := []struct {
		name     string
		span     string
		fileNo   string
		expected string
	}{
		{
			name:     "first substantial line",
			span:     "File No. 250210\nOrdinance amending the Planning Code.\nAPPROVED",
			fileNo:   "250210",
			expected: "Ordinance amending the Planning Code.",
		},
		{
			name:     "short lines skipped",
			span:     "File No. 250210\nitem\nResolution commending the fire department.",
			fileNo:   "250210",
			expected: "Resolution commending the fire department.",
		},
		{
			name:     "fallback to file number",
			span:     "File No. 250210\n",
			fileNo:   "250210",
			expected: "Item 250210",
		},
		{
			name:     "fallback without file number",
			span:     "[]\n",
			fileNo:   "",
			expected: "Untitled item",
		},
	}

	for _, test := range testCases {
		got := itemTitle(test.span, test.fileNo)
		if diff := cmp.Diff(test.expected, got); diff != "" {
			t.Errorf("%s: (-want +got):\n%s", test.name, diff)
		}
	}
}
