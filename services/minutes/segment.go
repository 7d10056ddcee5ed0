// Package minutes turns normalized meeting text into legislative items and
// per-member vote records.
package minutes

import (
	"regexp"
	"strings"

	"civicrecords-backend/lib/textutil"
)

// ItemSpan is one legislative-item region of the document text, running
// from its heading to the next heading or end of text.
type ItemSpan struct {
	// FileNumber is empty when the heading carried no parseable number.
	FileNumber string
	Start      int
	End        int
}

// item headings appear as "File No. 250210" / "File #250210" or as a
// bracketed item number at the start of a line
var headingRegex = regexp.MustCompile(`(?mi)^[ \t]*(?:File\s+(?:No\.|#)\s*(\d+)|\[\s*(\d{5,6})\s*\])`)

// Segment splits the document into item spans. Text before the first
// heading (front matter, roll call, boilerplate) belongs to no span but
// stays part of the document. Zero headings is a valid outcome, a purely
// procedural agenda simply yields no items.
func Segment(text string) []ItemSpan {
	matches := headingRegex.FindAllStringSubmatchIndex(text, -1)
	spans := make([]ItemSpan, 0, len(matches))

	for i, match := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		fileNumber := ""
		if match[2] >= 0 {
			fileNumber = text[match[2]:match[3]]
		} else if match[4] >= 0 {
			fileNumber = text[match[4]:match[5]]
		}

		spans = append(spans, ItemSpan{
			FileNumber: fileNumber,
			Start:      match[0],
			End:        end,
		})
	}

	return spans
}

const (
	titleMinLen = 10
	titleMaxLen = 200
)

// itemTitle pulls the first substantial line after the heading line, the
// convention the minutes follow for item titles.
func itemTitle(spanText, fileNumber string) string {
	_, rest, found := strings.Cut(spanText, "\n")
	if found {
		for _, line := range strings.Split(rest, "\n") {
			line = textutil.CollapseWhitespace(line)
			if len(line) >= titleMinLen {
				if len(line) > titleMaxLen {
					line = line[:titleMaxLen]
				}
				return line
			}
		}
	}
	if fileNumber != "" {
		return "Item " + fileNumber
	}
	return "Untitled item"
}
