// Package pdftext converts raw pdf bytes into plain text and a lightly
// structured markdown rendering for downstream segmentation.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ErrUnreadable indicates the pdf has no extractable text layer at all,
// for example an image-only scan. Terminal for that document, not retryable.
var ErrUnreadable = errors.New("pdf has no extractable text")

// PageBreak separates pages in the extracted text so segmentation can
// reason about page-spanning items.
const PageBreak = "\f"

// ToText extracts the text layer of every page in reading order. Pages are
// joined with the PageBreak sentinel.
func ToText(raw []byte) (text string, err error) {
	// the pdf reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrUnreadable, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(content) != "" {
			pages = append(pages, content)
		}
	}

	if len(pages) == 0 {
		return "", ErrUnreadable
	}
	return strings.Join(pages, "\n"+PageBreak+"\n"), nil
}

// ToMarkdown extracts the text layer and layers heading markers on top of
// it: short all-caps lines become section headings and file-number lines
// become item headings.
func ToMarkdown(raw []byte) (string, error) {
	text, err := ToText(raw)
	if err != nil {
		return "", err
	}
	return renderMarkdown(text), nil
}

var fileNumberLineRegex = regexp.MustCompile(`(?i)^File\s+(?:No\.|#)\s*\d+`)

func renderMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		// TrimSpace would eat the page sentinel, it counts as whitespace
		if strings.Contains(line, PageBreak) {
			out = append(out, PageBreak)
			continue
		}
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			out = append(out, "")
		case fileNumberLineRegex.MatchString(line):
			out = append(out, "### "+line)
		case isUpperHeading(line):
			out = append(out, "## "+line)
		default:
			out = append(out, line)
		}
	}

	return strings.Join(out, "\n")
}

func isUpperHeading(line string) bool {
	if len(line) >= 100 {
		return false
	}
	hasLetter := false
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
