package app

import (
	"fmt"
	"strings"
)

// Canned backend responses for mock mode. Lets the full TUI flow run with
// no server, which is how the demo and the end-to-end style tests work.

func mockSummary(name string) string {
	return fmt.Sprintf(
		"**%s** is a short document. It covers a handful of topics at a high level and closes with a brief conclusion.\n\n- Main subject introduced early\n- Supporting details in the middle\n- Conclusion at the end",
		name,
	)
}

func mockAnswer(question string) string {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "who"):
		return "The document attributes this to **John Doe**."
	case strings.Contains(q, "when"):
		return "No explicit date is given in the document."
	case strings.Contains(q, "summary"), strings.Contains(q, "about"):
		return "It is a brief overview document; see the summary pane for details."
	default:
		return "Not found in document."
	}
}
