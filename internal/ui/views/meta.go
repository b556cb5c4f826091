package views

import (
	"strings"
	"time"
)

const dueLayout = "2006-01-02"

// Meta holds the display hints embedded in a task's text. The stored text is
// never rewritten; these are only used for rendering.
type Meta struct {
	Body     string
	Tag      string
	Priority int // 0 = none, 1 (highest) to 3
	Due      time.Time
}

// HasDue reports whether a due date was found
func (m Meta) HasDue() bool {
	return !m.Due.IsZero()
}

// Overdue reports whether the due date is before the day of now
func (m Meta) Overdue(now time.Time) bool {
	if !m.HasDue() {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return m.Due.Before(today)
}

// ParseMeta extracts a #tag, a !1..!3 priority and a >YYYY-MM-DD due date
// from text. The first token of each kind wins; later ones stay in the body.
func ParseMeta(text string) Meta {
	var m Meta
	var body []string

	for _, tok := range strings.Fields(text) {
		switch {
		case m.Tag == "" && len(tok) > 1 && tok[0] == '#':
			m.Tag = tok[1:]
		case m.Priority == 0 && len(tok) == 2 && tok[0] == '!' && tok[1] >= '1' && tok[1] <= '3':
			m.Priority = int(tok[1] - '0')
		case !m.HasDue() && len(tok) > 1 && tok[0] == '>':
			due, err := time.Parse(dueLayout, tok[1:])
			if err != nil {
				body = append(body, tok)
				continue
			}
			m.Due = due
		default:
			body = append(body, tok)
		}
	}

	m.Body = strings.Join(body, " ")
	if m.Body == "" {
		m.Body = strings.TrimSpace(text)
	}
	return m
}
