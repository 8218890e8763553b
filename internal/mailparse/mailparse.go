// Package mailparse turns raw RFC 5322 / MIME messages into plain text
// suitable for threat analysis.
package mailparse

import (
	"fmt"
	"io"
	"strings"

	"github.com/jaytaylor/html2text"
	"github.com/jhillyerd/enmime"
)

// Message is the analysable content of a parsed email.
type Message struct {
	Subject string
	From    string
	// Text is the body as plain text. HTML bodies are converted with link
	// targets kept inline so URL heuristics can see them.
	Text string
}

// Parse reads a raw message from r.
func Parse(r io.Reader) (*Message, error) {
	env, err := enmime.ReadEnvelope(r)
	if err != nil {
		return nil, fmt.Errorf("read envelope: %w", err)
	}

	body := env.Text
	if strings.TrimSpace(env.HTML) != "" {
		converted, err := html2text.FromString(env.HTML, html2text.Options{OmitLinks: false})
		if err != nil {
			return nil, fmt.Errorf("convert html body: %w", err)
		}
		body = converted
	}

	return &Message{
		Subject: strings.TrimSpace(env.GetHeader("Subject")),
		From:    strings.TrimSpace(env.GetHeader("From")),
		Text:    strings.TrimSpace(body),
	}, nil
}

// AnalysisText renders the message the way a user would paste it:
// a Subject line, a blank line, then the body.
func (m *Message) AnalysisText() string {
	if m.Subject == "" {
		return m.Text
	}
	return "Subject: " + m.Subject + "\n\n" + m.Text
}
