package mailbox

import (
	"fmt"
	"io"
	"net/mail"
	"regexp"
	"strings"

	"github.com/jhillyerd/enmime"

	"github.com/avnerk/gembot/internal/models"
)

// missingSubject is substituted when a message carries no Subject header.
const missingSubject = "(ללא נושא)"

// boundaryPatterns mark where the author's own text ends and noise begins:
// signature delimiters, mobile footers, quoted replies, and echoed headers
// from the previous message. Evaluated together; the earliest match position
// across all patterns wins.
var boundaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?mi)^--\s*$`),
	regexp.MustCompile(`(?i)Sent from my `),
	regexp.MustCompile(`(?m)^שלח:`),
	regexp.MustCompile(`(?m)^נשלח:`),
	regexp.MustCompile(`(?mi)^From:`),
	regexp.MustCompile(`(?mi)^To:`),
	regexp.MustCompile(`(?mi)^Cc:`),
	regexp.MustCompile(`(?mi)^Subject:`),
	regexp.MustCompile(`(?i)-----Original Message-----`),
	regexp.MustCompile(`(?m)^>`),
}

// Normalize parses a raw RFC 822 message into an InboundMessage: bare sender
// address, subject (with a placeholder when absent), threading identifiers,
// and the cleaned plain-text body. enmime concatenates all text/plain parts
// and decodes each part's declared charset, substituting undecodable bytes.
func Normalize(r io.Reader) (*models.InboundMessage, error) {
	envelope, err := enmime.ReadEnvelope(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}

	sender := envelope.GetHeader("From")
	if addr, err := mail.ParseAddress(sender); err == nil {
		sender = addr.Address
	}
	if sender == "" {
		return nil, fmt.Errorf("message has no From header")
	}

	subject := envelope.GetHeader("Subject")
	if subject == "" {
		subject = missingSubject
	}

	messageID := envelope.GetHeader("Message-Id")
	if messageID == "" {
		return nil, fmt.Errorf("message has no Message-Id header")
	}

	return &models.InboundMessage{
		FromAddress: sender,
		Subject:     subject,
		Body:        CleanBody(envelope.Text),
		MessageID:   messageID,
		InReplyTo:   envelope.GetHeader("In-Reply-To"),
	}, nil
}

// CleanBody truncates the body at the earliest boundary-pattern match and
// trims surrounding whitespace. Trimming can expose a new boundary at the
// start of the remainder (a quoted line that was indented, for instance),
// so the truncation repeats until no pattern matches. The result is stable:
// CleanBody(CleanBody(b)) == CleanBody(b).
func CleanBody(body string) string {
	body = strings.TrimSpace(body)

	for {
		cut := -1
		for _, pattern := range boundaryPatterns {
			loc := pattern.FindStringIndex(body)
			if loc == nil {
				continue
			}
			if cut == -1 || loc[0] < cut {
				cut = loc[0]
			}
		}

		if cut == -1 {
			return body
		}

		body = strings.TrimSpace(body[:cut])
	}
}
