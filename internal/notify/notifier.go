// Package notify formats a generated reply as an HTML email and submits it
// over SMTP, threaded under the message it answers.
package notify

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/google/uuid"
)

// ErrDelivery marks submission failures so callers can distinguish them
// with errors.Is. Delivery is fire-and-forget: the caller logs the error
// and moves on, there is no retry.
var ErrDelivery = errors.New("delivery error")

// Notifier submits replies through one SMTP account. Each reply opens a
// fresh connection; nothing is kept between sends.
type Notifier struct {
	addr    string
	account string
	pass    string
	useTLS  bool
}

// NewNotifier creates a notifier for the given submission server and
// account. useTLS selects implicit TLS (production) or plaintext (tests).
func NewNotifier(addr, account, pass string, useTLS bool) *Notifier {
	return &Notifier{
		addr:    addr,
		account: account,
		pass:    pass,
		useTLS:  useTLS,
	}
}

// Notify renders replyText as an HTML message and sends it to the
// recipient. When inReplyTo is non-empty it is set as both In-Reply-To and
// References so mail clients thread the reply under the original message.
func (n *Notifier) Notify(recipient, subject, replyText, inReplyTo string) error {
	html, err := RenderHTML(replyText)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	msg, err := n.buildMessage(recipient, subject, html, inReplyTo)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	auth := sasl.NewPlainClient("", n.account, n.pass)
	to := []string{recipient}

	if n.useTLS {
		err = smtp.SendMailTLS(n.addr, auth, n.account, to, bytes.NewReader(msg))
	} else {
		err = smtp.SendMail(n.addr, auth, n.account, to, bytes.NewReader(msg))
	}
	if err != nil {
		return fmt.Errorf("%w: failed to send to %s: %v", ErrDelivery, recipient, err)
	}

	return nil
}

// buildMessage assembles the full RFC 822 message: headers, threading
// identifiers, and the quoted-printable HTML body.
func (n *Notifier) buildMessage(recipient, subject, html, inReplyTo string) ([]byte, error) {
	var buf bytes.Buffer

	writeHeader := func(key, value string) {
		buf.WriteString(key)
		buf.WriteString(": ")
		buf.WriteString(value)
		buf.WriteString("\r\n")
	}

	writeHeader("From", n.account)
	writeHeader("To", recipient)
	writeHeader("Subject", mime.QEncoding.Encode("utf-8", subject))
	writeHeader("Date", time.Now().Format(time.RFC1123Z))
	writeHeader("Message-ID", n.newMessageID())
	if inReplyTo != "" {
		writeHeader("In-Reply-To", inReplyTo)
		writeHeader("References", inReplyTo)
	}
	writeHeader("MIME-Version", "1.0")
	writeHeader("Content-Type", `text/html; charset="utf-8"`)
	writeHeader("Content-Transfer-Encoding", "quoted-printable")
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(html)); err != nil {
		return nil, fmt.Errorf("failed to encode body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode body: %w", err)
	}

	return buf.Bytes(), nil
}

// newMessageID generates a Message-ID scoped to the account's domain.
func (n *Notifier) newMessageID() string {
	domain := "localhost"
	if i := strings.LastIndex(n.account, "@"); i >= 0 {
		domain = n.account[i+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}
