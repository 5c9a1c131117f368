// Package mailbox reads unread messages from an IMAP inbox and normalizes
// them for the thread assembler. Each fetch opens a short-lived connection,
// searches for unseen messages, downloads them in full, and logs out;
// fetching the body (without Peek) marks the message seen as a protocol
// side effect.
package mailbox

import (
	"errors"
	"fmt"
	"log"

	"github.com/emersion/go-imap"

	"github.com/avnerk/gembot/internal/models"
)

// ErrMailbox marks mailbox connect/auth/fetch failures so callers can
// distinguish them with errors.Is.
var ErrMailbox = errors.New("mailbox error")

// Client holds the connection parameters for one mail account.
type Client struct {
	addr     string
	username string
	password string
	useTLS   bool
}

// NewClient creates a mailbox client for the given server address and
// account credentials.
func NewClient(addr, username, password string, useTLS bool) *Client {
	return &Client{
		addr:     addr,
		username: username,
		password: password,
		useTLS:   useTLS,
	}
}

// FetchUnread connects to the server, selects INBOX, and returns every
// unseen message as a normalized InboundMessage. A message that cannot be
// parsed is logged and skipped rather than aborting the batch.
func (c *Client) FetchUnread() ([]models.InboundMessage, error) {
	conn, err := connect(c.addr, c.useTLS)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMailbox, err)
	}
	defer func() {
		_ = conn.Logout()
	}()

	if err := login(conn, c.username, c.password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMailbox, err)
	}

	if _, err := conn.Select("INBOX", false); err != nil {
		return nil, fmt.Errorf("%w: failed to select INBOX: %v", ErrMailbox, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}

	seqNums, err := conn.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to search for unseen messages: %v", ErrMailbox, err)
	}

	if len(seqNums) == 0 {
		return nil, nil
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(seqNums...)

	// Fetching the body section without Peek marks the messages seen.
	section := &imap.BodySectionName{}
	items := []imap.FetchItem{section.FetchItem()}

	messages := make(chan *imap.Message, len(seqNums))
	done := make(chan error, 1)

	go func() {
		done <- conn.Fetch(seqSet, items, messages)
	}()

	var result []models.InboundMessage
	for msg := range messages {
		body := msg.GetBody(section)
		if body == nil {
			log.Printf("Warning: message %d has no body section, skipping", msg.SeqNum)
			continue
		}

		inbound, err := Normalize(body)
		if err != nil {
			log.Printf("Warning: failed to parse message %d, skipping: %v", msg.SeqNum, err)
			continue
		}

		result = append(result, *inbound)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("%w: failed to fetch messages: %v", ErrMailbox, err)
	}

	return result, nil
}
