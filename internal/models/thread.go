package models

import "fmt"

// Speaker identifies who produced a thread entry. The wire values ("user",
// "gemini") match the persisted store format and must not change.
type Speaker string

const (
	SpeakerUser   Speaker = "user"
	SpeakerGemini Speaker = "gemini"
)

// Valid reports whether s is one of the known speakers.
func (s Speaker) Valid() bool {
	return s == SpeakerUser || s == SpeakerGemini
}

// ThreadEntry is one turn within a thread's history. Entries are append-only;
// their order defines prompt reconstruction order.
type ThreadEntry struct {
	Speaker Speaker `json:"from"`
	Body    string  `json:"body"`
}

// Validate checks that the entry carries a known speaker.
func (e ThreadEntry) Validate() error {
	if !e.Speaker.Valid() {
		return fmt.Errorf("unknown speaker %q", e.Speaker)
	}
	return nil
}

// InboundMessage is a normalized unread message, produced once per fetched
// message and consumed by the thread assembler.
type InboundMessage struct {
	FromAddress string
	Subject     string
	Body        string
	MessageID   string
	InReplyTo   string
}

// ThreadKey resolves the thread this message belongs to: the In-Reply-To
// header when present, otherwise the message's own ID. A message without
// In-Reply-To opens a new thread keyed by its own identifier.
func (m *InboundMessage) ThreadKey() string {
	if m.InReplyTo != "" {
		return m.InReplyTo
	}
	return m.MessageID
}
