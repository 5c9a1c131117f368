// Package bot drives one run of the reply bot: load state, fetch unread
// messages, answer each one, persist state. Every external failure is caught
// and logged at its own boundary; no failure is fatal to the run.
package bot

import (
	"context"
	"log"

	"github.com/avnerk/gembot/internal/config"
	"github.com/avnerk/gembot/internal/gemini"
	"github.com/avnerk/gembot/internal/mailbox"
	"github.com/avnerk/gembot/internal/models"
	"github.com/avnerk/gembot/internal/notify"
	"github.com/avnerk/gembot/internal/store"
	"github.com/avnerk/gembot/internal/thread"
)

// Fixed collaborator endpoints and the state file location. These are
// deliberately not configurable; the three account secrets are the only
// recognized configuration.
const (
	imapAddr    = "imap.gmail.com:993"
	smtpAddr    = "smtp.gmail.com:465"
	threadsFile = "threads.json"
)

// Fetcher retrieves the current batch of unread messages.
type Fetcher interface {
	FetchUnread() ([]models.InboundMessage, error)
}

// Generator produces a reply for an assembled prompt. Implementations
// substitute a fallback reply on failure rather than returning an error.
type Generator interface {
	Generate(ctx context.Context, prompt string) string
}

// Notifier delivers a reply to the original sender.
type Notifier interface {
	Notify(recipient, subject, replyText, inReplyTo string) error
}

// Bot owns the conversation state and the three external collaborators for
// the duration of one run.
type Bot struct {
	store     *store.ThreadStore
	fetcher   Fetcher
	generator Generator
	notifier  Notifier
}

// New wires a Bot with the production collaborators: Gmail IMAP/SMTP and the
// Gemini API, with state in threads.json next to the process.
func New(cfg *config.Config) *Bot {
	return &Bot{
		store:     store.Load(threadsFile),
		fetcher:   mailbox.NewClient(imapAddr, cfg.EmailAccount, cfg.EmailPass, true),
		generator: gemini.NewClient(cfg.GeminiAPIKey),
		notifier:  notify.NewNotifier(smtpAddr, cfg.EmailAccount, cfg.EmailPass, true),
	}
}

// NewWithCollaborators wires a Bot with explicit collaborators and state.
// Used by tests to substitute in-memory doubles.
func NewWithCollaborators(s *store.ThreadStore, f Fetcher, g Generator, n Notifier) *Bot {
	return &Bot{
		store:     s,
		fetcher:   f,
		generator: g,
		notifier:  n,
	}
}

// Run processes one batch of unread messages, strictly sequentially, and
// saves the conversation state exactly once at the end. State is saved even
// when nothing was processed, so a fresh deployment materializes its store
// file on the first run.
func (b *Bot) Run(ctx context.Context) {
	log.Printf("Starting Gemini email bot...")

	msgs, err := b.fetcher.FetchUnread()
	if err != nil {
		log.Printf("Error fetching emails: %v", err)
		msgs = nil
	}

	if len(msgs) == 0 {
		log.Printf("No new emails.")
		b.saveState()
		return
	}

	for i := range msgs {
		b.processMessage(ctx, &msgs[i])
	}

	b.saveState()
}

// processMessage runs one message through assemble, generate, append, and
// notify. A delivery failure does not roll back the already-appended history
// entries.
func (b *Bot) processMessage(ctx context.Context, msg *models.InboundMessage) {
	log.Printf("New email from %s", msg.FromAddress)

	prompt, key, err := thread.Assemble(msg, b.store)
	if err != nil {
		log.Printf("Error assembling thread for %s: %v", msg.FromAddress, err)
		return
	}

	reply := b.generator.Generate(ctx, prompt)

	if err := b.store.Append(key, models.ThreadEntry{
		Speaker: models.SpeakerGemini,
		Body:    reply,
	}); err != nil {
		log.Printf("Error recording reply for %s: %v", msg.FromAddress, err)
	}

	subject := notify.ReplySubject(msg.Subject)
	if err := b.notifier.Notify(msg.FromAddress, subject, reply, msg.MessageID); err != nil {
		log.Printf("Error sending email: %v", err)
		return
	}

	log.Printf("Sent reply to %s", msg.FromAddress)
}

func (b *Bot) saveState() {
	if err := b.store.Save(); err != nil {
		log.Printf("Error saving threads: %v", err)
	}
}
