// Package thread resolves inbound messages to conversation threads and
// renders a thread's full history as a single prompt for the generation API.
package thread

import (
	"fmt"
	"strings"

	"github.com/avnerk/gembot/internal/models"
	"github.com/avnerk/gembot/internal/store"
)

// Prompt block labels. The generation API is stateless, so the entire
// conversation is replayed as labeled blocks on every call.
const (
	userLabel   = "[משתמש כתב]:"
	geminiLabel = "[ג'מיני כתב]:"
)

// Assemble appends the message as a user turn to its thread (creating the
// thread if this is the first message referencing its key) and returns the
// rendered prompt plus the thread key. The just-arrived message is appended
// before rendering so the prompt always ends with it.
//
// There is no truncation: long threads grow the prompt without bound.
func Assemble(msg *models.InboundMessage, s *store.ThreadStore) (string, string, error) {
	key := msg.ThreadKey()
	if key == "" {
		return "", "", fmt.Errorf("message has no thread key")
	}

	entry := models.ThreadEntry{
		Speaker: models.SpeakerUser,
		Body:    msg.Body,
	}
	if err := s.Append(key, entry); err != nil {
		return "", "", err
	}

	return Render(s.Thread(key)), key, nil
}

// Render concatenates the entries, in thread order, as labeled blocks
// separated by blank lines.
func Render(entries []models.ThreadEntry) string {
	var sb strings.Builder
	for _, entry := range entries {
		switch entry.Speaker {
		case models.SpeakerUser:
			sb.WriteString(userLabel)
		case models.SpeakerGemini:
			sb.WriteString(geminiLabel)
		}
		sb.WriteString("\n")
		sb.WriteString(entry.Body)
		sb.WriteString("\n\n")
	}
	return sb.String()
}
