package mailbox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "clean text is untouched",
			body: "Hello, can you help me plan a trip?",
			want: "Hello, can you help me plan a trip?",
		},
		{
			name: "signature delimiter truncates",
			body: "Thanks for the answer.\n--\nDana Levi\nAcme Corp",
			want: "Thanks for the answer.",
		},
		{
			name: "body that is only a signature cleans to empty",
			body: "--\nSignature",
			want: "",
		},
		{
			name: "sent from my marker",
			body: "Sounds good, let's do it.\n\nSent from my iPhone",
			want: "Sounds good, let's do it.",
		},
		{
			name: "quoted reply lines",
			body: "I agree with the plan.\n> On Tuesday you wrote:\n> here is the plan",
			want: "I agree with the plan.",
		},
		{
			name: "hebrew forwarded header",
			body: "תודה רבה!\nנשלח: יום שני\nמאת: מישהו",
			want: "תודה רבה!",
		},
		{
			name: "echoed headers",
			body: "See below.\nFrom: someone@example.com\nTo: me@example.com",
			want: "See below.",
		},
		{
			name: "legacy original message separator",
			body: "My answer is yes.\n-----Original Message-----\nold content",
			want: "My answer is yes.",
		},
		{
			name: "earliest boundary wins regardless of pattern order",
			body: "Keep this.\n> quoted first\n--\nsignature later",
			want: "Keep this.",
		},
		{
			name: "trimming that exposes a quoted line still cleans",
			body: "   > fully quoted message",
			want: "",
		},
		{
			name: "empty body",
			body: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanBody(tt.body)
			assert.Equal(t, tt.want, got)

			// Cleaning must be idempotent.
			assert.Equal(t, got, CleanBody(got))
		})
	}
}

func TestNormalize(t *testing.T) {
	raw := strings.Join([]string{
		"From: Dana Levi <dana@example.com>",
		"To: bot@example.com",
		"Subject: Trip planning",
		"Message-Id: <abc123@example.com>",
		"In-Reply-To: <root456@example.com>",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Can you suggest a route?",
		"",
		"Sent from my iPhone",
	}, "\r\n")

	msg, err := Normalize(strings.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, "dana@example.com", msg.FromAddress)
	assert.Equal(t, "Trip planning", msg.Subject)
	assert.Equal(t, "Can you suggest a route?", msg.Body)
	assert.Equal(t, "<abc123@example.com>", msg.MessageID)
	assert.Equal(t, "<root456@example.com>", msg.InReplyTo)
}

func TestNormalizeMultipart(t *testing.T) {
	raw := strings.Join([]string{
		"From: dana@example.com",
		"Subject: Mixed message",
		"Message-Id: <mixed@example.com>",
		"MIME-Version: 1.0",
		`Content-Type: multipart/alternative; boundary="BOUNDARY"`,
		"",
		"--BOUNDARY",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"plain text part",
		"--BOUNDARY",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>html part</p>",
		"--BOUNDARY--",
		"",
	}, "\r\n")

	msg, err := Normalize(strings.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, "plain text part", msg.Body)
	assert.Empty(t, msg.InReplyTo)
}

func TestNormalizeMissingSubject(t *testing.T) {
	raw := strings.Join([]string{
		"From: dana@example.com",
		"Message-Id: <nosubject@example.com>",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"hello",
	}, "\r\n")

	msg, err := Normalize(strings.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, "(ללא נושא)", msg.Subject)
}

func TestNormalizeMissingIdentifiers(t *testing.T) {
	t.Run("missing From", func(t *testing.T) {
		raw := "Subject: x\r\nMessage-Id: <a@b>\r\n\r\nbody"
		_, err := Normalize(strings.NewReader(raw))
		assert.Error(t, err)
	})

	t.Run("missing Message-Id", func(t *testing.T) {
		raw := "From: dana@example.com\r\nSubject: x\r\n\r\nbody"
		_, err := Normalize(strings.NewReader(raw))
		assert.Error(t, err)
	})
}
