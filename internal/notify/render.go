package notify

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// signature is the fixed attribution footer appended to every reply.
const signature = `<hr>
<div style="color:#666; font-size:14px; margin-top:10px;">
בינה מלאכותית ג'מיני באימייל נבנה ע"י @טשיקאוור ניוז
</div>`

var sanitizer = bluemonday.UGCPolicy()

// RenderHTML converts the reply's lightweight markup to HTML, sanitizes it,
// and wraps it in a right-to-left styled document with the attribution
// footer. The reply text comes from an external model, so the rendered
// markup goes through a UGC sanitizer before it is mailed.
func RenderHTML(replyText string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(replyText), &buf); err != nil {
		return "", fmt.Errorf("failed to render reply markup: %w", err)
	}

	formatted := sanitizer.Sanitize(buf.String())

	return fmt.Sprintf(`<html>
<body style="direction: rtl; text-align: right; font-family: Arial, sans-serif;">
%s
%s
</body>
</html>`, formatted, signature), nil
}

// ReplySubject prefixes the subject with "Re: " unless it already carries
// a reply prefix.
func ReplySubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(subject)), "re:") {
		return subject
	}
	return "Re: " + subject
}
