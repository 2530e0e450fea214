package bot

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/lithammer/dedent"
)

func formatReplyText(text string, a ...any) string {
	return fmt.Sprintf(strings.TrimSpace(dedent.Dedent(text)), a...)
}

// parseCommand splits "/add@wallbot iphone,0-100" into ("add", "iphone,0-100").
func parseCommand(s string) (string, string) {
	s = strings.TrimSpace(s)
	command, args := s, ""
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		command, args = s[:i], strings.TrimSpace(s[i:])
	}
	command, _, _ = strings.Cut(strings.TrimPrefix(command, "/"), "@")
	return strings.ToLower(command), args
}

// escapeMarkdown escapes special characters for Telegram Markdown V1
func escapeMarkdown(text string) string {
	text = strings.ReplaceAll(text, "*", "\\*")
	text = strings.ReplaceAll(text, "_", "\\_")
	text = strings.ReplaceAll(text, "`", "\\`")
	text = strings.ReplaceAll(text, "[", "\\[")
	return text
}
