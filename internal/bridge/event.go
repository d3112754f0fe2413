package bridge

import "strings"

// Envelope is the inbound Slack Events API payload. URL-verification
// handshakes carry Type and Challenge; message deliveries carry EventID and
// the nested Event.
type Envelope struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge,omitempty"`
	EventID   string `json:"event_id"`
	Event     Event  `json:"event"`
}

// Event is the nested chat message notification.
type Event struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	User    string `json:"user"`
	Channel string `json:"channel"`
	TS      string `json:"ts"`
}

// SanitizeQuestion strips the bot's at-mention token from the message text and
// trims surrounding whitespace, leaving the bare question.
func SanitizeQuestion(text, botUserID string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "<@"+botUserID+">", ""))
}
