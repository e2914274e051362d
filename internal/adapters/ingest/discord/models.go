package discord

import "time"

// Message is the subset of the Discord message object the poller consumes
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Author    Author    `json:"author"`
	Embeds    []Embed   `json:"embeds"`
}

// Author identifies the message sender
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Bot      bool   `json:"bot"`
}

// Embed carries the structured parts of a message. Relay bots put the
// interesting identifiers in embed fields rather than plain content
type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Fields      []EmbedField `json:"fields"`
}

// EmbedField is a single name/value pair inside an embed
type EmbedField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
