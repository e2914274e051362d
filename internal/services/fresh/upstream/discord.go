// Package upstream adapts the Discord REST client to the fresh ports
package upstream

import (
	"context"

	"joinfeed/internal/adapters/ingest/discord"
	"joinfeed/internal/core/normalize"
	"joinfeed/internal/services/fresh/domain"
)

// Discord implements domain.FetcherPort and domain.ReactorPort over one
// channel of the Discord REST API
type Discord struct {
	c         *discord.Client
	channelID string
	emoji     string
}

// NewDiscord wires a client to a channel. emoji is what React stamps on
// consumed messages; empty disables reactions
func NewDiscord(c *discord.Client, channelID, emoji string) *Discord {
	if c == nil {
		panic("upstream.Discord requires a client")
	}
	if channelID == "" {
		panic("upstream.Discord requires a channel id")
	}
	return &Discord{c: c, channelID: channelID, emoji: emoji}
}

// Fetch implements domain.FetcherPort
func (d *Discord) Fetch(ctx context.Context, limit int) ([]domain.Message, error) {
	msgs, err := d.c.ChannelMessages(ctx, d.channelID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, MapMessage(m))
	}
	return out, nil
}

// React implements domain.ReactorPort
func (d *Discord) React(ctx context.Context, messageID string) error {
	if d.emoji == "" {
		return nil
	}
	return d.c.React(ctx, d.channelID, messageID, d.emoji)
}

// MapMessage converts one wire message into the domain shape. Embeds
// become structured blocks; field order is preserved
func MapMessage(m discord.Message) domain.Message {
	blocks := make([]normalize.Block, 0, len(m.Embeds))
	for _, e := range m.Embeds {
		b := normalize.Block{
			Title:       e.Title,
			Description: e.Description,
		}
		for _, f := range e.Fields {
			b.Fields = append(b.Fields, normalize.Field{Name: f.Name, Value: f.Value})
		}
		blocks = append(blocks, b)
	}
	return domain.Message{
		ID:        m.ID,
		CreatedAt: m.Timestamp,
		Text:      m.Content,
		Blocks:    blocks,
		Author:    m.Author.Username,
		FromBot:   m.Author.Bot,
	}
}
