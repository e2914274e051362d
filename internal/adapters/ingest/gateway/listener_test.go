package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"joinfeed/internal/adapters/ingest/discord"
)

func nopHandler(context.Context, discord.Message) {}

func TestNew_RequiresConfig(t *testing.T) {
	if _, err := New(Options{ChannelID: "c"}, nopHandler); err == nil {
		t.Fatalf("expected error without token")
	}
	if _, err := New(Options{Token: "t"}, nopHandler); err == nil {
		t.Fatalf("expected error without channel id")
	}
	if _, err := New(Options{Token: "t", ChannelID: "c"}, nil); err == nil {
		t.Fatalf("expected error without handler")
	}
	if _, err := New(Options{Token: "t", ChannelID: "c"}, nopHandler); err != nil {
		t.Fatalf("New: %v", err)
	}
}

func TestFromEvent(t *testing.T) {
	ts := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	ev := &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "m1",
		ChannelID: "c1",
		Content:   "Server up",
		Timestamp: ts,
		Author:    &discordgo.User{ID: "u1", Username: "relay-bot", Bot: true},
		Embeds: []*discordgo.MessageEmbed{
			{
				Title: "New Server",
				Fields: []*discordgo.MessageEmbedField{
					{Name: "Job ID (PC)", Value: "AbCdEfGh12345678"},
					nil,
				},
			},
			nil,
		},
	}}

	got := fromEvent(ev)
	if got.ID != "m1" || got.Content != "Server up" || !got.Timestamp.Equal(ts) {
		t.Fatalf("mapped = %+v", got)
	}
	if got.Author.Username != "relay-bot" || !got.Author.Bot {
		t.Fatalf("author = %+v", got.Author)
	}
	if len(got.Embeds) != 1 || len(got.Embeds[0].Fields) != 1 {
		t.Fatalf("embeds = %+v", got.Embeds)
	}
	if got.Embeds[0].Fields[0].Value != "AbCdEfGh12345678" {
		t.Fatalf("field = %+v", got.Embeds[0].Fields[0])
	}
}
