// Package gateway provides push-mode Discord ingestion over the realtime
// gateway, as an alternative to REST polling
package gateway

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"joinfeed/internal/adapters/ingest/discord"
	perr "joinfeed/internal/platform/errors"
	"joinfeed/internal/platform/logger"
)

// Handler receives each channel message as it arrives
type Handler func(ctx context.Context, m discord.Message)

// Options configures the Listener
type Options struct {
	Token     string
	ChannelID string
}

// Listener subscribes to message events on one channel and hands each
// one to the handler. It does no extraction itself; push and poll paths
// share the same downstream acceptance rules
type Listener struct {
	sess *discordgo.Session
	opts Options
	h    Handler
	log  logger.Logger
}

// New constructs a Listener. The session is created but not opened
func New(o Options, h Handler) (*Listener, error) {
	if o.Token == "" {
		return nil, perr.InvalidArgf("gateway token required")
	}
	if o.ChannelID == "" {
		return nil, perr.InvalidArgf("gateway channel id required")
	}
	if h == nil {
		return nil, perr.InvalidArgf("gateway handler required")
	}

	sess, err := discordgo.New("Bot " + o.Token)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "gateway session failed")
	}
	sess.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	return &Listener{
		sess: sess,
		opts: o,
		h:    h,
		log:  *logger.Named("gateway"),
	}, nil
}

// Run opens the gateway connection and blocks until ctx ends
func (l *Listener) Run(ctx context.Context) error {
	l.sess.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if m.ChannelID != l.opts.ChannelID {
			return
		}
		l.h(ctx, fromEvent(m))
	})

	if err := l.sess.Open(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "gateway open failed")
	}
	l.log.Info().Str("channel", l.opts.ChannelID).Msg("gateway listening")

	<-ctx.Done()
	l.log.Info().Msg("gateway closing")
	return l.sess.Close()
}

// fromEvent converts a gateway event into the shared wire shape
func fromEvent(m *discordgo.MessageCreate) discord.Message {
	out := discord.Message{
		ID:        m.ID,
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}
	if m.Author != nil {
		out.Author = discord.Author{
			ID:       m.Author.ID,
			Username: m.Author.Username,
			Bot:      m.Author.Bot,
		}
	}
	for _, e := range m.Embeds {
		if e == nil {
			continue
		}
		emb := discord.Embed{Title: e.Title, Description: e.Description}
		for _, f := range e.Fields {
			if f == nil {
				continue
			}
			emb.Fields = append(emb.Fields, discord.EmbedField{Name: f.Name, Value: f.Value})
		}
		out.Embeds = append(out.Embeds, emb)
	}
	return out
}
