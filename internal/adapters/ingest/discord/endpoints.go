package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	perr "joinfeed/internal/platform/errors"
)

const maxBodyBytes = 1 << 20 // 1MB cap per response

// ChannelMessages fetches the most recent messages in a channel, newest first
func (c *Client) ChannelMessages(ctx context.Context, channelID string, limit int) ([]Message, error) {
	if channelID == "" {
		return nil, perr.InvalidArgf("channel id required")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	path := fmt.Sprintf("/channels/%s/messages?limit=%d", url.PathEscape(channelID), limit)

	resp, err := c.Do(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "discord read body failed")
	}
	var msgs []Message
	if err := json.Unmarshal(body, &msgs); err != nil {
		return nil, perr.MalformedPayloadf("discord messages decode failed: %v", err)
	}
	return msgs, nil
}

// React adds an emoji reaction to a message. Best-effort: callers log and
// move on when it fails, a missing checkmark never blocks the pipeline
func (c *Client) React(ctx context.Context, channelID, messageID, emoji string) error {
	if channelID == "" || messageID == "" || emoji == "" {
		return perr.InvalidArgf("channel, message, and emoji required")
	}
	path := fmt.Sprintf("/channels/%s/messages/%s/reactions/%s/@me",
		url.PathEscape(channelID), url.PathEscape(messageID), url.PathEscape(emoji))

	resp, err := c.Do(ctx, http.MethodPut, path)
	if err != nil {
		return err
	}
	return drainAndClose(resp.Body)
}
