package client

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/chanstr/chanstr-tui/internal/timeline"
)

func toMessage(n timeline.Note) Message {
	content := truncateString(n.Content, MaxMsgLen)
	return Message{
		ID:        n.ID,
		Author:    n.Author,
		ShortKey:  shortKey(n.Author),
		Content:   content,
		CreatedAt: time.Unix(n.CreatedAt, 0),
		Root:      n.Root,
	}
}

func shortKey(pubkey string) string {
	if len(pubkey) <= 8 {
		return pubkey
	}
	return pubkey[:8]
}

// truncateString cuts after maxClusters grapheme clusters, never inside a
// multi-byte sequence.
func truncateString(s string, maxClusters int) string {
	g := uniseg.NewGraphemes(s)
	var b strings.Builder
	count := 0
	for g.Next() {
		if count >= maxClusters {
			b.WriteString("...")
			break
		}
		b.WriteString(g.Str())
		count++
	}
	return b.String()
}

// validateChannelForm normalizes a dialog submission: trimmed non-empty
// name, at least one valid hashtag.
func validateChannelForm(form ChannelForm) (string, []string, error) {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return "", nil, fmt.Errorf("channel name must not be empty")
	}

	tags := make([]string, 0, len(form.Hashtags))
	for _, tag := range form.Hashtags {
		tag, err := normalizeHashtag(tag)
		if err != nil {
			return "", nil, err
		}
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return "", nil, fmt.Errorf("channel needs at least one hashtag")
	}
	return name, tags, nil
}

func normalizeHashtag(tag string) (string, error) {
	tag = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
	for _, r := range tag {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-' && r != '_' {
			return "", fmt.Errorf("hashtag contains invalid character: %q", r)
		}
	}
	return tag, nil
}

// normalizeRelayURL turns user relay input into a canonical wss URL. A bare
// host is accepted and gets the scheme prepended; any non-wss scheme is an
// error.
func normalizeRelayURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimRight(raw, "/,.;")

	if !strings.Contains(raw, "://") {
		raw = "wss://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "wss" {
		return "", fmt.Errorf("only wss:// relays are allowed (got %s)", scheme)
	}

	host := strings.ToLower(strings.Trim(u.Host, "/."))
	if host == "" {
		if u.Path != "" && !strings.Contains(u.Path, "/") {
			host = strings.ToLower(strings.Trim(u.Path, "/."))
		}
		if host == "" {
			return "", fmt.Errorf("missing host in URL: %q", raw)
		}
	}

	return fmt.Sprintf("wss://%s", host), nil
}
