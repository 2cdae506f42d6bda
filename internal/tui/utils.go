package tui

import (
	"crypto/sha256"
	"strings"
	"time"

	"github.com/rivo/uniseg"

	"github.com/chanstr/chanstr-tui/internal/client"
)

// messageGroupWindow is how close two consecutive messages of the same
// author have to be to share a group header.
const messageGroupWindow = 5 * time.Minute

// messageGroup is a run of consecutive messages from one author.
type messageGroup struct {
	Author   string
	ShortKey string
	Start    time.Time
	Messages []client.Message
}

// groupMessages splits a timeline into author groups: a new group starts
// whenever the author changes or the gap to the previous message exceeds
// the window.
func groupMessages(msgs []client.Message, window time.Duration) []messageGroup {
	var groups []messageGroup
	for _, m := range msgs {
		if len(groups) > 0 {
			last := &groups[len(groups)-1]
			prev := last.Messages[len(last.Messages)-1]
			if last.Author == m.Author && m.CreatedAt.Sub(prev.CreatedAt) < window {
				last.Messages = append(last.Messages, m)
				continue
			}
		}
		groups = append(groups, messageGroup{
			Author:   m.Author,
			ShortKey: m.ShortKey,
			Start:    m.CreatedAt,
			Messages: []client.Message{m},
		})
	}
	return groups
}

// filterChannels returns the indices of channels whose name contains the
// query, case-insensitively. An empty query matches everything.
func filterChannels(channels []client.ChannelInfo, query string) []int {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]int, 0, len(channels))
	for i, ch := range channels {
		if query == "" || strings.Contains(strings.ToLower(ch.Name), query) {
			out = append(out, i)
		}
	}
	return out
}

// pageBounds slices [0,total) into pages of perPage entries and returns the
// clamped page plus its slice bounds.
func pageBounds(total, perPage, page int) (clamped, start, end int) {
	if perPage <= 0 || total <= 0 {
		return 0, 0, 0
	}
	pages := (total + perPage - 1) / perPage
	if page >= pages {
		page = pages - 1
	}
	if page < 0 {
		page = 0
	}
	start = page * perPage
	end = start + perPage
	if end > total {
		end = total
	}
	return page, start, end
}

// truncateString limits a string to maxClusters user-perceived characters,
// so emoji and ZWJ sequences survive truncation intact.
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

// sanitizeString drops terminal control characters. Newlines and tabs
// survive; the renderers flatten them as needed.
func sanitizeString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r < 32 && r != '\n' && r != '\t') || r == 127 {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// pubkeyToColor selects a stable color tag for a pubkey.
func pubkeyToColor(pubkey string, palette []string) string {
	if len(palette) == 0 {
		return "[white]"
	}
	hash := sha256.Sum256([]byte(pubkey))
	return palette[int(hash[0])%len(palette)]
}
