package timeline

import (
	"sort"
	"strings"
)

// Kind identifies a subscription by the filter it represents. Two channels
// tracking the same hashtag set always map to the same Kind, so the cache
// holds at most one live subscription per filter.
type Kind string

const kindPrefix = "hashtag:"

// KindForHashtags derives the subscription key for a hashtag set. Tags are
// lowercased, stripped of a leading '#', deduplicated and sorted, so the
// result does not depend on input order.
func KindForHashtags(hashtags []string) Kind {
	seen := make(map[string]struct{}, len(hashtags))
	tags := make([]string, 0, len(hashtags))
	for _, tag := range hashtags {
		tag = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return Kind(kindPrefix + strings.Join(tags, "+"))
}

// Hashtags recovers the canonical hashtag set from the key.
func (k Kind) Hashtags() []string {
	body := strings.TrimPrefix(string(k), kindPrefix)
	if body == "" {
		return nil
	}
	return strings.Split(body, "+")
}

func (k Kind) String() string {
	return string(k)
}
