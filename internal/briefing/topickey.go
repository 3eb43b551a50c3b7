// Package briefing handles the generated briefing files: extracting
// quiz topic markers from their markdown and writing them to the
// output folder atomically.
package briefing

import (
	"regexp"
	"strings"

	"github.com/conorfennell/notebrief/internal/domain"
)

// Topic is one quizzable unit extracted from a briefing. Key is the
// opaque "{source_relative_path}#{section_id}" identifier the model
// was instructed to embed.
type Topic struct {
	Key     string
	Title   string
	Pattern domain.Pattern
}

var (
	topicMarkerPattern  = regexp.MustCompile(`<!--\s*topic_key:\s*(.+?)\s*-->\s*\n\s*###\s*(.+)`)
	questionTitlePattern = regexp.MustCompile(`^Q[12]\b`)
)

// Section emoji the quiz prompt uses to separate fresh material from
// review material; the nearest one preceding a marker decides its pattern.
const (
	learningMarker = "📘"
	reviewMarker   = "📗"
)

// ExtractTopics finds every topic marker in a briefing's markdown.
// Markers on Q1/Q2 question headings are skipped; the model sometimes
// tags those too.
func ExtractTopics(md string) []Topic {
	var topics []Topic
	for _, m := range topicMarkerPattern.FindAllStringSubmatchIndex(md, -1) {
		key := strings.TrimSpace(md[m[2]:m[3]])
		title := strings.TrimSpace(md[m[4]:m[5]])
		if questionTitlePattern.MatchString(title) {
			continue
		}
		topics = append(topics, Topic{
			Key:     key,
			Title:   title,
			Pattern: patternBefore(md[:m[0]]),
		})
	}
	return topics
}

// patternBefore classifies a topic by whichever section emoji appears
// last before it. No emoji at all means fresh material.
func patternBefore(preceding string) domain.Pattern {
	learning := strings.LastIndex(preceding, learningMarker)
	review := strings.LastIndex(preceding, reviewMarker)
	if review > learning {
		return domain.PatternReview
	}
	return domain.PatternLearning
}

// TopicTitle derives a short display title from a topic key, the part
// after the section separator.
func TopicTitle(topicKey string) string {
	if i := strings.LastIndex(topicKey, "#"); i >= 0 {
		return topicKey[i+1:]
	}
	return topicKey
}
