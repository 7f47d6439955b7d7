package feed

import (
	"html"
	"regexp"
	"strings"

	"github.com/olehvh/cek-outage-api/internal/models"
)

// Each message on the channel page sits inside its own wrap element; splitting
// on the wrap class keeps a message's text and publish time in the same block.
const messageWrapMarker = `class="tgme_widget_message_wrap`

var (
	reMessageText = regexp.MustCompile(`(?s)<div class="tgme_widget_message_text js-message_text" dir="auto">(.*?)</div>`)
	rePublished   = regexp.MustCompile(`<time datetime="([^"]+)" class="time">`)
	reLineBreak   = regexp.MustCompile(`<br\s*/?>`)
	reMarkupTag   = regexp.MustCompile(`<[^>]+>`)
)

// ExtractMessages pulls the announcement messages out of the raw channel
// markup, in feed order (newest first). Line breaks become newlines, all other
// markup is stripped and entities are decoded. A block without message text is
// skipped. The caller reverses the result before chronological replay.
func ExtractMessages(raw string) []models.Message {
	blocks := strings.Split(raw, messageWrapMarker)
	if len(blocks) < 2 {
		return nil
	}

	messages := make([]models.Message, 0, len(blocks)-1)
	for _, block := range blocks[1:] {
		m := reMessageText.FindStringSubmatch(block)
		if m == nil {
			continue
		}

		text := reLineBreak.ReplaceAllString(m[1], "\n")
		text = reMarkupTag.ReplaceAllString(text, "")
		text = html.UnescapeString(text)

		published := ""
		if t := rePublished.FindStringSubmatch(block); t != nil {
			published = t[1]
		}

		messages = append(messages, models.Message{Text: text, Published: published})
	}

	return messages
}
