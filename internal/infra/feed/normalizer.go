package feed

import (
	"fmt"
	"strings"

	"news-tag-app/internal/domain/entity"

	"github.com/mmcdole/gofeed/rss"
)

// Normalizer turns RSS 2.0 and RSS 1.0 (RDF) documents into topic records.
type Normalizer struct{}

// NewNormalizer creates a Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize parses xmlText and returns one record per item in document order.
// Category and Tags are left unset. A document without items yields an empty,
// non-nil slice. Malformed XML is an error.
func (n *Normalizer) Normalize(xmlText string) ([]entity.TopicRecord, error) {
	parser := &rss.Parser{}
	doc, err := parser.Parse(strings.NewReader(xmlText))
	if err != nil {
		return nil, fmt.Errorf("parse rss: %w", err)
	}

	records := make([]entity.TopicRecord, 0, len(doc.Items))
	for _, it := range doc.Items {
		if it == nil {
			continue
		}
		records = append(records, entity.TopicRecord{
			Title:       it.Title,
			Link:        it.Link,
			Description: it.Description,
			PubDate:     NormalizePubDate(it.PubDate),
		})
	}
	return records, nil
}
