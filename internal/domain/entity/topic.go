// Package entity defines the core domain types of the tagging pipeline:
// topic records produced from feeds, the sources they come from, and the
// closed tag vocabulary the classifier is allowed to emit.
package entity

// TopicRecord is one normalized news item.
// Field order is the key order of the output document.
type TopicRecord struct {
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	Description string   `json:"description"`
	PubDate     string   `json:"pub_date"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

// ClassificationText returns the text sent to the classifier: the title and
// description joined by a single space.
func (t TopicRecord) ClassificationText() string {
	return t.Title + " " + t.Description
}

// WithTags returns a copy of the record with tags attached.
// A nil slice is replaced with an empty one so the output never carries null.
func (t TopicRecord) WithTags(tags []string) TopicRecord {
	if tags == nil {
		tags = []string{}
	}
	t.Tags = tags
	return t
}
