package entity

import "fmt"

// Locale selects the label language of the tag vocabulary.
type Locale string

const (
	LocaleJapanese Locale = "ja"
	LocaleEnglish  Locale = "en"
)

// Vocabulary is the closed, ordered set of tags the classifier may emit.
type Vocabulary struct {
	Locale Locale
	Labels []string
	index  map[string]struct{}
}

// Canonical topics: Politics, Economy, Sports, IT, AI.
var (
	japaneseLabels = []string{"政治", "経済", "スポーツ", "IT", "AI"}
	englishLabels  = []string{"Politics", "Economy", "Sports", "IT", "AI"}
)

// NewVocabulary returns the vocabulary for the given locale.
func NewVocabulary(locale Locale) (Vocabulary, error) {
	var labels []string
	switch locale {
	case LocaleJapanese:
		labels = japaneseLabels
	case LocaleEnglish:
		labels = englishLabels
	default:
		return Vocabulary{}, &ValidationError{
			Field:   "locale",
			Message: fmt.Sprintf("unsupported locale %q (must be ja or en)", locale),
		}
	}

	index := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		index[l] = struct{}{}
	}

	return Vocabulary{
		Locale: locale,
		Labels: append([]string(nil), labels...),
		index:  index,
	}, nil
}

// Contains reports whether tag is one of the vocabulary labels.
func (v Vocabulary) Contains(tag string) bool {
	_, ok := v.index[tag]
	return ok
}
