package tagging

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"news-tag-app/internal/domain/entity"
)

var (
	// ErrMalformedJSON means the model output is not valid JSON.
	ErrMalformedJSON = errors.New("tagging: response is not valid JSON")

	// ErrTagType means the JSON is valid but is not a list of strings.
	ErrTagType = errors.New("tagging: response is not a list of tag strings")
)

// parseResult is the validated content of a model response.
type parseResult struct {
	Tags []string
	// Rejected holds labels dropped because they are outside the vocabulary.
	Rejected []string
}

// stripFence removes surrounding whitespace and a Markdown code fence with an
// optional language tag such as json.
func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.Trim(s, "`")
	s = strings.TrimLeftFunc(s, unicode.IsLetter)
	return strings.TrimSpace(s)
}

// parseTags decodes a model response and validates it against vocab.
//
// Accepted shapes are a JSON array of strings and an object whose only
// array-valued field holds the strings ({"tags": [...]}). Labels are trimmed,
// out-of-vocabulary labels are dropped, and duplicates keep their first position.
func parseTags(raw string, vocab entity.Vocabulary) (parseResult, error) {
	payload := stripFence(raw)

	var decoded any
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return parseResult{}, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	items, err := tagArray(decoded)
	if err != nil {
		return parseResult{}, err
	}

	res := parseResult{Tags: make([]string, 0, len(items))}
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		label, ok := item.(string)
		if !ok {
			return parseResult{}, fmt.Errorf("%w: element %d is %T", ErrTagType, i, item)
		}
		label = strings.TrimSpace(label)
		if !vocab.Contains(label) {
			res.Rejected = append(res.Rejected, label)
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		res.Tags = append(res.Tags, label)
	}
	return res, nil
}

func tagArray(decoded any) ([]any, error) {
	switch v := decoded.(type) {
	case []any:
		return v, nil
	case map[string]any:
		var found []any
		count := 0
		for _, field := range v {
			if arr, ok := field.([]any); ok {
				found = arr
				count++
			}
		}
		if count != 1 {
			return nil, fmt.Errorf("%w: object has %d array fields", ErrTagType, count)
		}
		return found, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrTagType, decoded)
	}
}
