package feed

import (
	"strings"
	"time"
)

// Accepted RFC 822 style layouts. The day may be one or two digits.
var (
	numericOffsetLayouts = []string{
		"Mon, 2 Jan 2006 15:04:05 -0700",
		"Mon, 2 Jan 2006 15:04:05 -07:00",
	}
	namedZoneLayout = "Mon, 2 Jan 2006 15:04:05 MST"
)

const (
	offsetISOLayout = "2006-01-02T15:04:05-07:00"
	localISOLayout  = "2006-01-02T15:04:05"
)

// Only these abbreviations have an unambiguous meaning. time.Parse would
// accept any abbreviation and invent a zero offset for unknown ones.
var namedZones = map[string]string{
	"UTC": "UTC",
	"GMT": "GMT",
	"UT":  "UTC",
}

// NormalizePubDate converts an RSS pubDate into ISO-8601.
//
// A value containing "+" is read with a numeric offset and rendered with it
// (+0000 becomes +00:00). Any other value is read with a named zone; UTC, GMT
// and UT render as wall-clock time without an offset. Values that do not parse,
// or carry another zone name, are returned unchanged. Empty stays empty.
func NormalizePubDate(raw string) string {
	if raw == "" {
		return ""
	}

	value := strings.Join(strings.Fields(raw), " ")

	if strings.Contains(raw, "+") {
		for _, layout := range numericOffsetLayouts {
			if t, err := time.Parse(layout, value); err == nil {
				return t.Format(offsetISOLayout)
			}
		}
		return raw
	}

	idx := strings.LastIndexByte(value, ' ')
	if idx < 0 {
		return raw
	}
	zone, ok := namedZones[strings.ToUpper(value[idx+1:])]
	if !ok {
		return raw
	}

	t, err := time.Parse(namedZoneLayout, value[:idx+1]+zone)
	if err != nil {
		return raw
	}
	// Every accepted zone has offset zero, so UTC wall time equals the written time.
	return t.UTC().Format(localISOLayout)
}
