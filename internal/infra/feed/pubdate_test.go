package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePubDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "", want: ""},
		{name: "numeric positive offset", raw: "Wed, 02 Oct 2024 09:30:00 +0900", want: "2024-10-02T09:30:00+09:00"},
		{name: "zero offset keeps +00:00", raw: "Mon, 01 Jan 2024 00:00:00 +0000", want: "2024-01-01T00:00:00+00:00"},
		{name: "single digit day", raw: "Tue, 5 Mar 2024 18:04:59 +0900", want: "2024-03-05T18:04:59+09:00"},
		{name: "colon offset", raw: "Wed, 02 Oct 2024 09:30:00 +09:00", want: "2024-10-02T09:30:00+09:00"},
		{name: "extra whitespace", raw: "Wed, 02 Oct 2024  09:30:00 +0900", want: "2024-10-02T09:30:00+09:00"},
		{name: "GMT renders without offset", raw: "Wed, 02 Oct 2024 09:30:00 GMT", want: "2024-10-02T09:30:00"},
		{name: "UTC renders without offset", raw: "Wed, 02 Oct 2024 23:59:59 UTC", want: "2024-10-02T23:59:59"},
		{name: "UT is treated as UTC", raw: "Wed, 02 Oct 2024 09:30:00 UT", want: "2024-10-02T09:30:00"},
		{name: "JST passes through", raw: "Wed, 02 Oct 2024 09:30:00 JST", want: "Wed, 02 Oct 2024 09:30:00 JST"},
		{name: "EST passes through", raw: "Wed, 02 Oct 2024 09:30:00 EST", want: "Wed, 02 Oct 2024 09:30:00 EST"},
		{name: "negative offset is read as a named zone and passes through", raw: "Wed, 02 Oct 2024 09:30:00 -0500", want: "Wed, 02 Oct 2024 09:30:00 -0500"},
		{name: "not a date", raw: "not a date", want: "not a date"},
		{name: "plus sign without date", raw: "soon + later", want: "soon + later"},
		{name: "ISO input passes through", raw: "2024-10-02T09:30:00+09:00", want: "2024-10-02T09:30:00+09:00"},
		{name: "single word", raw: "yesterday", want: "yesterday"},
		{name: "invalid day", raw: "Wed, 32 Oct 2024 09:30:00 +0900", want: "Wed, 32 Oct 2024 09:30:00 +0900"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePubDate(tt.raw))
		})
	}
}
