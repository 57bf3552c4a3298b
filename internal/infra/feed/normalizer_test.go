package feed_test

import (
	"testing"

	"news-tag-app/internal/domain/entity"
	"news-tag-app/internal/infra/feed"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizer_Normalize_RSS2(t *testing.T) {
	xmlText := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <item>
      <title>首相が会見</title>
      <link>https://example.com/1</link>
      <description>内閣改造について説明</description>
      <pubDate>Wed, 02 Oct 2024 09:30:00 +0900</pubDate>
    </item>
    <item>
      <title>Market update</title>
      <link>https://example.com/2</link>
      <description><![CDATA[Stocks <b>rose</b> today]]></description>
      <pubDate>not a date</pubDate>
    </item>
  </channel>
</rss>`

	records, err := feed.NewNormalizer().Normalize(xmlText)
	require.NoError(t, err)

	want := []entity.TopicRecord{
		{
			Title:       "首相が会見",
			Link:        "https://example.com/1",
			Description: "内閣改造について説明",
			PubDate:     "2024-10-02T09:30:00+09:00",
		},
		{
			Title:       "Market update",
			Link:        "https://example.com/2",
			Description: "Stocks <b>rose</b> today",
			PubDate:     "not a date",
		},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizer_Normalize_MissingChildren(t *testing.T) {
	xmlText := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <item>
      <title>Only a title</title>
    </item>
    <item>
      <title></title>
      <link>https://example.com/x</link>
    </item>
  </channel>
</rss>`

	records, err := feed.NewNormalizer().Normalize(xmlText)
	require.NoError(t, err)

	want := []entity.TopicRecord{
		{Title: "Only a title"},
		{Link: "https://example.com/x"},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizer_Normalize_ZeroItems(t *testing.T) {
	xmlText := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Empty</title></channel></rss>`

	records, err := feed.NewNormalizer().Normalize(xmlText)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestNormalizer_Normalize_RDF(t *testing.T) {
	// RSS 1.0 では item が channel の兄弟要素になる
	xmlText := `<?xml version="1.0" encoding="UTF-8"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#" xmlns="http://purl.org/rss/1.0/">
  <channel rdf:about="https://example.jp/">
    <title>RDF Feed</title>
    <link>https://example.jp/</link>
  </channel>
  <item rdf:about="https://example.jp/a">
    <title>記事A</title>
    <link>https://example.jp/a</link>
    <description>説明A</description>
  </item>
  <item rdf:about="https://example.jp/b">
    <title>記事B</title>
    <link>https://example.jp/b</link>
    <description>説明B</description>
  </item>
</rdf:RDF>`

	records, err := feed.NewNormalizer().Normalize(xmlText)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "記事A", records[0].Title)
	assert.Equal(t, "https://example.jp/b", records[1].Link)
	assert.Equal(t, "", records[1].PubDate)
}

func TestNormalizer_Normalize_PreservesOrderAndDuplicates(t *testing.T) {
	xmlText := `<rss version="2.0"><channel>
<item><title>B</title></item>
<item><title>A</title></item>
<item><title>B</title></item>
</channel></rss>`

	records, err := feed.NewNormalizer().Normalize(xmlText)
	require.NoError(t, err)

	titles := make([]string, 0, len(records))
	for _, r := range records {
		titles = append(titles, r.Title)
	}
	assert.Equal(t, []string{"B", "A", "B"}, titles)
}

func TestNormalizer_Normalize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		xmlText string
	}{
		{name: "not xml", xmlText: "this is not xml"},
		{name: "empty document", xmlText: ""},
		{name: "truncated", xmlText: `<rss version="2.0"><channel><item><title>oops`},
		{name: "atom root", xmlText: `<feed xmlns="http://www.w3.org/2005/Atom"><title>x</title></feed>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := feed.NewNormalizer().Normalize(tt.xmlText)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "parse rss")
			assert.Nil(t, records)
		})
	}
}
