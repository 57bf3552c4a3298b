package tagging

import (
	"encoding/json"
	"fmt"
	"strings"

	"news-tag-app/internal/domain/entity"
)

// Generation parameters for every classification call.
const (
	temperature     = 0.0
	topP            = 1.0
	maxOutputTokens = 1024
)

const japaneseSystemPrompt = `# 命令
あなたはニュース記事にカテゴリタグを付けるアシスタントです。
入力されるニュース記事の文章に関連するカテゴリを、
次の5つの中から「当てはまりそうなものをすべて」選んで出力してください。

%[1]s

# 重要なルール
- ニュースの内容に少しでも関係しそうなカテゴリは、すべて含めてください。
- 迷った場合は「付ける」側に寄せてください。（＝複数タグになりやすくしてよい）
- 必ず1つ以上のカテゴリを返してください。空配列 [] は使ってはいけません。
- 関係が強い順に並べてください。（例: %[2]s のように重要なものを先頭に）

# 制約条件
- 次の5つ以外の文字列は絶対に出力しないこと。
  %[1]s
- 出力は JSON 配列「だけ」にすること。
- JSON オブジェクトしか返せない場合は {"tags": [...]} の形にすること。
- 説明文やコメント、日本語の文章は一切書かないこと。

# 出力例
%[2]s
`

const englishSystemPrompt = `# Task
You assign category tags to news articles.
Choose every category from the following five that plausibly applies to the input article.

%[1]s

# Rules
- Include every category that is even slightly related to the article.
- When unsure, include the category. Multiple tags are expected.
- Always return at least one category. Never return an empty array [].
- Order categories by relevance, most relevant first (for example %[2]s).

# Constraints
- Never output any string other than these five:
  %[1]s
- Output a JSON array only.
- If only a JSON object can be returned, use the form {"tags": [...]}.
- Do not write explanations or comments.

# Example output
%[2]s
`

// SystemPrompt renders the classification instruction for vocab.
func SystemPrompt(vocab entity.Vocabulary) string {
	labels := jsonList(vocab.Labels)
	example := jsonList(vocab.Labels[:2])

	tmpl := japaneseSystemPrompt
	if vocab.Locale == entity.LocaleEnglish {
		tmpl = englishSystemPrompt
	}
	return fmt.Sprintf(tmpl, labels, example)
}

// jsonList renders labels as a JSON array with a space after each comma.
func jsonList(labels []string) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, l := range labels {
		if i > 0 {
			sb.WriteString(", ")
		}
		b, _ := json.Marshal(l)
		sb.Write(b)
	}
	sb.WriteByte(']')
	return sb.String()
}
