package site

import (
	"encoding/json"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// PreviewLength is the number of characters kept from an article body
const PreviewLength = 120

var strictPolicy = bluemonday.StrictPolicy()

type delta struct {
	Ops []deltaOp `json:"ops"`
}

type deltaOp struct {
	Insert     json.RawMessage        `json:"insert"`
	Attributes map[string]interface{} `json:"attributes"`
}

// PreviewText extracts a plain-text teaser from a rich-text delta.
// Block formatting ops (headers, lists) drop the line they apply to.
func PreviewText(content string) string {
	var d delta
	if err := json.Unmarshal([]byte(content), &d); err != nil {
		return "..."
	}

	var out []string
	for _, op := range d.Ops {
		if isBlockFormat(op.Attributes) {
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
			continue
		}

		var text string
		if err := json.Unmarshal(op.Insert, &text); err != nil || text == "" {
			// embeds (images, video) insert objects, not text
			continue
		}
		out = append(out, text)
	}

	plain := html.UnescapeString(strictPolicy.Sanitize(strings.Join(out, "")))
	return truncate(plain, PreviewLength) + "..."
}

func isBlockFormat(attrs map[string]interface{}) bool {
	for _, key := range []string{"header", "insert", "list"} {
		if v, ok := attrs[key]; ok && truthy(v) {
			return true
		}
	}
	return false
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	}
	return true
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
