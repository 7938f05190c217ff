// Package sanitize strips markup from user-supplied text.
package sanitize

import (
	"strings"

	"golang.org/x/net/html"
)

// Elements whose content is dropped together with the tags.
var nonTextTags = map[string]bool{
	"script":    true,
	"style":     true,
	"textarea":  true,
	"option":    true,
	"noscript":  true,
	"iframe":    true,
	"xmp":       true,
	"noembed":   true,
	"noframes":  true,
	"plaintext": true,
}

// Text removes every tag and attribute from s, keeps the remaining text in
// document order and trims surrounding whitespace. Text is kept as written:
// character references are not decoded. A '<' left in the output that could
// open a tag is written as "&lt;", so the result never contains markup and
// Text(Text(s)) == Text(s).
func Text(s string) string {
	if !strings.ContainsRune(s, '<') {
		return strings.TrimSpace(s)
	}

	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0
	consumed := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF is the only error a strings.Reader can produce. Bytes of an
			// unfinished tag at the end of input are kept as text.
			if skip == 0 && consumed < len(s) {
				b.WriteString(s[consumed:])
			}
			return strings.TrimSpace(escapeTagOpeners(b.String()))
		}
		raw := z.Raw()
		consumed += len(raw)
		switch tt {
		case html.TextToken:
			if skip == 0 {
				b.Write(raw)
			}
		case html.StartTagToken:
			name, _ := z.TagName()
			if nonTextTags[string(name)] {
				skip++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if nonTextTags[string(name)] && skip > 0 {
				skip--
			}
		}
	}
}

// escapeTagOpeners replaces every '<' that a tokenizer would read as the start
// of a tag, end tag or comment. Stripping tags can join a stray '<' with the
// text that followed the tag, e.g. "<<b>img" -> "<img".
func escapeTagOpeners(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '<' && i+1 < len(s) && opensTag(s[i+1]) {
			b.WriteString("&lt;")
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func opensTag(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '/' || c == '!' || c == '?'
}
