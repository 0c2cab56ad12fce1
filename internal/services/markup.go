package services

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

var (
	fencedCodeRe = regexp.MustCompile("(?s)```(?:[A-Za-z0-9_+-]*\\n)?(.*?)```")
	inlineCodeRe = regexp.MustCompile("`([^`\\n]+)`")
	boldRe       = regexp.MustCompile(`\*\*([^*\s](?:[^*\n]*[^*\s])?)\*\*`)
	italicRe     = regexp.MustCompile(`\*([^*\s](?:[^*\n]*[^*\s])?)\*`)
	blankLinesRe = regexp.MustCompile(`\n{2,}`)
	placeholder  = regexp.MustCompile("\x00([0-9]+)\x00")
)

// RenderMarkup turns webhook text into HTML. Only bold, italic, fenced code
// and inline code are recognised; everything else is escaped, so the result
// is safe to insert into a page as-is.
func RenderMarkup(text string) string {
	text = strings.ReplaceAll(text, "\x00", "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = html.EscapeString(text)

	// Code is stashed first so emphasis markers inside it stay literal.
	var code []string
	stash := func(fragment string) string {
		code = append(code, fragment)
		return "\x00" + strconv.Itoa(len(code)-1) + "\x00"
	}

	text = fencedCodeRe.ReplaceAllStringFunc(text, func(m string) string {
		body := fencedCodeRe.FindStringSubmatch(m)[1]
		return stash("<pre><code>" + strings.TrimRight(body, "\n") + "</code></pre>")
	})
	text = inlineCodeRe.ReplaceAllStringFunc(text, func(m string) string {
		return stash("<code>" + inlineCodeRe.FindStringSubmatch(m)[1] + "</code>")
	})

	text = boldRe.ReplaceAllString(text, "<strong>$1</strong>")
	text = italicRe.ReplaceAllString(text, "<em>$1</em>")
	text = blankLinesRe.ReplaceAllString(text, "\n")

	return placeholder.ReplaceAllStringFunc(text, func(m string) string {
		i, err := strconv.Atoi(placeholder.FindStringSubmatch(m)[1])
		if err != nil || i >= len(code) {
			return ""
		}
		return code[i]
	})
}
