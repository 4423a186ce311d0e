package preview

import (
	"fmt"
	"regexp"
	"strings"

	css "github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Elements whose text content means nothing to a reader. We locate these
// with a selector rather than tag-name checks so the list reads like the
// CSS it effectively is.
var invisiblePattern = "script, style, head, noscript, template"
var invisibleSelector css.Selector = mustCompile(invisiblePattern)

// Elements that end a line when rendered, so their text shouldn't run into
// the text of what follows.
var blockTags = map[string]struct{}{
	"p":       {},
	"div":     {},
	"br":      {},
	"li":      {},
	"tr":      {},
	"table":   {},
	"h1":      {},
	"h2":      {},
	"h3":      {},
	"h4":      {},
	"h5":      {},
	"h6":      {},
	"ul":      {},
	"ol":      {},
	"pre":     {},
	"section": {},
	"article": {},
}

var whitespaceRe = regexp.MustCompile(`\s+`)
var blankLineRe = regexp.MustCompile(`\n{3,}`)

// mustCompile exists because the selector strings in this file are
// constant, so a parse failure is a bug, not a runtime condition.
func mustCompile(s string) css.Selector {
	c, err := css.Compile(s)
	if err != nil {
		panic(fmt.Sprintf("can't compile the selector %q: %v", s, err))
	}
	return c
}

// htmlToText flattens markup to the text a reader would see: invisible
// subtrees are dropped, block elements get line breaks, and runs of
// whitespace collapse. Cell padding, CSS, and layout are all lost, which is
// fine for a preview.
func htmlToText(markup string) (string, error) {
	n, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("can't parse the text/html representation: %v", err)
	}

	// Collect the subtrees to skip up front. Matching during the walk
	// would re-test every node against the whole selector group.
	skip := map[*html.Node]struct{}{}
	for _, m := range invisibleSelector.MatchAll(n) {
		skip[m] = struct{}{}
	}

	var str strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if _, ok := skip[n]; ok {
			return
		}
		if n.Type == html.TextNode {
			// Collapse the text node's own whitespace here rather
			// than globally, so the two-space cell separators
			// added below survive
			str.WriteString(whitespaceRe.ReplaceAllString(n.Data, " "))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if _, ok := blockTags[n.Data]; n.Type == html.ElementNode && ok {
			str.WriteString("\n")
		}
		// Keep table cells from running together
		if n.Type == html.ElementNode && (n.Data == "td" || n.Data == "th") {
			str.WriteString("  ")
		}
	}
	walk(n)

	t := blankLineRe.ReplaceAllString(str.String(), "\n\n")

	// Trim trailing space introduced by cell separators
	lines := strings.Split(t, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}

	return strings.Trim(strings.Join(lines, "\n"), "\n") + "\n", nil
}
