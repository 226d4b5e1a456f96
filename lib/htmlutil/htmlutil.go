package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText concatenates every text node under node without any separators.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// FlattenText joins the trimmed text nodes under node with single spaces,
// skipping the ones that are empty after trimming. This matches the
// "visible text" flattening that markup heuristics key off of.
func FlattenText(node *html.Node) string {
	var parts []string
	flattenTextRecursive(node, &parts)
	return strings.Join(parts, " ")
}

func flattenTextRecursive(node *html.Node, parts *[]string) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		trimmed := strings.TrimSpace(node.Data)
		if trimmed != "" {
			*parts = append(*parts, trimmed)
		}
		return
	}
	child := node.FirstChild
	for child != nil {
		flattenTextRecursive(child, parts)
		child = child.NextSibling
	}
}

// FlattenSelection is FlattenText over every node in a goquery selection.
func FlattenSelection(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		if text := FlattenText(n); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// CleanText strips non-printable runes, trims surrounding whitespace and
// collapses inner whitespace runs to a single space.
func CleanText(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	out := strings.Trim(newStr.String(), " \t\n")
	return innerWhitespace.ReplaceAllString(out, " ")
}
