package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestFlattenSelection(t *testing.T) {
	doc := parse(t, `<div>
		<span> hello </span>
		<span></span>
		<p>big <b>world</b></p>
	</div>`)

	require.Equal(t, "hello big world", FlattenSelection(doc.Find("div")))
}

func TestFlattenText(t *testing.T) {
	doc := parse(t, `<p>big <b>world</b></p>`)
	sel := doc.Find("p")
	require.Len(t, sel.Nodes, 1)
	require.Equal(t, "big world", FlattenText(sel.Nodes[0]))

	empty := parse(t, `<p>   </p>`).Find("p")
	require.Len(t, empty.Nodes, 1)
	require.Equal(t, "", FlattenText(empty.Nodes[0]))
}

func TestGetText(t *testing.T) {
	doc := parse(t, `<p>a<b>b</b>c</p>`)
	sel := doc.Find("p")
	require.Len(t, sel.Nodes, 1)
	require.Equal(t, "abc", GetText(sel.Nodes[0]))
}

func TestCleanText(t *testing.T) {
	require.Equal(t, "a b", CleanText("  a \t\n  b "))
}
