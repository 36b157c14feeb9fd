// Package tree builds box trees from HTML fixtures.
//
// Only the style attributes are used: there is no cascade and no
// inheritance, every element starts from the initial values. Text is
// measured with a fixed advance per character, given by [Metrics].
package tree

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/width"

	pr "github.com/benoitkugler/gridlayout/css/properties"
	"github.com/benoitkugler/gridlayout/css/validation"
	bo "github.com/benoitkugler/gridlayout/html/boxes"
	"github.com/benoitkugler/gridlayout/logger"
	"github.com/benoitkugler/gridlayout/utils"
)

// ErrNoBody is returned when the document has no <body> element.
var ErrNoBody = errors.New("missing <body> element")

// Metrics defines the size of the text.
type Metrics struct {
	CharWidth  pr.Float `mapstructure:"char_width"` // advance of a narrow character
	SpaceWidth pr.Float `mapstructure:"space_width"`
	LineHeight pr.Float `mapstructure:"line_height"`
}

// DefaultMetrics is a monospace font of 16px.
var DefaultMetrics = Metrics{CharWidth: 8, SpaceWidth: 8, LineHeight: 20}

// elements not rendered at all
var skippedTags = []string{"head", "script", "style", "template", "title", "meta", "link"}

// Parse reads the HTML document in r and returns its box tree,
// rooted at the <body> element.
// Invalid style declarations are ignored, and logged.
func Parse(r io.Reader, metrics Metrics) (*bo.Tree, error) {
	doc, err := html.ParseWithOptions(r, html.ParseOptionEnableScripting(false))
	if err != nil {
		return nil, fmt.Errorf("invalid html input: %w", err)
	}
	body := findBody(doc)
	if body == nil {
		return nil, ErrNoBody
	}
	b := builder{metrics: metrics}
	b.tree = bo.NewTree(b.style(body))
	b.tree.Box(b.tree.Root()).ElementTag = "body"
	b.tree.Box(b.tree.Root()).ElementID = getAttr(body, "id")
	b.addChildren(b.tree.Root(), body)
	return b.tree, nil
}

// ParseString is a convenience wrapper around [Parse].
func ParseString(content string, metrics Metrics) (*bo.Tree, error) {
	return Parse(strings.NewReader(content), metrics)
}

// LoadFile parses the HTML fixture at path.
func LoadFile(path string, metrics Metrics) (*bo.Tree, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tree, err := Parse(bytes.NewReader(content), metrics)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

type builder struct {
	tree    *bo.Tree
	metrics Metrics
}

// style returns the style of element, as defined by its style attribute.
func (b *builder) style(element *html.Node) pr.Style {
	style := pr.InitialStyle()
	css := getAttr(element, "style")
	if css == "" {
		return style
	}
	if err := validation.ApplyDeclarations(&style, css); err != nil {
		var merr *multierror.Error
		if errors.As(err, &merr) {
			for _, e := range merr.Errors {
				logger.WarningLogger.Printf("<%s>: %s", element.Data, e)
			}
		} else {
			logger.WarningLogger.Printf("<%s>: %s", element.Data, err)
		}
	}
	return style
}

// addChildren adds the boxes for the children of element.
// When element only contains text, the words are used as the content
// of parent. Otherwise, each run of text is wrapped in an anonymous box.
func (b *builder) addChildren(parent bo.ItemID, element *html.Node) {
	hasElements := false
	for c := element.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && !utils.IsIn(skippedTags, c.Data) {
			hasElements = true
			break
		}
	}

	var text strings.Builder
	flushText := func() {
		words := strings.Fields(text.String())
		text.Reset()
		if len(words) == 0 {
			return
		}
		content := b.measure(words)
		if !hasElements {
			b.tree.Box(parent).Content = content
			return
		}
		b.tree.Add(parent, bo.Box{Style: pr.InitialStyle(), ElementTag: "anonymous", Content: content})
	}

	for c := element.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			text.WriteString(c.Data)
			text.WriteByte(' ')
		case html.ElementNode:
			if utils.IsIn(skippedTags, c.Data) {
				continue
			}
			flushText()
			b.addElement(parent, c)
		}
	}
	flushText()
}

func (b *builder) addElement(parent bo.ItemID, element *html.Node) {
	box := bo.Box{
		Style:      b.style(element),
		ElementTag: element.Data,
		ElementID:  getAttr(element, "id"),
	}
	if element.DataAtom == atom.Img || element.DataAtom == atom.Canvas || element.DataAtom == atom.Video {
		box.Content.IntrinsicWidth = b.dimensionAttr(element, "width")
		box.Content.IntrinsicHeight = b.dimensionAttr(element, "height")
		b.tree.Add(parent, box)
		return
	}
	id := b.tree.Add(parent, box)
	b.addChildren(id, element)
}

// dimensionAttr parses the width or height attribute of a replaced element.
func (b *builder) dimensionAttr(element *html.Node, key string) pr.Float {
	s := strings.TrimSuffix(strings.TrimSpace(getAttr(element, key)), "px")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		logger.WarningLogger.Printf("<%s>: invalid %s attribute %q", element.Data, key, getAttr(element, key))
		return 0
	}
	return pr.Float(v)
}

// measure returns the content for words, wide characters
// using twice the advance of narrow ones.
func (b *builder) measure(words []string) bo.Content {
	out := bo.Content{Space: b.metrics.SpaceWidth, LineHeight: b.metrics.LineHeight}
	for _, word := range words {
		var w pr.Float
		for _, r := range word {
			switch width.LookupRune(r).Kind() {
			case width.EastAsianWide, width.EastAsianFullwidth:
				w += 2 * b.metrics.CharWidth
			default:
				w += b.metrics.CharWidth
			}
		}
		out.Words = append(out.Words, w)
	}
	return out
}
