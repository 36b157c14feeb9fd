package boxes

import (
	pr "github.com/benoitkugler/gridlayout/css/properties"
	"github.com/benoitkugler/gridlayout/utils"
)

// Content describes the inline content of a leaf box: either
// words wrapped on lines, or a fixed size replaced content.
type Content struct {
	Words      []Fl // width of each word
	Space      Fl   // width of the space between words
	LineHeight Fl

	// Intrinsic size of a replaced content (like an image).
	IntrinsicWidth, IntrinsicHeight Fl
}

// IsEmpty is true when the box has neither text nor intrinsic size.
func (c Content) IsEmpty() bool {
	return len(c.Words) == 0 && c.IntrinsicWidth == 0 && c.IntrinsicHeight == 0
}

// MinContentWidth is the width of the longest word.
func (c Content) MinContentWidth() Fl {
	w := c.IntrinsicWidth
	for _, word := range c.Words {
		w = utils.MaxF(w, word)
	}
	return w
}

// MaxContentWidth is the width of the text on a single line.
func (c Content) MaxContentWidth() Fl {
	var w Fl
	for i, word := range c.Words {
		if i > 0 {
			w += c.Space
		}
		w += word
	}
	return utils.MaxF(w, c.IntrinsicWidth)
}

// Lines returns the number of lines needed to fit the words in width.
func (c Content) Lines(width Fl) int {
	if len(c.Words) == 0 {
		return 0
	}
	lines, current := 1, Fl(-1)
	for _, word := range c.Words {
		if current < 0 {
			current = word
			continue
		}
		if next := current + c.Space + word; next <= width+1e-9 {
			current = next
		} else {
			lines++
			current = word
		}
	}
	return lines
}

// HeightForWidth returns the content height when wrapped in width.
func (c Content) HeightForWidth(width Fl) Fl {
	return utils.MaxF(Fl(c.Lines(width))*c.LineHeight, c.IntrinsicHeight)
}

// ascent is the part of a line above the baseline.
const ascent = 0.8

// FirstBaseline returns the offset of the first baseline from the
// content top, or AutoF when the content has no text.
func (c Content) FirstBaseline() pr.MaybeFloat {
	if len(c.Words) == 0 {
		return pr.AutoF
	}
	return pr.F(ascent * c.LineHeight)
}

// LastBaseline returns the offset of the last baseline from the
// content top when wrapped in width.
func (c Content) LastBaseline(width Fl) pr.MaybeFloat {
	n := c.Lines(width)
	if n == 0 {
		return pr.AutoF
	}
	return pr.F(Fl(n-1)*c.LineHeight + ascent*c.LineHeight)
}
