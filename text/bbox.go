package text

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/grundbuch/model"
)

// ParseBBoxLayout parses an XHTML bounding-box dump into pages of fragments.
// Page and word coordinates are converted from points to millimetres.
func ParseBBoxLayout(r io.Reader) ([]Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse text layer: %w", err)
	}

	var pages []Page
	var walkErr error
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if walkErr != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "page" {
			page, err := parsePage(n, len(pages))
			if err != nil {
				walkErr = err
				return
			}
			pages = append(pages, page)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if walkErr != nil {
		return nil, walkErr
	}
	return pages, nil
}

func parsePage(n *html.Node, index int) (Page, error) {
	width, err := floatAttr(n, "width")
	if err != nil {
		return Page{}, fmt.Errorf("page %d: %w", index, err)
	}
	height, err := floatAttr(n, "height")
	if err != nil {
		return Page{}, fmt.Errorf("page %d: %w", index, err)
	}

	page := Page{
		Index: index,
		Size:  model.Size{Width: width / PointsPerMM, Height: height / PointsPerMM},
	}

	var walkErr error
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if walkErr != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "word" {
			frag, err := parseWord(n)
			if err != nil {
				walkErr = fmt.Errorf("page %d: %w", index, err)
				return
			}
			if frag.Text != "" {
				page.Fragments = append(page.Fragments, frag)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return page, walkErr
}

func parseWord(n *html.Node) (Fragment, error) {
	// The HTML parser lower-cases attribute names (xMin -> xmin).
	var coords [4]float64
	for i, key := range []string{"xmin", "ymin", "xmax", "ymax"} {
		v, err := floatAttr(n, key)
		if err != nil {
			return Fragment{}, err
		}
		coords[i] = v / PointsPerMM
	}
	return Fragment{
		Text: strings.TrimSpace(textContent(n)),
		BBox: model.NewBBoxFromEdges(coords[0], coords[1], coords[2], coords[3]),
	}, nil
}

func floatAttr(n *html.Node, key string) (float64, error) {
	for _, a := range n.Attr {
		if a.Key == key {
			v, err := strconv.ParseFloat(strings.TrimSpace(a.Val), 64)
			if err != nil {
				return 0, fmt.Errorf("attribute %s=%q: %w", key, a.Val, err)
			}
			return v, nil
		}
	}
	return 0, fmt.Errorf("missing attribute %s on <%s>", key, n.Data)
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
