package ocr

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// lineClasses are the hOCR classes Tesseract emits for a line of text
var lineClasses = map[string]bool{
	"ocr_line":      true,
	"ocr_caption":   true,
	"ocr_header":    true,
	"ocr_textfloat": true,
}

// ParseHOCR reads hOCR markup into a Result. Each ocr_line element becomes a
// Line whose text is its words joined by single spaces and whose bounds come
// from the "bbox" property of its title attribute. Lines without words are
// skipped.
func ParseHOCR(r io.Reader) (Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse hOCR: %w", err)
	}

	var res Result
	var walkErr error
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if walkErr != nil {
			return
		}
		if n.Type == html.ElementNode && hasClass(n, lineClasses) {
			line, ok, err := parseLine(n)
			if err != nil {
				walkErr = err
				return
			}
			if ok {
				res.Lines = append(res.Lines, line)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if walkErr != nil {
		return Result{}, walkErr
	}

	res.PlainText = res.Text()
	return res, nil
}

func parseLine(n *html.Node) (Line, bool, error) {
	bounds, _, err := parseTitle(attr(n, "title"))
	if err != nil {
		return Line{}, false, err
	}

	var words []string
	var confSum float64
	var confCount int
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, map[string]bool{"ocrx_word": true}) {
			if w := strings.Join(strings.Fields(textContent(n)), " "); w != "" {
				words = append(words, w)
				if _, conf, err := parseTitle(attr(n, "title")); err == nil && conf >= 0 {
					confSum += conf
					confCount++
				}
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	// Lines written without word spans carry their text directly.
	if len(words) == 0 {
		words = strings.Fields(textContent(n))
	}
	if len(words) == 0 {
		return Line{}, false, nil
	}

	line := Line{Text: strings.Join(words, " "), Bounds: bounds}
	if confCount > 0 {
		line.Confidence = confSum / float64(confCount) / 100
	}
	return line, true, nil
}

// parseTitle reads the bbox and x_wconf properties of an hOCR title
// attribute, e.g. "bbox 36 92 580 122; baseline 0 -6; x_wconf 91".
// A missing confidence is reported as -1.
func parseTitle(title string) (Region, float64, error) {
	var bounds Region
	conf := -1.0
	found := false
	for _, prop := range strings.Split(title, ";") {
		fields := strings.Fields(prop)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "bbox":
			if len(fields) != 5 {
				return Region{}, 0, fmt.Errorf("malformed hOCR bbox %q", prop)
			}
			var v [4]float64
			for i := range v {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return Region{}, 0, fmt.Errorf("malformed hOCR bbox %q: %w", prop, err)
				}
				v[i] = f
			}
			bounds = Region{X: v[0], Y: v[1], Width: v[2] - v[0], Height: v[3] - v[1]}
			found = true
		case "x_wconf":
			if len(fields) == 2 {
				if f, err := strconv.ParseFloat(fields[1], 64); err == nil {
					conf = f
				}
			}
		}
	}
	if !found {
		return Region{}, 0, fmt.Errorf("hOCR element without bbox: %q", title)
	}
	return bounds, conf, nil
}

func hasClass(n *html.Node, classes map[string]bool) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if classes[c] {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
