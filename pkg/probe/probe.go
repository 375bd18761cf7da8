// Package probe summarizes page HTML so a freshly launched browser can be
// checked for working navigation.
package probe

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Summary describes a rendered page.
type Summary struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Headings    int    `json:"headings"`
	Links       int    `json:"links"`
	Forms       int    `json:"forms"`
}

// Summarize parses rawHTML and collects its title, meta description and
// element counts. Content inside script and style elements is ignored.
func Summarize(rawHTML string) (*Summary, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	s := &Summary{}
	walk(doc, s)
	return s, nil
}

func walk(n *html.Node, s *Summary) {
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript", "template":
			return
		case "title":
			if s.Title == "" {
				s.Title = strings.TrimSpace(textContent(n))
			}
		case "meta":
			if s.Description == "" && strings.EqualFold(attr(n, "name"), "description") {
				s.Description = strings.TrimSpace(attr(n, "content"))
			}
		case "h1", "h2", "h3", "h4", "h5", "h6":
			s.Headings++
		case "a":
			if attr(n, "href") != "" {
				s.Links++
			}
		case "form":
			s.Forms++
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, s)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}
