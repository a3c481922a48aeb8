package knowledge

import (
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Item is one entry in the knowledge collection that task instructions can
// link against.
type Item struct {
	ID          string
	Title       string
	ContentHTML string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ExtractLinks collects the distinct data-knowledge-id attribute values from
// an instruction HTML fragment, in document order. Malformed fragments yield
// whatever the tolerant parser can recover; there is no error path.
func ExtractLinks(fragment string) []string {
	if !strings.Contains(fragment, "data-knowledge-id") {
		return nil
	}
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]struct{})
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			for _, attr := range node.Attr {
				if attr.Key != "data-knowledge-id" {
					continue
				}
				id := strings.TrimSpace(attr.Val)
				if id == "" {
					continue
				}
				if _, ok := seen[id]; ok {
					continue
				}
				seen[id] = struct{}{}
				links = append(links, id)
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return links
}
