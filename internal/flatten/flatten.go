package flatten

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"loom/internal/archive"
)

// PlaceholderMap maps a placeholder token (image-<n>) to the archive asset key
// it stands in for. Tokens are assigned in document order starting at 1.
type PlaceholderMap map[string]string

// Flatten walks a markup document depth-first and produces line-oriented
// plain text. Embedded images that match an asset are replaced in place by
// [IMAGE:image-<n>] tokens; unmatched images are dropped without a token.
func Flatten(markup string, assets map[string]archive.Asset) (string, PlaceholderMap, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return "", nil, fmt.Errorf("parse document: %w", err)
	}

	f := &flattener{
		assets:       assets,
		placeholders: make(PlaceholderMap),
	}
	for key := range assets {
		f.assetKeys = append(f.assetKeys, key)
	}
	sort.Strings(f.assetKeys)

	f.walk(doc)
	f.flushPending()

	return f.render(), f.placeholders, nil
}

type flattener struct {
	assets       map[string]archive.Asset
	assetKeys    []string
	placeholders PlaceholderMap
	nextToken    int

	lines   []string
	pending []string
}

func (f *flattener) walk(node *html.Node) {
	switch node.Type {
	case html.TextNode:
		if text := joinSpace(node.Data); text != "" {
			f.pending = append(f.pending, text)
		}
		return
	case html.ElementNode:
		switch node.Data {
		case "script", "style", "head", "noscript", "template":
			return
		case "br":
			f.flushPending()
			return
		case "img":
			f.visitImage(node)
			return
		case "h1", "h2", "h3", "h4", "h5", "h6", "p":
			f.flushPending()
			f.blankLine()
			f.walkChildren(node)
			f.flushPending()
			f.blankLine()
			return
		case "li":
			f.flushPending()
			f.walkChildren(node)
			if len(f.pending) > 0 {
				f.lines = append(f.lines, "- "+strings.Join(f.pending, " "))
				f.pending = nil
			}
			return
		}
	}
	f.walkChildren(node)
}

func (f *flattener) walkChildren(node *html.Node) {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		f.walk(child)
	}
}

func (f *flattener) visitImage(node *html.Node) {
	src := attrValue(node, "src")
	key, ok := f.matchAsset(src)
	if !ok {
		return
	}
	f.nextToken++
	token := fmt.Sprintf("image-%d", f.nextToken)
	f.placeholders[token] = key
	f.pending = append(f.pending, "[IMAGE:"+token+"]")
}

// matchAsset tries an exact normalized path first, then falls back to a
// filename match against the sorted asset keys.
func (f *flattener) matchAsset(src string) (string, bool) {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" || strings.HasPrefix(trimmed, "data:") {
		return "", false
	}
	key := path.Clean(strings.ReplaceAll(trimmed, "\\", "/"))
	key = strings.TrimPrefix(key, "./")
	if _, ok := f.assets[key]; ok {
		return key, true
	}
	base := path.Base(key)
	for _, candidate := range f.assetKeys {
		if path.Base(candidate) == base {
			return candidate, true
		}
	}
	return "", false
}

func (f *flattener) flushPending() {
	if len(f.pending) == 0 {
		return
	}
	f.lines = append(f.lines, strings.Join(f.pending, " "))
	f.pending = nil
}

func (f *flattener) blankLine() {
	if len(f.lines) > 0 && f.lines[len(f.lines)-1] != "" {
		f.lines = append(f.lines, "")
	}
}

func (f *flattener) render() string {
	return strings.Trim(strings.Join(f.lines, "\n"), "\n")
}

func joinSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func attrValue(node *html.Node, name string) string {
	for _, attr := range node.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}
