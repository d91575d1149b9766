package client

import (
	"context"
	"html"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tshtml "github.com/smacker/go-tree-sitter/html"
)

// blockTags end the current transcript line when they open or close.
var blockTags = map[string]bool{
	"address": true, "article": true, "blockquote": true, "br": true,
	"dd": true, "div": true, "dl": true, "dt": true, "footer": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "ol": true, "p": true,
	"pre": true, "section": true, "table": true, "tr": true, "ul": true,
}

// Fragment turns an HTML fragment sent by the server into transcript lines.
// Block elements start new lines, whitespace inside a line collapses to single
// spaces, entities are decoded, and script, style and comments are dropped.
func Fragment(src string) []string {
	if strings.TrimSpace(src) == "" {
		return nil
	}
	source := []byte(src)
	parser := sitter.NewParser()
	parser.SetLanguage(tshtml.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		return plainLines(src)
	}
	f := &flattener{source: source}
	f.walk(tree.RootNode())
	f.flush()
	return f.lines
}

type flattener struct {
	source []byte
	words  []string
	lines  []string
}

func (f *flattener) walk(n *sitter.Node) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "text", "entity":
		f.words = append(f.words, strings.Fields(html.UnescapeString(n.Content(f.source)))...)
		return
	case "script_element", "style_element", "comment", "doctype",
		"start_tag", "end_tag", "self_closing_tag", "erroneous_end_tag":
		return
	case "element":
		block := blockTags[tagName(n, f.source)]
		if block {
			f.flush()
		}
		f.walkChildren(n)
		if block {
			f.flush()
		}
		return
	}
	f.walkChildren(n)
}

func (f *flattener) walkChildren(n *sitter.Node) {
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		f.walk(n.NamedChild(i))
	}
}

func (f *flattener) flush() {
	if len(f.words) == 0 {
		return
	}
	f.lines = append(f.lines, strings.Join(f.words, " "))
	f.words = f.words[:0]
}

// tagName returns the lower-cased tag of an element node.
func tagName(n *sitter.Node, source []byte) string {
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		if child.Type() != "start_tag" && child.Type() != "self_closing_tag" {
			continue
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			if name := child.NamedChild(j); name != nil && name.Type() == "tag_name" {
				return strings.ToLower(name.Content(source))
			}
		}
	}
	return ""
}

func plainLines(src string) []string {
	var out []string
	for _, line := range strings.Split(src, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
