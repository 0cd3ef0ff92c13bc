package extract

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// VisibleText returns the rendered text of an HTML document: tags are
// dropped, entities are unescaped, and script/style/head content is skipped.
// Block-level boundaries become single spaces so adjacent cells do not fuse.
func VisibleText(doc string) string {
	z := html.NewTokenizer(strings.NewReader(doc))

	var sb strings.Builder
	skipDepth := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input; either way keep what we have.
			return strings.TrimSpace(sb.String())

		case html.StartTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if isHidden(a) {
				skipDepth++
			}
			if isBlock(a) {
				writeSeparator(&sb)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if isHidden(a) && skipDepth > 0 {
				skipDepth--
			}
			if isBlock(a) {
				writeSeparator(&sb)
			}

		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if isBlock(atom.Lookup(name)) {
				writeSeparator(&sb)
			}

		case html.TextToken:
			if skipDepth == 0 {
				sb.Write(z.Text())
			}
		}
	}
}

func isHidden(a atom.Atom) bool {
	switch a {
	case atom.Script, atom.Style, atom.Head, atom.Noscript, atom.Template:
		return true
	}
	return false
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.Br, atom.P, atom.Div, atom.Tr, atom.Td, atom.Th, atom.Li,
		atom.Table, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

func writeSeparator(sb *strings.Builder) {
	s := sb.String()
	if len(s) == 0 || strings.HasSuffix(s, " ") || strings.HasSuffix(s, "\n") {
		return
	}
	sb.WriteByte(' ')
}
