package converter

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	editorSvc "github.com/BitOnUranus/base64/internal/domain/services/editor"
	"github.com/BitOnUranus/base64/internal/service/editor/converter/sanitizer"
)

// maxDocumentXMLBytes bounds the decompressed main document part.
const maxDocumentXMLBytes = 64 << 20

var errNoDocumentPart = errors.New("word/document.xml not found in archive")

// docxConverter converts Word (.docx) documents to HTML.
//
// Only the main document part is read. Headings, paragraphs, bold, italic,
// underline, strike-through, line breaks, lists and tables are kept; images,
// comments and styles are dropped.
type docxConverter struct{}

// NewDocxConverter creates a new Word document converter.
func NewDocxConverter() editorSvc.ContentConverter {
	return &docxConverter{}
}

func (c *docxConverter) Convert(ctx context.Context, input []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	archive, err := zip.NewReader(bytes.NewReader(input), int64(len(input)))
	if err != nil {
		return "", fmt.Errorf("not a Word document: %w", err)
	}

	var docFile *zip.File
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errNoDocumentPart
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	root, err := parseDocumentXML(io.LimitReader(rc, maxDocumentXMLBytes))
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
		if err := html.Render(&out, n); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
	}

	return sanitizer.Sanitize(out.String()), nil
}

func (c *docxConverter) SupportedTypes() []string {
	return []string{"application/vnd.openxmlformats-officedocument.wordprocessingml.document"}
}

func (c *docxConverter) SupportedExtensions() []string {
	return []string{".docx"}
}

func (c *docxConverter) Binary() bool { return true }

func (c *docxConverter) Name() string {
	return "docx"
}

// runFormat is the character formatting of a text run.
type runFormat struct {
	bold, italic, underline, strike bool
}

type docxRun struct {
	text   string
	format runFormat
	brk    bool
}

type docxParagraph struct {
	style    string
	numbered bool
	runs     []docxRun
}

// paragraphState is the paragraph and run being read. Paragraphs nest
// when a run holds a text box (w:txbxContent).
type paragraphState struct {
	para   *docxParagraph
	inRun  bool
	inRPr  bool
	inText bool
	format runFormat
}

// documentBuilder accumulates WordprocessingML tokens into an HTML tree.
type documentBuilder struct {
	root       *html.Node
	containers []*html.Node // root, then table/tr/td while inside tables

	paragraphState
	outer []paragraphState // enclosing paragraphs of text boxes

	fallbackDepth int // inside mc:Fallback, which repeats mc:Choice
}

func parseDocumentXML(r io.Reader) (*html.Node, error) {
	root := &html.Node{Type: html.DocumentNode}
	b := &documentBuilder{root: root, containers: []*html.Node{root}}

	decoder := xml.NewDecoder(r)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "Fallback" {
				b.fallbackDepth++
			}
			if b.fallbackDepth == 0 {
				b.start(t)
			}
		case xml.EndElement:
			if b.fallbackDepth == 0 {
				b.end(t)
			}
			if t.Name.Local == "Fallback" && b.fallbackDepth > 0 {
				b.fallbackDepth--
			}
		case xml.CharData:
			if b.fallbackDepth == 0 && b.inText && b.para != nil {
				b.appendText(string(t))
			}
		}
	}
	return root, nil
}

func (b *documentBuilder) container() *html.Node {
	return b.containers[len(b.containers)-1]
}

func (b *documentBuilder) push(n *html.Node) {
	b.container().AppendChild(n)
	b.containers = append(b.containers, n)
}

func (b *documentBuilder) pop() {
	if len(b.containers) > 1 {
		b.containers = b.containers[:len(b.containers)-1]
	}
}

func (b *documentBuilder) start(t xml.StartElement) {
	switch t.Name.Local {
	case "p":
		if b.para != nil {
			b.outer = append(b.outer, b.paragraphState)
		}
		b.paragraphState = paragraphState{para: &docxParagraph{}}
	case "pStyle":
		if b.para != nil {
			b.para.style = attrValue(t, "val")
		}
	case "numPr":
		if b.para != nil {
			b.para.numbered = true
		}
	case "r":
		b.inRun = true
		b.format = runFormat{}
	case "rPr":
		b.inRPr = b.inRun
	case "b":
		if b.inRPr {
			b.format.bold = toggleOn(t)
		}
	case "i":
		if b.inRPr {
			b.format.italic = toggleOn(t)
		}
	case "u":
		if b.inRPr {
			v := attrValue(t, "val")
			b.format.underline = v != "none" && toggleOn(t)
		}
	case "strike", "dstrike":
		if b.inRPr {
			b.format.strike = toggleOn(t)
		}
	case "t":
		b.inText = b.inRun
	case "tab":
		if b.inRun && b.para != nil {
			b.appendText("\t")
		}
	case "br", "cr":
		if b.inRun && b.para != nil {
			b.para.runs = append(b.para.runs, docxRun{brk: true})
		}
	case "tbl":
		b.closeParagraph()
		b.push(element(atom.Table))
	case "tr":
		b.push(element(atom.Tr))
	case "tc":
		b.push(element(atom.Td))
	}
}

func (b *documentBuilder) end(t xml.EndElement) {
	switch t.Name.Local {
	case "p":
		b.closeParagraph()
		if n := len(b.outer); n > 0 {
			b.paragraphState = b.outer[n-1]
			b.outer = b.outer[:n-1]
		}
	case "r":
		b.inRun = false
	case "rPr":
		b.inRPr = false
	case "t":
		b.inText = false
	case "tbl", "tr", "tc":
		b.pop()
	}
}

func (b *documentBuilder) appendText(text string) {
	runs := b.para.runs
	if n := len(runs); n > 0 && !runs[n-1].brk && runs[n-1].format == b.format {
		runs[n-1].text += text
		return
	}
	b.para.runs = append(runs, docxRun{text: text, format: b.format})
}

func (b *documentBuilder) closeParagraph() {
	p := b.para
	b.para = nil
	if p == nil || !hasText(p.runs) {
		return
	}

	if level := docxHeadingLevel(p.style); level > 0 {
		h := element(headingAtoms[level-1])
		appendRuns(h, p.runs)
		b.container().AppendChild(h)
		return
	}

	if kind, ok := listKind(p); ok {
		parent := b.container()
		list := parent.LastChild
		if list == nil || list.Type != html.ElementNode || list.DataAtom != kind {
			list = element(kind)
			parent.AppendChild(list)
		}
		li := element(atom.Li)
		appendRuns(li, p.runs)
		list.AppendChild(li)
		return
	}

	para := element(atom.P)
	appendRuns(para, p.runs)
	b.container().AppendChild(para)
}

var headingAtoms = [...]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

// listKind reports whether a paragraph is a list item and which list it
// belongs to. Numbering definitions are not resolved; the style name decides
// between ordered and bulleted lists.
func listKind(p *docxParagraph) (atom.Atom, bool) {
	style := strings.ToLower(p.style)
	switch {
	case strings.HasPrefix(style, "listnumber"):
		return atom.Ol, true
	case strings.HasPrefix(style, "listbullet"), p.numbered:
		return atom.Ul, true
	}
	return 0, false
}

// docxHeadingLevel extracts the heading level from a paragraph style name.
// e.g. "Heading1" -> 1, "Title" -> 1, "Subtitle" -> 2.
func docxHeadingLevel(style string) int {
	lower := strings.ToLower(style)

	switch lower {
	case "title":
		return 1
	case "subtitle":
		return 2
	}

	for _, prefix := range []string{"heading", "titre", "überschrift"} {
		if strings.HasPrefix(lower, prefix) {
			rest := lower[len(prefix):]
			if len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
				return int(rest[0] - '0')
			}
		}
	}
	return 0
}

func appendRuns(parent *html.Node, runs []docxRun) {
	for _, run := range runs {
		if run.brk {
			parent.AppendChild(element(atom.Br))
			continue
		}

		node := &html.Node{Type: html.TextNode, Data: run.text}
		for _, wrap := range []struct {
			on bool
			a  atom.Atom
		}{
			{run.format.strike, atom.S},
			{run.format.underline, atom.U},
			{run.format.italic, atom.Em},
			{run.format.bold, atom.Strong},
		} {
			if wrap.on {
				outer := element(wrap.a)
				outer.AppendChild(node)
				node = outer
			}
		}
		parent.AppendChild(node)
	}
}

func hasText(runs []docxRun) bool {
	for _, r := range runs {
		if strings.TrimSpace(r.text) != "" {
			return true
		}
	}
	return false
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func attrValue(t xml.StartElement, local string) string {
	for _, attr := range t.Attr {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}

// toggleOn reads an OOXML on/off property: absent val means on.
func toggleOn(t xml.StartElement) bool {
	switch strings.ToLower(attrValue(t, "val")) {
	case "0", "false", "off":
		return false
	}
	return true
}
