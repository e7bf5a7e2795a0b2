package datalog

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"
)

// The decoder converts the body to UTF-8, so the declaration has to say so
var declaredEncoding = regexp.MustCompile(`encoding\s*=\s*("[^"]*"|'[^']*')`)

type prettyNode struct {
	start    xml.StartElement
	text     string
	children []*prettyNode
}

// PrettyPrint re-indents an XML document. Element and attribute prefixes are kept as written.
func PrettyPrint(body []byte) ([]byte, error) {
	d := xml.NewDecoder(bytes.NewReader(body))
	d.CharsetReader = charset.NewReaderLabel

	var prolog []xml.Token
	var root *prettyNode
	var stack []*prettyNode

	for {
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		switch ty := tok.(type) {
		case xml.StartElement:
			node := &prettyNode{start: ty.Copy()}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("multiple root elements")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) == 0 || rawName(stack[len(stack)-1].start.Name) != rawName(ty.Name) {
				return nil, errors.New("mismatched end element " + rawName(ty.Name))
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(ty)
			}
		case xml.ProcInst:
			if root == nil {
				prolog = append(prolog, ty.Copy())
			}
		}
	}

	if root == nil || len(stack) != 0 {
		return nil, errors.New("incomplete document")
	}

	var b bytes.Buffer
	for _, tok := range prolog {
		procInst := tok.(xml.ProcInst)
		inst := string(procInst.Inst)
		if procInst.Target == "xml" {
			inst = declaredEncoding.ReplaceAllString(inst, `encoding="UTF-8"`)
		}
		b.WriteString("<?" + procInst.Target + " " + inst + "?>\n")
	}

	writePrettyNode(&b, root, 0)

	return b.Bytes(), nil
}

func rawName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}

	return name.Space + ":" + name.Local
}

func writePrettyNode(b *bytes.Buffer, node *prettyNode, depth int) {
	indent := strings.Repeat("  ", depth)
	name := rawName(node.start.Name)

	b.WriteString(indent + "<" + name)
	for _, attr := range node.start.Attr {
		b.WriteString(" " + rawName(attr.Name) + "=\"")
		xml.EscapeText(b, []byte(attr.Value))
		b.WriteString("\"")
	}

	text := strings.TrimSpace(node.text)

	switch {
	case len(node.children) == 0 && text == "":
		b.WriteString("/>\n")
	case len(node.children) == 0:
		b.WriteString(">")
		xml.EscapeText(b, []byte(text))
		b.WriteString("</" + name + ">\n")
	default:
		b.WriteString(">\n")
		if text != "" {
			b.WriteString(indent + "  ")
			xml.EscapeText(b, []byte(text))
			b.WriteString("\n")
		}
		for _, child := range node.children {
			writePrettyNode(b, child, depth+1)
		}
		b.WriteString(indent + "</" + name + ">\n")
	}
}
