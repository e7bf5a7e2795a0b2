package trias

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// Node is a namespace-resolved XML element
type Node struct {
	Name     xml.Name
	Text     string
	Children []*Node
}

// ParseDocument reads a whole XML document into a Node tree and returns its root element
func ParseDocument(body []byte) (*Node, error) {
	d := xml.NewDecoder(bytes.NewReader(body))
	d.CharsetReader = charset.NewReaderLabel

	var root *Node
	var stack []*Node

	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		switch ty := tok.(type) {
		case xml.StartElement:
			node := &Node{Name: ty.Name}

			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("multiple root elements")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}

			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(ty)
			}
		}
	}

	if root == nil {
		return nil, errors.New("empty document")
	}

	return root, nil
}

type pathStep struct {
	name       xml.Name
	descendant bool
}

// Path is a compiled relative element path such as ".//Service/Mode/PtMode". Steps separated
// by "/" match children, "//" matches descendants at any depth. Unprefixed names are in the
// TRIAS namespace; "siri:" or "{namespace}" select another one.
type Path struct {
	source string
	steps  []pathStep
}

var namespacePrefixes = map[string]string{
	"":     NamespaceTrias,
	"siri": NamespaceSiri,
}

func CompilePath(path string) (Path, error) {
	compiled := Path{source: path}

	remaining := strings.TrimPrefix(path, ".")
	if !strings.HasPrefix(remaining, "/") {
		remaining = "/" + remaining
	}

	for remaining != "" {
		step := pathStep{}

		if strings.HasPrefix(remaining, "//") {
			step.descendant = true
			remaining = remaining[2:]
		} else if strings.HasPrefix(remaining, "/") {
			remaining = remaining[1:]
		} else {
			return Path{}, fmt.Errorf("malformed path %q", path)
		}

		var token string
		if strings.HasPrefix(remaining, "{") {
			end := strings.Index(remaining, "}")
			if end < 0 {
				return Path{}, fmt.Errorf("unterminated namespace in path %q", path)
			}
			step.name.Space = remaining[1:end]
			remaining = remaining[end+1:]

			token, remaining = cutStep(remaining)
			step.name.Local = token
		} else {
			token, remaining = cutStep(remaining)

			prefix, local, found := strings.Cut(token, ":")
			if !found {
				prefix, local = "", token
			}

			namespace, ok := namespacePrefixes[prefix]
			if !ok {
				return Path{}, fmt.Errorf("unknown namespace prefix %q in path %q", prefix, path)
			}
			step.name = xml.Name{Space: namespace, Local: local}
		}

		if step.name.Local == "" {
			return Path{}, fmt.Errorf("empty step in path %q", path)
		}

		compiled.steps = append(compiled.steps, step)
	}

	return compiled, nil
}

func MustCompilePath(path string) Path {
	compiled, err := CompilePath(path)
	if err != nil {
		panic(err)
	}

	return compiled
}

func cutStep(s string) (string, string) {
	if i := strings.Index(s, "/"); i >= 0 {
		return s[:i], s[i:]
	}

	return s, ""
}

func (p Path) String() string {
	return p.source
}

// FindAll returns every element matching the path, in document order
func (n *Node) FindAll(p Path) []*Node {
	current := []*Node{n}

	for _, step := range p.steps {
		var next []*Node
		seen := map[*Node]bool{}

		collect := func(candidate *Node) {
			if candidate.Name == step.name && !seen[candidate] {
				seen[candidate] = true
				next = append(next, candidate)
			}
		}

		for _, node := range current {
			if step.descendant {
				node.walk(collect)
			} else {
				for _, child := range node.Children {
					collect(child)
				}
			}
		}

		if len(next) == 0 {
			return nil
		}

		current = next
	}

	return current
}

// Find returns the first element matching the path or nil
func (n *Node) Find(p Path) *Node {
	matches := n.FindAll(p)
	if len(matches) == 0 {
		return nil
	}

	return matches[0]
}

func (n *Node) walk(visit func(*Node)) {
	for _, child := range n.Children {
		visit(child)
		child.walk(visit)
	}
}

// ExtractString returns the trimmed text of the matched element, or nil when it is missing
func ExtractString(n *Node, p Path) *string {
	if n == nil {
		return nil
	}

	match := n.Find(p)
	if match == nil {
		return nil
	}

	text := strings.TrimSpace(match.Text)

	return &text
}

func ExtractStringDefault(n *Node, p Path, def string) string {
	if text := ExtractString(n, p); text != nil {
		return *text
	}

	return def
}

// ExtractInt returns the matched element as an integer, or def when it is missing
func ExtractInt(n *Node, p Path, def int) (int, error) {
	text := ExtractString(n, p)
	if text == nil {
		return def, nil
	}

	value, err := strconv.Atoi(*text)
	if err != nil {
		return def, fmt.Errorf("%s: %w", p, err)
	}

	return value, nil
}

// ExtractBool returns the matched element as an xs:boolean, or def when it is missing
func ExtractBool(n *Node, p Path, def bool) (bool, error) {
	text := ExtractString(n, p)
	if text == nil {
		return def, nil
	}

	switch *text {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return def, fmt.Errorf("%s: invalid boolean %q", p, *text)
	}
}
