package diagram

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/ziadkadry99/bpmnav/internal/errs"
)

// Attributes the BPMN renderer puts on its SVG output.
const (
	AttrElementID    = "data-element-id"
	AttrMarker       = "data-marker"
	MarkerSubProcess = "sub-process"
)

// Shape is one sub-process-clickable element of a rendered diagram.
type Shape struct {
	// ID is the element's own data-element-id, or the nearest ancestor's
	// when the element has none. Empty when no ancestor carries one.
	ID string `json:"id"`
	// Tag is the local element name ("path", "rect", ...).
	Tag string `json:"tag"`
	// Marker reports whether the element is the sub-process marker itself
	// rather than a rect inside the marker's group.
	Marker bool `json:"marker"`
	// Ordinal is the element's position in document order, unique per scan.
	Ordinal int `json:"ordinal"`
}

type node struct {
	tag      string
	attrs    map[string]string
	parent   *node
	children []*node
	ordinal  int
}

func (n *node) attr(name string) string { return n.attrs[name] }

func (n *node) isFirstChild() bool {
	return n.parent == nil || len(n.parent.children) == 0 || n.parent.children[0] == n
}

// closestID walks from n up to the root and returns the first
// data-element-id found.
func (n *node) closestID() string {
	for cur := n; cur != nil; cur = cur.parent {
		if id := cur.attr(AttrElementID); id != "" {
			return id
		}
	}
	return ""
}

func parseTree(content string) (*node, error) {
	dec := xml.NewDecoder(strings.NewReader(content))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	root := &node{tag: "#document", attrs: map[string]string{}}
	cur := root
	ordinal := 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{tag: t.Name.Local, attrs: make(map[string]string, len(t.Attr)), parent: cur, ordinal: ordinal}
			ordinal++
			for _, a := range t.Attr {
				n.attrs[qualified(a.Name)] = a.Value
			}
			cur.children = append(cur.children, n)
			cur = n
		case xml.EndElement:
			if cur.parent != nil {
				cur = cur.parent
			}
		}
	}
	if len(root.children) == 0 {
		return nil, errors.New("no elements")
	}
	return root, nil
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	// Go's decoder resolves known prefixes to namespace URLs; keep the
	// conventional prefix for xlink so lookups stay simple.
	if n.Space == "http://www.w3.org/1999/xlink" || n.Space == "xlink" {
		return "xlink:" + n.Local
	}
	return n.Space + ":" + n.Local
}

func walk(n *node, fn func(*node)) {
	fn(n)
	for _, c := range n.children {
		walk(c, fn)
	}
}

// ScanShapes finds every sub-process-clickable element in an SVG document:
// each element marked data-marker="sub-process", then every rect below the
// marker's parent group that is not the first child of its own parent
// (the first rect is the shape's outline hit area). Shapes come back marker
// set first, then rects, each in document order, without duplicates.
func ScanShapes(content string) ([]Shape, error) {
	root, err := parseTree(content)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeRenderFailure, err, "parsing diagram markup")
	}

	var markers []*node
	walk(root, func(n *node) {
		if n.attr(AttrMarker) == MarkerSubProcess {
			markers = append(markers, n)
		}
	})

	seen := make(map[*node]bool)
	shapes := make([]Shape, 0, len(markers))
	for _, m := range markers {
		seen[m] = true
		shapes = append(shapes, Shape{ID: m.closestID(), Tag: m.tag, Marker: true, Ordinal: m.ordinal})
	}
	for _, m := range markers {
		if m.parent == nil {
			continue
		}
		for _, c := range m.parent.children {
			walk(c, func(n *node) {
				if n.tag != "rect" || n.isFirstChild() || seen[n] {
					return
				}
				seen[n] = true
				shapes = append(shapes, Shape{ID: n.closestID(), Tag: n.tag, Ordinal: n.ordinal})
			})
		}
	}
	return shapes, nil
}

// ShapeIDs returns the distinct identifiers of shapes in first-seen order.
func ShapeIDs(shapes []Shape) []string {
	seen := make(map[string]bool, len(shapes))
	ids := make([]string, 0, len(shapes))
	for _, s := range shapes {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		ids = append(ids, s.ID)
	}
	return ids
}

// CheckSelfContained rejects markup that would need the network or the
// file system to display: href targets other than fragments and data URIs,
// and url() references to http(s) or file resources.
func CheckSelfContained(content string) error {
	root, err := parseTree(content)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidContent, err, "parsing diagram markup")
	}

	var bad string
	walk(root, func(n *node) {
		if bad != "" {
			return
		}
		for _, key := range []string{"href", "xlink:href"} {
			v := strings.TrimSpace(n.attr(key))
			if v == "" || strings.HasPrefix(v, "#") || strings.HasPrefix(v, "data:") {
				continue
			}
			bad = v
			return
		}
		if style := strings.ToLower(n.attr("style")); strings.Contains(style, "url(") {
			for _, scheme := range []string{"url(http", "url('http", `url("http`, "url(file", "url('file", `url("file`} {
				if strings.Contains(style, scheme) {
					bad = n.attr("style")
					return
				}
			}
		}
	})
	if bad != "" {
		return errs.New(errs.ErrCodeInvalidContent, "diagram references external resource %q", bad)
	}
	return nil
}
