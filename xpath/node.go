package xpath

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
)

// nodeKind distinguishes the three node shapes a JSON document projects
// into, matching the original_source class hierarchy ObjectNode/ArrayNode/
// LeafNode without needing virtual dispatch: a closed tag is enough.
type nodeKind int

const (
	kindObject nodeKind = iota
	kindArrayChild
	kindLeaf
)

type nodeID int

const noParent nodeID = -1

type nodeRecord struct {
	kind          nodeKind
	name          string
	raw           interface{}
	parent        nodeID
	children      []nodeID
	childrenBuilt bool
}

// Document owns every Node produced from one JSON source. Nodes are arena
// indices into the Document rather than a pointer graph with parent
// back-references, so a Node value is just {doc, id}: cheap to copy, safe
// to compare for identity, and immune to the aliasing hazards a manual
// pointer graph invites.
type Document struct {
	arena []nodeRecord
}

// NewDocument decodes r as JSON and projects it into a Document, preserving
// the insertion order of every JSON object encountered. encoding/json's
// ordinary Unmarshal into map[string]interface{} loses this order (Go map
// iteration is randomized by design), so decoding goes through decodeOrdered
// instead, which walks the token stream directly.
func NewDocument(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	raw, err := decodeOrdered(dec)
	if err != nil {
		return nil, wrapError(ParseError, err, "decoding JSON document")
	}
	doc := &Document{}
	doc.arena = append(doc.arena, nodeRecord{kind: rootKind(raw), name: "", raw: raw, parent: noParent})
	return doc, nil
}

// NewDocumentFromBytes is a convenience wrapper around NewDocument.
func NewDocumentFromBytes(b []byte) (*Document, error) {
	return NewDocument(bytes.NewReader(b))
}

func rootKind(raw interface{}) nodeKind {
	switch raw.(type) {
	case *orderedObject, []interface{}:
		return kindObject
	default:
		return kindLeaf
	}
}

// Node is a lightweight handle into a Document's arena.
type Node struct {
	doc *Document
	id  nodeID
}

// GetRoot returns the document root reachable from n.
func (n Node) GetRoot() Node { return Node{doc: n.doc, id: 0} }

// GetParent returns n's parent, or the zero Node and false at the root.
func (n Node) GetParent() (Node, bool) {
	p := n.rec().parent
	if p == noParent {
		return Node{}, false
	}
	return Node{doc: n.doc, id: p}, true
}

func (n Node) rec() *nodeRecord { return &n.doc.arena[n.id] }

// GetLocalName returns the JSON object key this node was materialized
// under, or "" for the document root and for elements of a root-level array.
func (n Node) GetLocalName() string { return n.rec().name }

// IsArrayChild reports whether n was produced by flattening a JSON array
// value (spec §4.A's "array-child" node shape).
func (n Node) IsArrayChild() bool { return n.rec().kind == kindArrayChild }

// IsValue reports whether n represents a JSON primitive (number, string,
// bool, or null) rather than an object or array.
func (n Node) IsValue() bool {
	r := n.rec()
	switch r.kind {
	case kindLeaf:
		return true
	case kindArrayChild:
		return !isContainer(r.raw)
	default:
		return false
	}
}

func isContainer(raw interface{}) bool {
	switch raw.(type) {
	case *orderedObject, []interface{}:
		return true
	default:
		return false
	}
}

// GetNumber coerces n's own JSON value to a number per spec §4.A: numbers
// are themselves; non-empty strings are parsed (NaN on failure); booleans
// are 1/0; null is NaN; a composite (object or array) node is coerced by
// parsing its string-value, the same rule applied to its number-value.
func (n Node) GetNumber() float64 {
	if isContainer(n.rec().raw) {
		return scalarToNumber(n.GetString())
	}
	return scalarToNumber(n.rec().raw)
}

// GetBoolean coerces n's own JSON value to a boolean: a number is true
// unless it is zero or NaN; a string is true iff non-empty; a boolean is
// itself; null is false; an object or array is true.
func (n Node) GetBoolean() bool { return scalarToBoolean(n.rec().raw) }

// GetString renders n's own JSON value as text: a string is its raw
// content (unquoted); any other primitive is its compact JSON rendering;
// an object or array node recurses into GetString of every child, in
// document order, and concatenates — the XPath "string-value of an
// element is the concatenation of string-values of its descendant text
// nodes" rule, applied to a JSON element instead of an XML one.
func (n Node) GetString() string {
	r := n.rec()
	switch v := r.raw.(type) {
	case string:
		return v
	case nil, bool, float64:
		return scalarJSONString(v)
	default:
		var buf bytes.Buffer
		for _, c := range n.GetChildren() {
			buf.WriteString(c.GetString())
		}
		return buf.String()
	}
}

func scalarJSONString(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return "null"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return formatJSONNumber(v)
	default:
		return ""
	}
}

func formatJSONNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func scalarToNumber(raw interface{}) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case string:
		if v == "" {
			return nan()
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nan()
		}
		return f
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		return nan()
	}
}

func scalarToBoolean(raw interface{}) bool {
	switch v := raw.(type) {
	case float64:
		return v != 0 && !isNaNFloat(v)
	case string:
		return v != ""
	case bool:
		return v
	case nil:
		return false
	default:
		return true
	}
}

// GetChildren returns n's immediate children in document order,
// materializing them on first access.
func (n Node) GetChildren() []Node {
	n.ensureChildren()
	ids := n.rec().children
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = Node{doc: n.doc, id: id}
	}
	return out
}

// GetChild returns n's immediate children whose local name is name.
func (n Node) GetChild(name string) []Node {
	var out []Node
	for _, c := range n.GetChildren() {
		if c.GetLocalName() == name {
			out = append(out, c)
		}
	}
	return out
}

// GetSubtree returns every descendant of n (self excluded) in document
// order: the XPath "descendant" axis.
func (n Node) GetSubtree() []Node {
	var out []Node
	appendSubtree(n, &out)
	return out
}

func appendSubtree(n Node, out *[]Node) {
	for _, c := range n.GetChildren() {
		*out = append(*out, c)
		appendSubtree(c, out)
	}
}

// Search returns every descendant of n (self excluded) whose local name is
// name, in document order: the "//name" shorthand's node set.
func (n Node) Search(name string) []Node {
	var out []Node
	for _, c := range n.GetChildren() {
		if c.GetLocalName() == name {
			out = append(out, c)
		}
		out = append(out, c.Search(name)...)
	}
	return out
}

// GetAncestors returns n's ancestor chain, closest first.
func (n Node) GetAncestors() []Node {
	var out []Node
	cur := n
	for {
		p, ok := cur.GetParent()
		if !ok {
			return out
		}
		out = append(out, p)
		cur = p
	}
}

func (n Node) ensureChildren() {
	r := n.rec()
	if r.childrenBuilt {
		return
	}
	// newNode appends to the arena and may move it, so r goes stale once
	// the first child is created: children are gathered locally and stored
	// through a fresh lookup at the end.
	var children []nodeID
	switch r.kind {
	case kindObject:
		switch v := r.raw.(type) {
		case *orderedObject:
			for i, key := range v.keys {
				children = append(children, n.expand(key, v.vals[i])...)
			}
		case []interface{}:
			for _, el := range v {
				children = append(children, n.doc.newNode(kindArrayChild, "", el, n.id))
			}
		}
	case kindArrayChild:
		if obj, ok := r.raw.(*orderedObject); ok {
			for i, key := range obj.keys {
				children = append(children, n.expand(key, obj.vals[i])...)
			}
		}
		// A nested array (array element that is itself an array) is left
		// childless, matching ArrayNode::instantiateChildren only
		// recursing into object-shaped elements.
	case kindLeaf:
		// leaves never have children
	}
	r = n.rec()
	r.children = children
	r.childrenBuilt = true
}

func (n Node) expand(name string, val interface{}) []nodeID {
	switch v := val.(type) {
	case []interface{}:
		ids := make([]nodeID, 0, len(v))
		for _, el := range v {
			ids = append(ids, n.doc.newNode(kindArrayChild, name, el, n.id))
		}
		return ids
	case *orderedObject:
		return []nodeID{n.doc.newNode(kindObject, name, v, n.id)}
	default:
		return []nodeID{n.doc.newNode(kindLeaf, name, v, n.id)}
	}
}

func (d *Document) newNode(kind nodeKind, name string, raw interface{}, parent nodeID) nodeID {
	d.arena = append(d.arena, nodeRecord{kind: kind, name: name, raw: raw, parent: parent})
	return nodeID(len(d.arena) - 1)
}

// Root returns the Document's root Node.
func (d *Document) Root() Node { return Node{doc: d, id: 0} }

// nodeJSONString renders n's own JSON value, used for CLI/diagnostic
// output of a node-set Value (matching getJson().dump() in the original).
func nodeJSONString(n Node) string {
	b, err := json.Marshal(rawToPlain(n.rec().raw))
	if err != nil {
		return ""
	}
	return string(b)
}

// rawToPlain converts the order-preserving decode tree back into plain
// map[string]interface{}/[]interface{} values suitable for json.Marshal.
// Key order is not preserved in this direction; it is only used for
// one-off diagnostic rendering of a single node's value, not for
// re-serializing a whole document.
func rawToPlain(raw interface{}) interface{} {
	switch v := raw.(type) {
	case *orderedObject:
		m := make(map[string]interface{}, len(v.keys))
		for i, k := range v.keys {
			m[k] = rawToPlain(v.vals[i])
		}
		return m
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, el := range v {
			out[i] = rawToPlain(el)
		}
		return out
	default:
		return v
	}
}
