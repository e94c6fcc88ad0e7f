package xpath

import (
	"bytes"
	"math"
	"strconv"
)

// ValueType is the closed four-member type tag of an XPath Value.
type ValueType int

const (
	Number ValueType = iota
	Boolean
	String
	NodeSet
)

func (t ValueType) String() string {
	switch t {
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	case String:
		return "string"
	case NodeSet:
		return "node-set"
	default:
		return "unknown"
	}
}

// Value is XPath 1.0's four-valued result type, held as a plain struct
// rather than an interface-per-kind: it is small, freely copyable, and
// comparisons/coercions are exhaustive switches over a single tag, matching
// the tagged union in the C++ original this was ported from more closely
// than an interface hierarchy would.
type Value struct {
	typ     ValueType
	num     float64
	str     string
	boolean bool
	nodes   []Node
}

func NewNumberValue(n float64) Value  { return Value{typ: Number, num: n} }
func NewBooleanValue(b bool) Value    { return Value{typ: Boolean, boolean: b} }
func NewStringValue(s string) Value   { return Value{typ: String, str: s} }
func NewNodeSetValue(ns []Node) Value { return Value{typ: NodeSet, nodes: ns} }
func NewNodeValue(n Node) Value       { return Value{typ: NodeSet, nodes: []Node{n}} }

func nan() float64              { return math.NaN() }
func isNaNFloat(f float64) bool { return math.IsNaN(f) }

// GetType returns the Value's type tag.
func (v Value) GetType() ValueType { return v.typ }

// IsValue reports whether v is a primitive, or a node-set containing
// exactly one node that is itself a value (spec §4.B).
func (v Value) IsValue() bool {
	switch v.typ {
	case NodeSet:
		return len(v.nodes) == 1 && v.nodes[0].IsValue()
	default:
		return true
	}
}

// GetNumber coerces v to a number.
func (v Value) GetNumber() float64 {
	switch v.typ {
	case Number:
		return v.num
	case Boolean:
		if v.boolean {
			return 1
		}
		return 0
	case String:
		if v.str == "" {
			return nan()
		}
		f, err := strconv.ParseFloat(v.str, 64)
		if err != nil {
			return nan()
		}
		return f
	case NodeSet:
		s := v.GetString()
		if s == "" {
			return nan()
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nan()
		}
		return f
	default:
		return nan()
	}
}

// GetBoolean coerces v to a boolean.
func (v Value) GetBoolean() bool {
	switch v.typ {
	case Number:
		return v.num != 0 && !isNaNFloat(v.num)
	case Boolean:
		return v.boolean
	case String:
		return v.str != ""
	case NodeSet:
		return len(v.nodes) > 0
	default:
		return false
	}
}

// GetString renders v as text. For a node-set this is the string-value of
// the first node (or "" if empty) — not the concatenation of every node;
// use GetStringValue for that.
func (v Value) GetString() string {
	switch v.typ {
	case Number:
		return numberToString(v.num)
	case Boolean:
		if v.boolean {
			return "true"
		}
		return "false"
	case String:
		return v.str
	case NodeSet:
		if len(v.nodes) == 0 {
			return ""
		}
		return v.nodes[0].GetString()
	default:
		return ""
	}
}

// GetStringValue renders v as text, concatenating the string-value of
// every node for a node-set rather than only the first.
func (v Value) GetStringValue() string {
	if v.typ != NodeSet {
		return v.GetString()
	}
	var buf bytes.Buffer
	for _, n := range v.nodes {
		buf.WriteString(n.GetString())
	}
	return buf.String()
}

func numberToString(f float64) string {
	switch {
	case isNaNFloat(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	case f == math.Trunc(f) && math.Abs(f) < 1e15:
		return strconv.FormatInt(int64(f), 10)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

// GetNode returns the node at pos (0-based) within a node-set Value.
func (v Value) GetNode(pos int) (Node, bool) {
	if v.typ != NodeSet || pos < 0 || pos >= len(v.nodes) {
		return Node{}, false
	}
	return v.nodes[pos], true
}

// GetNodeSet returns the underlying node slice; empty for a non-node-set.
func (v Value) GetNodeSet() []Node {
	if v.typ != NodeSet {
		return nil
	}
	return v.nodes
}

// GetNodeSetSize returns len(nodes) as a Value, erroring for a non-node-set.
func (v Value) GetNodeSetSize() (Value, error) {
	if v.typ != NodeSet {
		return Value{}, newError(TypeError, "count() requires a node-set, got %s", v.typ)
	}
	return NewNumberValue(float64(len(v.nodes))), nil
}

// GetLocalName returns the local name of the first node in a node-set
// Value, or "" if empty; errors for a non-node-set.
func (v Value) GetLocalName() (Value, error) {
	if v.typ != NodeSet {
		return Value{}, newError(TypeError, "local-name() requires a node-set, got %s", v.typ)
	}
	if len(v.nodes) == 0 {
		return NewStringValue(""), nil
	}
	return NewStringValue(v.nodes[0].GetLocalName()), nil
}

// GetRoot returns the document root of the first node in a node-set Value.
func (v Value) GetRoot() (Value, error) {
	if v.typ != NodeSet || len(v.nodes) == 0 {
		return Value{}, newError(MissingError, "root() requires a non-empty node-set")
	}
	return NewNodeValue(v.nodes[0].GetRoot()), nil
}

// NodeSetUnion implements the `|` operator: the identity-deduplicated union
// of two node-sets (the "newer generation" semantics — see DESIGN.md).
func (v Value) NodeSetUnion(other Value) (Value, error) {
	if v.typ != NodeSet || other.typ != NodeSet {
		return Value{}, newError(TypeError, "union requires two node-sets")
	}
	seen := make(map[nodeID]bool, len(v.nodes)+len(other.nodes))
	var out []Node
	add := func(n Node) {
		if !seen[n.id] {
			seen[n.id] = true
			out = append(out, n)
		}
	}
	for _, n := range v.nodes {
		add(n)
	}
	for _, n := range other.nodes {
		add(n)
	}
	return NewNodeSetValue(out), nil
}

// Equal implements XPath 1.0 `=` comparison semantics.
func (v Value) Equal(other Value) bool {
	switch {
	case v.typ == NodeSet && other.typ == NodeSet:
		for _, a := range v.nodes {
			for _, b := range other.nodes {
				if a.GetString() == b.GetString() {
					return true
				}
			}
		}
		return false
	case v.typ == NodeSet:
		return nodeSetScalarEqual(v.nodes, other)
	case other.typ == NodeSet:
		return nodeSetScalarEqual(other.nodes, v)
	case v.typ == Boolean || other.typ == Boolean:
		return v.GetBoolean() == other.GetBoolean()
	case v.typ == Number || other.typ == Number:
		return v.GetNumber() == other.GetNumber()
	default:
		return v.GetString() == other.GetString()
	}
}

func nodeSetScalarEqual(ns []Node, scalar Value) bool {
	switch scalar.typ {
	case Number:
		for _, n := range ns {
			if n.GetNumber() == scalar.num {
				return true
			}
		}
	case Boolean:
		return (len(ns) > 0) == scalar.boolean
	default:
		s := scalar.GetString()
		for _, n := range ns {
			if n.GetString() == s {
				return true
			}
		}
	}
	return false
}

// NotEqual implements XPath 1.0 `!=` comparison semantics.
func (v Value) NotEqual(other Value) bool { return !v.Equal(other) }

// Less, LessOrEqual, Greater, GreaterOrEqual implement the relational
// operators. Both operands must be values (spec §4.B / Env.hh): a
// multi-node node-set on either side is a TypeError, matching
// checkOrderingRelationArgs in the C++ original.
func (v Value) Less(other Value) (bool, error) {
	if err := checkOrderingArgs(v, other); err != nil {
		return false, err
	}
	return v.GetNumber() < other.GetNumber(), nil
}

func (v Value) LessOrEqual(other Value) (bool, error) {
	if err := checkOrderingArgs(v, other); err != nil {
		return false, err
	}
	return v.GetNumber() <= other.GetNumber(), nil
}

func (v Value) Greater(other Value) (bool, error) {
	if err := checkOrderingArgs(v, other); err != nil {
		return false, err
	}
	return v.GetNumber() > other.GetNumber(), nil
}

func (v Value) GreaterOrEqual(other Value) (bool, error) {
	if err := checkOrderingArgs(v, other); err != nil {
		return false, err
	}
	return v.GetNumber() >= other.GetNumber(), nil
}

func checkOrderingArgs(a, b Value) error {
	if !a.IsValue() || !b.IsValue() {
		return newError(TypeError, "relational operators require single-valued operands")
	}
	return nil
}

// String implements fmt.Stringer, rendering v the way the CLI prints an
// evaluation result.
func (v Value) String() string {
	switch v.typ {
	case Number:
		return numberToString(v.num)
	case Boolean:
		if v.boolean {
			return "true"
		}
		return "false"
	case String:
		return "\"" + v.str + "\""
	case NodeSet:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, n := range v.nodes {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(nodeJSONString(n))
		}
		buf.WriteByte(']')
		return buf.String()
	default:
		return "unknown"
	}
}
