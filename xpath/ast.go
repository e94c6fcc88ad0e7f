package xpath

import "fmt"

// evalState carries the pieces an Expr needs beyond the variable/root
// bindings already in Env: the position and size of the node list the
// current node was drawn from (for position()/last()) and whether this is
// the first step of a path. The flag is passed down to the axis functions,
// none of which treats the first step differently.
type evalState struct {
	env       *Env
	pos       int
	size      int
	firstStep bool
}

func topState(env *Env) *evalState {
	return &evalState{env: env, pos: 1, size: 1, firstStep: true}
}

func (s *evalState) withNode(n Node, pos, size int) *evalState {
	return &evalState{env: s.env.WithCurrent(NewNodeValue(n)), pos: pos, size: size, firstStep: false}
}

// Expr is the single interface every AST node implements: a self-contained,
// recursively evaluable expression (spec §4.D/§4.F — one polymorphic
// dispatch, no visitor, no separate compile step beyond parsing).
type Expr interface {
	Eval(s *evalState) (Value, error)
	String() string
}

// --- Literal, Number, VarRef ---

type literalExpr struct{ value string }

func (e *literalExpr) Eval(*evalState) (Value, error) { return NewStringValue(e.value), nil }
func (e *literalExpr) String() string                 { return fmt.Sprintf("%q", e.value) }

type numberExpr struct{ value float64 }

func (e *numberExpr) Eval(*evalState) (Value, error) { return NewNumberValue(e.value), nil }
func (e *numberExpr) String() string                 { return numberToString(e.value) }

type varRefExpr struct{ name string }

func (e *varRefExpr) Eval(s *evalState) (Value, error) { return s.env.GetVariable(e.name) }
func (e *varRefExpr) String() string                   { return "$" + e.name }

// --- Unary minus ---

type unaryMinusExpr struct{ operand Expr }

func (e *unaryMinusExpr) Eval(s *evalState) (Value, error) {
	v, err := e.operand.Eval(s)
	if err != nil {
		return Value{}, err
	}
	return NewNumberValue(-v.GetNumber()), nil
}
func (e *unaryMinusExpr) String() string { return "-" + e.operand.String() }

// --- Binary operators ---

type binOp int

const (
	opOr binOp = iota
	opAnd
	opEq
	opNe
	opLt
	opGt
	opLe
	opGe
	opPlus
	opMinus
	opMul
	opDiv
	opMod
	opUnion
)

var binOpSymbol = map[binOp]string{
	opOr: "or", opAnd: "and", opEq: "=", opNe: "!=", opLt: "<", opGt: ">",
	opLe: "<=", opGe: ">=", opPlus: "+", opMinus: "-", opMul: "*", opDiv: "div",
	opMod: "mod", opUnion: "|",
}

type binaryExpr struct {
	op          binOp
	left, right Expr
}

func (e *binaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.left.String(), binOpSymbol[e.op], e.right.String())
}

func (e *binaryExpr) Eval(s *evalState) (Value, error) {
	switch e.op {
	case opOr:
		l, err := e.left.Eval(s)
		if err != nil {
			return Value{}, err
		}
		if l.GetBoolean() {
			return NewBooleanValue(true), nil
		}
		r, err := e.right.Eval(s)
		if err != nil {
			return Value{}, err
		}
		return NewBooleanValue(r.GetBoolean()), nil
	case opAnd:
		l, err := e.left.Eval(s)
		if err != nil {
			return Value{}, err
		}
		if !l.GetBoolean() {
			return NewBooleanValue(false), nil
		}
		r, err := e.right.Eval(s)
		if err != nil {
			return Value{}, err
		}
		return NewBooleanValue(r.GetBoolean()), nil
	}

	l, err := e.left.Eval(s)
	if err != nil {
		return Value{}, err
	}
	r, err := e.right.Eval(s)
	if err != nil {
		return Value{}, err
	}
	switch e.op {
	case opEq:
		return NewBooleanValue(l.Equal(r)), nil
	case opNe:
		return NewBooleanValue(l.NotEqual(r)), nil
	case opLt:
		ok, err := l.Less(r)
		return NewBooleanValue(ok), err
	case opGt:
		ok, err := l.Greater(r)
		return NewBooleanValue(ok), err
	case opLe:
		ok, err := l.LessOrEqual(r)
		return NewBooleanValue(ok), err
	case opGe:
		ok, err := l.GreaterOrEqual(r)
		return NewBooleanValue(ok), err
	case opPlus:
		return NewNumberValue(l.GetNumber() + r.GetNumber()), nil
	case opMinus:
		return NewNumberValue(l.GetNumber() - r.GetNumber()), nil
	case opMul:
		return NewNumberValue(l.GetNumber() * r.GetNumber()), nil
	case opDiv:
		return NewNumberValue(l.GetNumber() / r.GetNumber()), nil
	case opMod:
		// Truncating modulo, taking the dividend's sign: matches both
		// Go's native % and the C-style int64 % in the original source's
		// Mod::evalExpr. See DESIGN.md / SPEC_FULL.md §9(i).
		li, ri := int64(l.GetNumber()), int64(r.GetNumber())
		if ri == 0 {
			return NewNumberValue(nan()), nil
		}
		return NewNumberValue(float64(li % ri)), nil
	case opUnion:
		return l.NodeSetUnion(r)
	}
	return Value{}, newError(TypeError, "unsupported operator")
}

// --- Function calls ---

type functionCallExpr struct {
	name string
	args []Expr
	fn   *function
}

func (e *functionCallExpr) String() string {
	s := e.name + "("
	for i, a := range e.args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}

func (e *functionCallExpr) Eval(s *evalState) (Value, error) {
	if e.fn == nil {
		return Value{}, newError(LookupError, "unknown function %q", e.name)
	}
	if len(e.args) < e.fn.minArgs || (e.fn.maxArgs >= 0 && len(e.args) > e.fn.maxArgs) {
		return Value{}, newError(ArityError, "%s() takes between %d and %d arguments, got %d", e.name, e.fn.minArgs, e.fn.maxArgs, len(e.args))
	}
	return e.fn.call(s, e.args)
}

// --- Path / steps ---

// pathExpr is a (possibly absolute) sequence of steps evaluated left to
// right, each consuming the previous step's node list — Path::evalExpr in
// the original, with the first_step flag threaded exactly the same way.
type pathExpr struct {
	absolute bool
	steps    []*stepExpr
}

func (e *pathExpr) String() string {
	s := ""
	if e.absolute {
		s = "/"
	}
	for i, st := range e.steps {
		if i > 0 || e.absolute {
			if i > 0 {
				s += "/"
			}
		}
		s += st.String()
	}
	return s
}

func (e *pathExpr) Eval(s *evalState) (Value, error) {
	var nodes []Node
	if e.absolute {
		root, err := s.env.GetRoot()
		if err != nil {
			return Value{}, err
		}
		nodes = root.GetNodeSet()
	} else {
		cur := s.env.GetCurrent()
		if cur.GetType() != NodeSet {
			// A bare "." is the one relative path that makes sense over a
			// non-node-set context: it names the context value itself,
			// used by a FilterExpr predicate over a scalar (spec §4.D.3's
			// `(1+2)[. = 3]`).
			if len(e.steps) == 1 && e.steps[0].selfTest {
				return cur, nil
			}
			return Value{}, newError(TypeError, "relative path requires a node-set context")
		}
		nodes = cur.GetNodeSet()
	}
	first := e.absolute || s.firstStep
	for _, st := range e.steps {
		var err error
		nodes, err = st.apply(s.env, nodes, first)
		if err != nil {
			return Value{}, err
		}
		first = false
	}
	return NewNodeSetValue(nodes), nil
}

// axisFunc computes the raw (untested, unfiltered) node list an axis
// selects from a context node list.
type axisFunc func(ctx []Node, firstStep bool) []Node

type stepExpr struct {
	axisName   string
	axis       axisFunc
	nodeName   string // "" means wildcard "*"
	wildcard   bool
	selfTest   bool // "." step
	predicates []Expr
}

func (e *stepExpr) String() string {
	s := e.axisName + "::"
	if e.wildcard {
		s += "*"
	} else {
		s += e.nodeName
	}
	for _, p := range e.predicates {
		s += "[" + p.String() + "]"
	}
	return s
}

func (e *stepExpr) apply(env *Env, ctxNodes []Node, firstStep bool) ([]Node, error) {
	raw := e.axis(ctxNodes, firstStep)
	filtered := raw
	if !e.wildcard {
		filtered = filtered[:0:0]
		for _, n := range raw {
			if n.GetLocalName() == e.nodeName {
				filtered = append(filtered, n)
			}
		}
	}
	for _, pred := range e.predicates {
		var err error
		filtered, err = applyPredicate(env, filtered, pred)
		if err != nil {
			return nil, err
		}
	}
	return filtered, nil
}

// applyPredicate evaluates pred once per node in nodes (position
// recomputed against this, possibly already-narrowed, list — sequential
// narrowing across multiple predicates, matching Expr::evalFilter), and
// keeps a node if the predicate's value is boolean-true, or if it is a
// number equal to the node's 1-based position.
func applyPredicate(env *Env, nodes []Node, pred Expr) ([]Node, error) {
	size := len(nodes)
	var out []Node
	for i, n := range nodes {
		pos := i + 1
		st := &evalState{env: env.WithCurrent(NewNodeValue(n)), pos: pos, size: size, firstStep: false}
		v, err := pred.Eval(st)
		if err != nil {
			return nil, err
		}
		if predicateKeeps(v, pos) {
			out = append(out, n)
		}
	}
	return out, nil
}

// predicateKeeps implements the predicate-truth rule shared by node-set
// filtering and FilterExpr filtering over a bare value: a numeric result
// keeps iff it equals pos (the 1-based position, or 0 for a non-node-set
// context per spec §4.D.3); any other result keeps iff boolean-true.
func predicateKeeps(v Value, pos int) bool {
	if v.GetType() == Number {
		return int(v.GetNumber()) == pos && float64(int(v.GetNumber())) == v.GetNumber()
	}
	return v.GetBoolean()
}

// --- FilterExpr: PrimaryExpr Predicate* (('/' | '//') RelativeLocationPath)? ---

// filterExpr implements the XPath 1.0 FilterExpr production, which the
// grammar otherwise only reaches through a bare location path: any
// primary expression (a parenthesized expression, function call, or
// variable reference) may itself carry predicates and, if it evaluates to
// a node-set, continue as the start of a further location path — e.g.
// `current()//e` or `(1+2)[. = 3]` (spec §4.D.3, §8 scenario 5).
type filterExpr struct {
	primary    Expr
	predicates []Expr
	steps      []*stepExpr
}

func (e *filterExpr) String() string {
	s := "(" + e.primary.String() + ")"
	for _, p := range e.predicates {
		s += "[" + p.String() + "]"
	}
	for _, st := range e.steps {
		s += "/" + st.String()
	}
	return s
}

func (e *filterExpr) Eval(s *evalState) (Value, error) {
	v, err := e.primary.Eval(s)
	if err != nil {
		return Value{}, err
	}
	if len(e.predicates) > 0 {
		if v.GetType() == NodeSet {
			nodes := v.GetNodeSet()
			for _, pred := range e.predicates {
				nodes, err = applyPredicate(s.env, nodes, pred)
				if err != nil {
					return Value{}, err
				}
			}
			v = NewNodeSetValue(nodes)
		} else {
			// Non-node-set FilterExpr: each predicate is evaluated once,
			// with pos=0 and the context value itself as current (so "."
			// inside the predicate refers back to v) — spec §4.D.3's
			// explicit `(1+2)[. = 3]` rule. A failing predicate filters
			// the value away entirely; there is no node to keep or drop,
			// so the whole FilterExpr yields an empty node-set.
			for _, pred := range e.predicates {
				st := &evalState{env: s.env.WithCurrent(v), pos: 0, size: 1, firstStep: false}
				pv, err := pred.Eval(st)
				if err != nil {
					return Value{}, err
				}
				if !predicateKeeps(pv, 0) {
					return NewNodeSetValue(nil), nil
				}
			}
		}
	}
	if len(e.steps) == 0 {
		return v, nil
	}
	if v.GetType() != NodeSet {
		return Value{}, newError(TypeError, "path continuation after a filter requires a node-set")
	}
	nodes := v.GetNodeSet()
	for _, st := range e.steps {
		nodes, err = st.apply(s.env, nodes, false)
		if err != nil {
			return Value{}, err
		}
	}
	return NewNodeSetValue(nodes), nil
}
