package xpath

// Axis functions compute the raw candidate node list an axis selects from
// a context node list, before node-test name filtering and predicates are
// applied (stepExpr.apply does both of those uniformly regardless of
// axis, which simplifies this package relative to the original's separate
// *Search (name-pruning) and *All (wildcard) step subclasses per axis —
// a performance split this Go port does not need to reproduce since
// correctness, not traversal cost, is what the spec's invariants pin
// down). Grounded on the per-axis evalExpr methods in
// original_source/src/Expr.cc.

func dedupeNodes(nodes []Node) []Node {
	seen := make(map[nodeID]bool, len(nodes))
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if !seen[n.id] {
			seen[n.id] = true
			out = append(out, n)
		}
	}
	return out
}

func axisSelf(ctx []Node, firstStep bool) []Node {
	return append([]Node(nil), ctx...)
}

func axisChild(ctx []Node, firstStep bool) []Node {
	var out []Node
	for _, n := range ctx {
		out = append(out, n.GetChildren()...)
	}
	return out
}

func axisParent(ctx []Node, firstStep bool) []Node {
	var out []Node
	for _, n := range ctx {
		if p, ok := n.GetParent(); ok {
			out = append(out, p)
		}
	}
	return dedupeNodes(out)
}

func axisAncestor(ctx []Node, firstStep bool) []Node {
	var out []Node
	for _, n := range ctx {
		out = append(out, n.GetAncestors()...)
	}
	return dedupeNodes(out)
}

func axisAncestorOrSelf(ctx []Node, firstStep bool) []Node {
	var out []Node
	for _, n := range ctx {
		out = append(out, n)
		out = append(out, n.GetAncestors()...)
	}
	return dedupeNodes(out)
}

func axisDescendant(ctx []Node, firstStep bool) []Node {
	var out []Node
	for _, n := range ctx {
		out = append(out, n.GetSubtree()...)
	}
	return dedupeNodes(out)
}

func axisDescendantOrSelf(ctx []Node, firstStep bool) []Node {
	var out []Node
	for _, n := range ctx {
		out = append(out, n)
		out = append(out, n.GetSubtree()...)
	}
	return dedupeNodes(out)
}

func axisFollowingSibling(ctx []Node, firstStep bool) []Node {
	var out []Node
	for _, n := range ctx {
		p, ok := n.GetParent()
		if !ok {
			continue
		}
		siblings := p.GetChildren()
		idx := -1
		for i, s := range siblings {
			if s.id == n.id {
				idx = i
				break
			}
		}
		if idx >= 0 && idx+1 < len(siblings) {
			out = append(out, siblings[idx+1:]...)
		}
	}
	return dedupeNodes(out)
}

// axesByName is the closed set of axes this evaluator supports, matching
// spec §4.D's axis table exactly: no attribute, namespace, preceding, or
// following (non-sibling) axes.
var axesByName = map[string]axisFunc{
	"self":               axisSelf,
	"child":              axisChild,
	"parent":             axisParent,
	"ancestor":           axisAncestor,
	"ancestor-or-self":   axisAncestorOrSelf,
	"descendant":         axisDescendant,
	"descendant-or-self": axisDescendantOrSelf,
	"following-sibling":  axisFollowingSibling,
}
