package xpath

import "testing"

func TestOperatorPrecedence(t *testing.T) {
	doc := mustDoc(t, `{}`)
	// "2 + 3 * 4" must parse as "2 + (3 * 4)" = 14, not "(2 + 3) * 4" = 20.
	v, err := Eval("2 + 3 * 4", doc)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v.GetNumber() != 14 {
		t.Errorf("2 + 3 * 4 = %v, want 14", v.GetNumber())
	}
}

func TestOrAndShortCircuit(t *testing.T) {
	doc := mustDoc(t, `{}`)
	// "true() or (1 div 0 = 1)" would still be well-defined since division
	// by zero yields Infinity rather than panicking, but this still
	// exercises that the right operand of `or` is skipped once the left
	// is already true by checking a right-hand variable reference is
	// never evaluated (an unbound variable would otherwise error out).
	v, err := Eval("true() or $undefined", doc)
	if err != nil {
		t.Fatalf("expected short-circuit to skip evaluating $undefined, got error: %v", err)
	}
	if !v.GetBoolean() {
		t.Errorf("true() or $undefined = false, want true")
	}

	v, err = Eval("false() and $undefined", doc)
	if err != nil {
		t.Fatalf("expected short-circuit to skip evaluating $undefined, got error: %v", err)
	}
	if v.GetBoolean() {
		t.Errorf("false() and $undefined = true, want false")
	}
}

func TestAttributeAxisIsRejected(t *testing.T) {
	if _, err := Parse("@foo"); err == nil {
		t.Errorf("expected a parse error for the unsupported attribute axis")
	}
}

func TestDoubleSlashRewriteAtPathStart(t *testing.T) {
	doc := mustDoc(t, `{"a": {"b": 1}, "b": 2}`)
	v, err := Eval("//b", doc)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got := len(v.GetNodeSet()); got != 2 {
		t.Errorf("//b found %d nodes, want 2", got)
	}
}

func TestParenthesizedExpression(t *testing.T) {
	doc := mustDoc(t, `{}`)
	v, err := Eval("(2 + 3) * 4", doc)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v.GetNumber() != 20 {
		t.Errorf("(2 + 3) * 4 = %v, want 20", v.GetNumber())
	}
}

func TestFilterExprPredicateOnNonNodeSetPrimary(t *testing.T) {
	doc := mustDoc(t, `{}`)
	// spec's own example: a predicate directly on a parenthesized,
	// non-node-set PrimaryExpr survives iff the predicate holds.
	v, err := Eval("(1+2)[. = 3]", doc)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v.GetNumber() != 3 {
		t.Errorf("(1+2)[. = 3] = %v, want 3", v.GetNumber())
	}

	v, err = Eval("(1+2)[. = 4]", doc)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v.GetBoolean() {
		t.Errorf("(1+2)[. = 4] should not survive its predicate")
	}
}

func TestNamesPermitNonReservedPunctuation(t *testing.T) {
	// spec's own conformance examples: "%@" and "&#" are valid node-test
	// names even though they're built entirely from punctuation, since
	// none of it is otherwise lexically significant at the position it
	// appears in.
	src := `{"%@": 1, "&#": 2}`
	if v := evalStr(t, src, "/%@"); v.GetNumber() != 1 {
		t.Errorf(`/%%@ = %v, want 1`, v.GetNumber())
	}
	if v := evalStr(t, src, "/*[local-name() = '&#']"); v.GetNumber() != 2 {
		t.Errorf(`&# lookup = %v, want 2`, v.GetNumber())
	}
}

func TestFilterExprPathContinuationAfterFunctionCall(t *testing.T) {
	doc := mustDoc(t, `{"d": {"e": [{"n": 1}, {"n": 2}]}}`)
	v, err := Eval("count(current()//e)", doc)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v.GetNumber() != 2 {
		t.Errorf("count(current()//e) = %v, want 2", v.GetNumber())
	}
}
