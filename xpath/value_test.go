package xpath

import (
	"math"
	"testing"
)

func TestNumberToStringSpecialValues(t *testing.T) {
	cases := map[float64]string{
		math.NaN():            "NaN",
		math.Inf(1):           "Infinity",
		math.Inf(-1):          "-Infinity",
		0:                     "0",
		3:                     "3",
		-3:                    "-3",
	}
	for in, want := range cases {
		if got := NewNumberValue(in).GetString(); got != want {
			t.Errorf("NewNumberValue(%v).GetString() = %q, want %q", in, got, want)
		}
	}
}

func TestGetStringValueConcatenatesAllNodesOfANodeSet(t *testing.T) {
	doc := mustDoc(t, `{"p": ["a", "b", "c"]}`)
	children := doc.Root().GetChildren()
	v := NewNodeSetValue(children)
	if got := v.GetStringValue(); got != "abc" {
		t.Errorf("GetStringValue() = %q, want %q", got, "abc")
	}
	if got := v.GetString(); got != "a" {
		t.Errorf("GetString() (first node only) = %q, want %q", got, "a")
	}
}

func TestIsValueForNodeSet(t *testing.T) {
	doc := mustDoc(t, `{"p": ["a", "b"]}`)
	ps := doc.Root().GetChildren()
	single := NewNodeSetValue(ps[:1])
	if !single.IsValue() {
		t.Errorf("a single-node, value-bearing node-set should be IsValue()")
	}
	multi := NewNodeSetValue(ps)
	if multi.IsValue() {
		t.Errorf("a multi-node node-set should not be IsValue()")
	}
	container := NewNodeSetValue([]Node{doc.Root()})
	if container.IsValue() {
		t.Errorf("a single node-set node that is itself an object is not IsValue()")
	}
}

func TestRelationalOperatorsRequireValueOperands(t *testing.T) {
	doc := mustDoc(t, `{"p": ["a", "b"]}`)
	multi := NewNodeSetValue(doc.Root().GetChildren())
	if _, err := multi.Less(NewNumberValue(1)); err == nil {
		t.Errorf("expected Less() to fail for a multi-node node-set operand")
	}
}

func TestNodeSetUnionRequiresTwoNodeSets(t *testing.T) {
	if _, err := NewNumberValue(1).NodeSetUnion(NewNumberValue(2)); err == nil {
		t.Errorf("expected NodeSetUnion to fail for non-node-set operands")
	}
}

func TestEqualityBooleanCoercionWins(t *testing.T) {
	if !NewBooleanValue(true).Equal(NewNumberValue(1)) {
		t.Errorf("true = 1 should coerce via boolean and be true")
	}
	if NewBooleanValue(false).Equal(NewNumberValue(1)) {
		t.Errorf("false = 1 should coerce via boolean and be false")
	}
}
