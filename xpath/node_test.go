package xpath

import (
	"strings"
	"testing"
)

func mustDoc(t testing.TB, src string) *Document {
	t.Helper()
	doc, err := NewDocumentFromBytes([]byte(src))
	if err != nil {
		t.Fatalf("NewDocumentFromBytes: %v", err)
	}
	return doc
}

func names(ns []Node) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.GetLocalName()
	}
	return out
}

func joinNames(ns []Node) string { return strings.Join(names(ns), ",") }

func TestObjectChildrenPreserveInsertionOrder(t *testing.T) {
	doc := mustDoc(t, `{"zebra": 1, "apple": 2, "mango": 3}`)
	got := joinNames(doc.Root().GetChildren())
	want := "zebra,apple,mango"
	if got != want {
		t.Errorf("GetChildren() order = %q, want %q", got, want)
	}
}

func TestArrayValuesFlattenIntoSiblingsSharingTheFieldName(t *testing.T) {
	doc := mustDoc(t, `{"items": [10, 20, 30]}`)
	itemsChildren := doc.Root().GetChildren()
	if len(itemsChildren) != 3 {
		t.Fatalf("expected the items field to flatten to 3 siblings under the root, got %d", len(itemsChildren))
	}
	for _, c := range itemsChildren {
		if c.GetLocalName() != "items" {
			t.Errorf("array element node should carry the field name %q, got %q", "items", c.GetLocalName())
		}
		if !c.IsArrayChild() {
			t.Errorf("array element node should report IsArrayChild() == true")
		}
		if !c.IsValue() {
			t.Errorf("primitive array element should be IsValue() == true")
		}
	}
	if itemsChildren[0].GetNumber() != 10 || itemsChildren[1].GetNumber() != 20 || itemsChildren[2].GetNumber() != 30 {
		t.Errorf("array element values not preserved in order")
	}
}

func TestLeafNodeHasNoChildren(t *testing.T) {
	doc := mustDoc(t, `{"name": "ok"}`)
	leaf := doc.Root().GetChildren()[0]
	if !leaf.IsValue() {
		t.Errorf("leaf node should be IsValue()")
	}
	if len(leaf.GetChildren()) != 0 {
		t.Errorf("leaf node should have no children")
	}
	if leaf.GetString() != "ok" {
		t.Errorf("leaf GetString() = %q, want %q", leaf.GetString(), "ok")
	}
}

func TestGetSubtreeIsDocumentOrderDescendants(t *testing.T) {
	doc := mustDoc(t, `{"a": {"b": {"c": 1}, "d": 2}}`)
	got := joinNames(doc.Root().GetSubtree())
	want := "a,b,c,d"
	if got != want {
		t.Errorf("GetSubtree() order = %q, want %q", got, want)
	}
}

func TestSearchFindsDescendantsByNameAtAnyDepth(t *testing.T) {
	doc := mustDoc(t, `{"a": {"target": 1, "b": {"target": 2}}, "target": 3}`)
	got := doc.Root().Search("target")
	if len(got) != 3 {
		t.Fatalf("Search(\"target\") found %d nodes, want 3", len(got))
	}
}

func TestGetAncestorsClosestFirst(t *testing.T) {
	doc := mustDoc(t, `{"a": {"b": {"c": 1}}}`)
	a := doc.Root().GetChildren()[0]
	b := a.GetChildren()[0]
	c := b.GetChildren()[0]
	got := joinNames(c.GetAncestors())
	want := "b,a,"
	if got != want {
		t.Errorf("GetAncestors() = %q, want %q", got, want)
	}
}

func TestNullIsFalseAndRendersAsNull(t *testing.T) {
	doc := mustDoc(t, `{"n": null}`)
	n := doc.Root().GetChildren()[0]
	if n.GetBoolean() != false {
		t.Errorf("null GetBoolean() should be false")
	}
	if n.GetString() != "null" {
		t.Errorf("null GetString() = %q, want %q", n.GetString(), "null")
	}
}
