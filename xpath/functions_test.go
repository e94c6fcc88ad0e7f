package xpath

import "testing"

func TestPositionAndLastInsidePredicates(t *testing.T) {
	doc := `{"item": [{"n": 1}, {"n": 2}, {"n": 3}]}`
	v := evalStr(t, doc, "/item[position() = last()]/n")
	if v.GetNumber() != 3 {
		t.Errorf("last item's n = %v, want 3", v.GetNumber())
	}
}

func TestNumericPredicateIsShorthandForPositionEquality(t *testing.T) {
	doc := `{"item": [{"n": 1}, {"n": 2}, {"n": 3}]}`
	v := evalStr(t, doc, "/item[2]/n")
	if v.GetNumber() != 2 {
		t.Errorf("/item[2]/n = %v, want 2", v.GetNumber())
	}
}

func TestSumFloorCeilingRound(t *testing.T) {
	doc := `{"n": [1, 2, 3.5]}`
	if v := evalStr(t, doc, "sum(/n)"); v.GetNumber() != 6.5 {
		t.Errorf("sum = %v, want 6.5", v.GetNumber())
	}
	if v := evalStr(t, doc, "floor(2.7)"); v.GetNumber() != 2 {
		t.Errorf("floor(2.7) = %v, want 2", v.GetNumber())
	}
	if v := evalStr(t, doc, "ceiling(2.1)"); v.GetNumber() != 3 {
		t.Errorf("ceiling(2.1) = %v, want 3", v.GetNumber())
	}
	if v := evalStr(t, doc, "round(2.5)"); v.GetNumber() != 3 {
		t.Errorf("round(2.5) = %v, want 3", v.GetNumber())
	}
	if v := evalStr(t, doc, "round(-2.5)"); v.GetNumber() != -2 {
		t.Errorf("round(-2.5) = %v, want -2 (ties round toward +infinity)", v.GetNumber())
	}
}

func TestFunctionArityErrors(t *testing.T) {
	doc := mustDoc(t, `{}`)
	if _, err := Eval("concat(\"a\")", doc); err == nil {
		t.Errorf("expected an arity error for concat() with one argument")
	}
	if _, err := Eval("true(1)", doc); err == nil {
		t.Errorf("expected an arity error for true() with an argument")
	}
}

func TestUnknownFunctionIsAParseTimeLookupError(t *testing.T) {
	if _, err := Parse("bogus-function()") ; err == nil {
		t.Errorf("expected an error compiling a call to an unknown function")
	}
}

func TestStringLengthCountsRunesNotBytes(t *testing.T) {
	doc := mustDoc(t, `{}`)
	v, err := Eval(`string-length("héllo")`, doc)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v.GetNumber() != 5 {
		t.Errorf("string-length(\"héllo\") = %v, want 5", v.GetNumber())
	}
}
