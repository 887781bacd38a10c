package token

import "testing"

func TestUnionCoversBothViews(t *testing.T) {
	a := SourceView{Index: 4, Length: 3, Line: 1, Column: 5}
	b := SourceView{Index: 10, Length: 5, Line: 2, Column: 3}

	u := a.Union(b)
	if u.Index != 4 || u.Length != 11 {
		t.Errorf("union has wrong range. got=%d+%d, want=4+11", u.Index, u.Length)
	}
	if u.Line != 1 || u.Column != 5 {
		t.Errorf("union should keep the earlier view's position. got=%d:%d", u.Line, u.Column)
	}
}

func TestUnionIsSymmetric(t *testing.T) {
	a := SourceView{Index: 4, Length: 3, Line: 1, Column: 5}
	b := SourceView{Index: 10, Length: 5, Line: 2, Column: 3}

	if a.Union(b) != b.Union(a) {
		t.Errorf("union is not symmetric: %+v vs %+v", a.Union(b), b.Union(a))
	}
}

func TestUnionWithContainedView(t *testing.T) {
	outer := SourceView{Index: 0, Length: 20, Line: 1, Column: 1}
	inner := SourceView{Index: 5, Length: 2, Line: 1, Column: 6}

	u := outer.Union(inner)
	if u != outer {
		t.Errorf("union with contained view changed the range: %+v", u)
	}
}

func TestAfterPointsPastView(t *testing.T) {
	v := SourceView{Index: 3, Length: 4, Line: 2, Column: 2}

	after := v.After()
	if after.Index != 7 || after.Length != 1 {
		t.Errorf("after has wrong range. got=%d+%d, want=7+1", after.Index, after.Length)
	}
	if after.Line != 2 || after.Column != 6 {
		t.Errorf("after has wrong position. got=%d:%d, want=2:6", after.Line, after.Column)
	}
}

func TestLookupIdent(t *testing.T) {
	if LookupIdent("while") != WHILE {
		t.Error("while should be a keyword")
	}
	if LookupIdent("none") != NONE {
		t.Error("none should be a keyword")
	}
	if LookupIdent("whiles") != IDENT {
		t.Error("whiles should stay an identifier")
	}
}
