package token

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"if", If},
		{"else", Else},
		{"constexpr", Constexpr},
		{"step", Step},
		{"enum", Enum},
		{"memoize", Identifier},
		{"If", Identifier},
		{"vector<int>", Identifier},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Lookup(tt.input); got != tt.want {
				t.Errorf("Lookup(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Identifier, "IDENTIFIER"},
		{ForRange, "FOR_RANGE"},
		{ShiftLeft, "SHIFT_LEFT"},
		{CppChunk, "CPP_CHUNK"},
		{Kind(-1), "Kind(-1)"},
		{Kind(500), "Kind(500)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestEveryKindHasAName(t *testing.T) {
	for k := EOF; k <= CppDirective; k++ {
		if kindNames[k] == "" {
			t.Errorf("kind %d has no name", int(k))
		}
	}
}

func TestKindClasses(t *testing.T) {
	for word, kind := range keywords {
		if !kind.IsKeyword() {
			t.Errorf("%q maps to %v which is not a keyword kind", word, kind)
		}
	}
	if Type.IsKeyword() || Identifier.IsKeyword() {
		t.Error("synthetic kinds must not be keywords")
	}
	if !Dedent.IsLayout() || Colon.IsLayout() {
		t.Error("IsLayout() misclassifies")
	}
}

func TestTokenString(t *testing.T) {
	tok := New(Type, "int", 3)
	if got, want := tok.String(), `TYPE "int" (line 3)`; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
