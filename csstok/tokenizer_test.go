package csstok

import "testing"

func TestTokenizerIdent(t *testing.T) {
	tok := New("color").Next()
	if tok.Kind != Ident {
		t.Errorf("expected Ident, got %v", tok.Kind)
	}
	if tok.Value != "color" {
		t.Errorf("expected 'color', got %q", tok.Value)
	}
}

func TestTokenizerString(t *testing.T) {
	tests := []struct {
		name, input, expected string
		kind                  Kind
	}{
		{"double quotes", `"hello"`, "hello", String},
		{"single quotes", `'world'`, "world", String},
		{"with spaces", `"hello world"`, "hello world", String},
		{"unterminated", `"oops`, "oops", String},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := New(tt.input).Next()
			if tok.Kind != tt.kind {
				t.Errorf("expected %v, got %v", tt.kind, tok.Kind)
			}
			if tok.Value != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tok.Value)
			}
		})
	}
}

func TestTokenizerNewlineInString(t *testing.T) {
	tz := New("\"ab\ncd\"")
	tok := tz.Next()
	if tok.Kind != BadString {
		t.Errorf("expected BadString, got %v", tok.Kind)
	}
	if len(tz.Errors) != 1 || tz.Errors[0].Kind != ErrNewlineInString {
		t.Errorf("expected a NewlineInString error, got %v", tz.Errors)
	}
}

func TestTokenizerNumeric(t *testing.T) {
	tests := []struct {
		input string
		kind  Kind
		value float64
		unit  string
	}{
		{"42", Number, 42, ""},
		{"3.14", Number, 3.14, ""},
		{"10px", Dimension, 10, "px"},
		{"1.5em", Dimension, 1.5, "em"},
		{"50%", Percentage, 50, ""},
		{"-3", Number, -3, ""},
		{"+3", Number, 3, ""},
		{"1e3px", Dimension, 1000, "px"},
		{".5", Number, 0.5, ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := New(tt.input).Next()
			if tok.Kind != tt.kind {
				t.Fatalf("expected %v, got %v", tt.kind, tok.Kind)
			}
			if tok.Numeric.Value != tt.value {
				t.Errorf("expected value %v, got %v", tt.value, tok.Numeric.Value)
			}
			if tok.Unit != tt.unit {
				t.Errorf("expected unit %q, got %q", tt.unit, tok.Unit)
			}
		})
	}
}

func TestTokenizerHash(t *testing.T) {
	tok := New("#ff0000").Next()
	if tok.Kind != Hash {
		t.Fatalf("expected Hash, got %v", tok.Kind)
	}
	if tok.Value != "ff0000" {
		t.Errorf("expected 'ff0000', got %q", tok.Value)
	}
	if !tok.IsID {
		t.Error("expected IsID to be true (starts like an identifier)")
	}
}

func TestTokenizerFunctionAndURL(t *testing.T) {
	tok := New("calc(").Next()
	if tok.Kind != Function || tok.Value != "calc" {
		t.Errorf("expected Function(calc), got %v %q", tok.Kind, tok.Value)
	}
	tok = New("url(foo.png)").Next()
	if tok.Kind != URL || tok.Value != "foo.png" {
		t.Errorf("expected URL(foo.png), got %v %q", tok.Kind, tok.Value)
	}
	tok = New("url(foo bar)").Next()
	if tok.Kind != BadURL {
		t.Errorf("expected BadURL for unquoted space, got %v", tok.Kind)
	}
}

func TestTokenizerCDOCDC(t *testing.T) {
	toks, _ := Tokenize("<!-- -->")
	if toks[0].Kind != CDO {
		t.Errorf("expected CDO, got %v", toks[0].Kind)
	}
}

func TestTokenizeColorRule(t *testing.T) {
	// A representative full rule: `div { color: red; }`
	toks, _ := Tokenize("div { color: red; }")
	var kinds []Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := []Kind{
		Ident, Whitespace, OpenCurly, Whitespace, Ident, Colon, Whitespace,
		Ident, Semicolon, Whitespace, CloseCurly, EOF,
	}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(kinds), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("token %d: expected %v, got %v", i, want[i], kinds[i])
		}
	}
}

func TestRoundTripWhitespaceNormalized(t *testing.T) {
	src := "a{b:c}"
	toks, _ := Tokenize(src)
	var out string
	for _, tok := range toks {
		out += tok.String()
	}
	if out != src {
		t.Errorf("round trip mismatch: got %q want %q", out, src)
	}
}

func TestPreprocessNewlines(t *testing.T) {
	tz := New("a\r\nb\rc\fd\x00e")
	var vals []rune
	for {
		tok := tz.Next()
		if tok.Kind == EOF {
			break
		}
		if tok.Kind == Ident {
			vals = append(vals, []rune(tok.Value)...)
		}
	}
	// whitespace splits idents, but U+FFFD is a name code point and can
	// join its neighbours into one ident, so only the letters are checked
	joined := string(vals)
	for _, want := range []string{"a", "b", "c", "d", "e"} {
		if !containsRune(joined, []rune(want)[0]) {
			t.Errorf("expected %q in %q", want, joined)
		}
	}
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}
