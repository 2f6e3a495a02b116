package lexer

import "testing"

func TestLexBasicTokens(t *testing.T) {
	input := "x = 1 + 2\n\tif x < 10 then\n"

	tests := []struct {
		lexeme string
		kind   Kind
	}{
		{"x", IDENT},
		{"=", ASSIGN},
		{"1", INT},
		{"+", PLUS},
		{"2", INT},
		{"\n", NEWLINE},
		{"\t", TAB},
		{"if", IF},
		{"x", IDENT},
		{"<", LT},
		{"10", INT},
		{"then", THEN},
		{"\n", NEWLINE},
		{"", EOF},
	}

	toks, err := New(input).Lex()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	if len(toks) != len(tests) {
		t.Fatalf("expected %d tokens, got %d: %v", len(tests), len(toks), toks)
	}
	for i, tt := range tests {
		if toks[i].Kind != tt.kind {
			t.Errorf("token %d: expected kind %s, got %s (%q)", i, tt.kind, toks[i].Kind, toks[i].Lexeme)
		}
		if toks[i].Lexeme != tt.lexeme {
			t.Errorf("token %d: expected lexeme %q, got %q", i, tt.lexeme, toks[i].Lexeme)
		}
	}
}

func TestLexMultiWordKeywords(t *testing.T) {
	input := "loop while x\nloop for x\nelse if x\n"

	tests := []Kind{
		LOOPWHILE, IDENT, NEWLINE,
		LOOPFOR, IDENT, NEWLINE,
		ELSEIF, IDENT, NEWLINE,
		EOF,
	}
	toks, err := New(input).Lex()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	if len(toks) != len(tests) {
		t.Fatalf("expected %d tokens, got %d: %v", len(tests), len(toks), toks)
	}
	for i, want := range tests {
		if toks[i].Kind != want {
			t.Errorf("token %d: expected %s, got %s", i, want, toks[i].Kind)
		}
	}
}

func TestLexIdentifierNotKeywordPrefix(t *testing.T) {
	// "ifx" must lex as a single IDENT, not IF followed by IDENT "x".
	toks, err := New("ifx = 1\n").Lex()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	if toks[0].Kind != IDENT || toks[0].Lexeme != "ifx" {
		t.Fatalf("expected IDENT(ifx), got %s(%q)", toks[0].Kind, toks[0].Lexeme)
	}
}

func TestLexStringEscape(t *testing.T) {
	toks, err := New(`"a\nb"` + "\n").Lex()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	if toks[0].Kind != STRING || toks[0].Lexeme != "a\nb" {
		t.Fatalf("expected STRING(\"a\\nb\"), got %s(%q)", toks[0].Kind, toks[0].Lexeme)
	}
}

func TestLexCharLiteral(t *testing.T) {
	toks, err := New(`'a'` + "\n").Lex()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	if toks[0].Kind != CHAR || toks[0].Lexeme != "a" {
		t.Fatalf("expected CHAR('a'), got %s(%q)", toks[0].Kind, toks[0].Lexeme)
	}
}

func TestLexFloatLiteral(t *testing.T) {
	toks, err := New("3.14\n").Lex()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	if toks[0].Kind != FLOAT || toks[0].Lexeme != "3.14" {
		t.Fatalf("expected FLOAT(3.14), got %s(%q)", toks[0].Kind, toks[0].Lexeme)
	}
}

func TestLexUnterminatedString(t *testing.T) {
	_, err := New(`"abc`).Lex()
	if err == nil {
		t.Fatal("expected an error for an unterminated string literal")
	}
}

func TestLexCompoundOperators(t *testing.T) {
	tests := []struct {
		input string
		kind  Kind
	}{
		{"++", PLUSPLUS}, {"--", MINUSMINUS},
		{"+=", PLUSEQ}, {"-=", MINUSEQ}, {"*=", STAREQ}, {"/=", SLASHEQ}, {"%=", PERCENTEQ},
		{"==", EQ}, {"!=", NOTEQ}, {"<=", LE}, {">=", GE},
		{"&&", ANDAND}, {"||", OROR},
	}
	for _, tt := range tests {
		toks, err := New(tt.input + "\n").Lex()
		if err != nil {
			t.Fatalf("unexpected lex error for %q: %v", tt.input, err)
		}
		if toks[0].Kind != tt.kind {
			t.Errorf("input %q: expected %s, got %s", tt.input, tt.kind, toks[0].Kind)
		}
	}
}
