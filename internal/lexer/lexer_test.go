package lexer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/w84us/solidity/internal/text"
)

func TestTokenAndTriviaBytesUseRawSpans(t *testing.T) {
	t.Parallel()

	src := []byte("  abc")
	tr := Trivia{Kind: TriviaWhitespace, Span: text.Span{Start: 0, End: 2}}
	tok := Token{Kind: TokenIdentifier, Span: text.Span{Start: 2, End: 5}}

	if got := string(tr.Bytes(src)); got != "  " {
		t.Fatalf("Trivia.Bytes() = %q, want %q", got, "  ")
	}
	if got := string(tok.Bytes(src)); got != "abc" {
		t.Fatalf("Token.Bytes() = %q, want %q", got, "abc")
	}
}

func TestLexGoldenRepresentativeValidInput(t *testing.T) {
	t.Parallel()

	src := []byte(`/// doc
contract Wallet {
  uint balance = 0x2A;
  function deposit(uint amount) public {
    balance = balance + amount; // credit
  }
}
`)

	res := Lex(src)
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", res.Diagnostics)
	}

	got := renderTokens(src, res.Tokens)
	want := strings.TrimSpace(`
KwContract("contract") lead=[DocComment("/// doc"),Newline("\n")]
Identifier("Wallet") lead=[Whitespace(" ")]
LBrace("{") lead=[Whitespace(" ")]
KwUint("uint") lead=[Newline("\n"),Whitespace("  ")]
Identifier("balance") lead=[Whitespace(" ")]
Equal("=") lead=[Whitespace(" ")]
HexLiteral("0x2A") lead=[Whitespace(" ")]
Semi(";") lead=[]
KwFunction("function") lead=[Newline("\n"),Whitespace("  ")]
Identifier("deposit") lead=[Whitespace(" ")]
LParen("(") lead=[]
KwUint("uint") lead=[]
Identifier("amount") lead=[Whitespace(" ")]
RParen(")") lead=[]
KwPublic("public") lead=[Whitespace(" ")]
LBrace("{") lead=[Whitespace(" ")]
Identifier("balance") lead=[Newline("\n"),Whitespace("    ")]
Equal("=") lead=[Whitespace(" ")]
Identifier("balance") lead=[Whitespace(" ")]
Plus("+") lead=[Whitespace(" ")]
Identifier("amount") lead=[Whitespace(" ")]
Semi(";") lead=[]
RBrace("}") lead=[Whitespace(" "),LineComment("// credit"),Newline("\n"),Whitespace("  ")]
RBrace("}") lead=[Newline("\n")]
EOF("") lead=[Newline("\n")]
`)
	if got != want {
		t.Fatalf("golden mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestLexMalformedInputsEmitErrorTokensAndDiagnostics(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		src          []byte
		wantDiagCode DiagnosticCode
	}{
		"unterminated string": {
			src:          []byte(`"abc`),
			wantDiagCode: DiagnosticUnterminatedString,
		},
		"unterminated block comment": {
			src:          []byte("/* abc"),
			wantDiagCode: DiagnosticUnterminatedBlockComment,
		},
		"invalid byte": {
			src:          []byte{0xff},
			wantDiagCode: DiagnosticInvalidByte,
		},
		"invalid hex literal": {
			src:          []byte("0x;"),
			wantDiagCode: DiagnosticInvalidHexLiteral,
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			res := Lex(tc.src)
			if len(res.Diagnostics) == 0 {
				t.Fatalf("expected diagnostics for %q", tc.src)
			}
			if res.Diagnostics[0].Code != tc.wantDiagCode {
				t.Fatalf("diagnostic code = %s, want %s", res.Diagnostics[0].Code, tc.wantDiagCode)
			}
			if len(res.Tokens) == 0 || res.Tokens[0].Kind != TokenError {
				t.Fatalf("expected first token to be TokenError, got %+v", res.Tokens)
			}
			if !res.Tokens[0].Flags.Has(TokenFlagMalformed) {
				t.Fatalf("expected malformed flag on error token, got %v", res.Tokens[0].Flags)
			}
			if got := res.Tokens[len(res.Tokens)-1].Kind; got != TokenEOF {
				t.Fatalf("expected EOF token at end, got %s", got)
			}
		})
	}
}

func TestLexTriviaAndLiteralFidelity(t *testing.T) {
	t.Parallel()

	src := []byte("  // c1\r\nint x = 0XBeEf;\n\"a\\\"b\" 'bee'")
	res := Lex(src)

	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", res.Diagnostics)
	}

	var gotComments []string
	var gotLiterals []string
	for _, tok := range res.Tokens {
		for _, tr := range tok.Leading {
			if tr.Kind == TriviaLineComment {
				gotComments = append(gotComments, string(tr.Bytes(src)))
			}
		}
		if tok.Kind == TokenHexLiteral || tok.Kind == TokenStringLiteral {
			gotLiterals = append(gotLiterals, string(tok.Bytes(src)))
		}
	}

	wantComments := []string{"// c1"}
	if fmt.Sprint(gotComments) != fmt.Sprint(wantComments) {
		t.Fatalf("comments = %v, want %v", gotComments, wantComments)
	}

	// Literal spellings must be preserved exactly.
	wantLiterals := []string{"0XBeEf", "\"a\\\"b\"", "'bee'"}
	if fmt.Sprint(gotLiterals) != fmt.Sprint(wantLiterals) {
		t.Fatalf("literals = %v, want %v", gotLiterals, wantLiterals)
	}
}

func TestLexNoPanicsOnMalformedCorpusSamples(t *testing.T) {
	t.Parallel()

	inputs := [][]byte{
		[]byte(`"`),
		[]byte(`/*`),
		[]byte(`0x`),
		{0xff, '{', 0xfe},
		[]byte("contract X {\n uint name = \"a\n}\n"),
	}

	for _, src := range inputs {
		src := src
		t.Run(fmt.Sprintf("%q", src), func(t *testing.T) {
			t.Parallel()
			_ = Lex(src)
		})
	}
}

func renderTokens(src []byte, tokens []Token) string {
	lines := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		lines = append(lines, fmt.Sprintf("%s(%q) lead=%s", tok.Kind, tok.Bytes(src), renderLeading(src, tok.Leading)))
	}
	return strings.Join(lines, "\n")
}

func renderLeading(src []byte, trivia []Trivia) string {
	if len(trivia) == 0 {
		return "[]"
	}

	parts := make([]string, 0, len(trivia))
	for _, tr := range trivia {
		parts = append(parts, fmt.Sprintf("%s(%q)", tr.Kind, tr.Bytes(src)))
	}
	return "[" + strings.Join(parts, ",") + "]"
}
