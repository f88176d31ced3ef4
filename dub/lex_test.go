package dub

import "testing"

func TestLexer(t *testing.T) {
	type test struct {
		input  string
		expect []token
	}
	tests := []test{
		{
			input: "set depth 0.8",
			expect: []token{
				token{typ: typeIdentifier, text: "set"},
				token{typ: typeIdentifier, text: "depth"},
				token{typ: typeFloat, text: "0.8"},
				token{typ: typeEOF},
			},
		},
		{
			input: "on 100",
			expect: []token{
				token{typ: typeIdentifier, text: "on"},
				token{typ: typeInt, text: "100"},
				token{typ: typeEOF},
			},
		},
		{
			input: "set curve S-Curve",
			expect: []token{
				token{typ: typeIdentifier, text: "set"},
				token{typ: typeIdentifier, text: "curve"},
				token{typ: typeIdentifier, text: "S-Curve"},
				token{typ: typeEOF},
			},
		},
		{
			input: "set   trigger_note 36",
			expect: []token{
				token{typ: typeIdentifier, text: "set"},
				token{typ: typeIdentifier, text: "trigger_note"},
				token{typ: typeInt, text: "36"},
				token{typ: typeEOF},
			},
		},
		{
			input: "1.0",
			expect: []token{
				token{typ: typeFloat, text: "1.0"},
				token{typ: typeEOF},
			},
		},
		{
			input: "-1.",
			expect: []token{
				token{typ: typeFloat, text: "-1."},
				token{typ: typeEOF},
			},
		},
		{
			input: "-.1",
			expect: []token{
				token{typ: typeFloat, text: "-.1"},
				token{typ: typeEOF},
			},
		},
		{
			input: `load "kick 01.wav"`,
			expect: []token{
				token{typ: typeIdentifier, text: "load"},
				token{typ: typeString, text: `"kick 01.wav"`},
				token{typ: typeEOF},
			},
		},
	}
	for _, test := range tests {
		t.Log(test.input)
		tokens, err := lex(test.input)
		if err != nil {
			t.Errorf("unexpected lex error: %v", err)
			continue
		}
		if len(tokens) != len(test.expect) {
			t.Fatalf("token mismatch: \nwant: %+v, \ngot:  %+v", test.expect, tokens)
		}
		for i, got := range tokens {
			want := test.expect[i]
			if want.typ != got.typ {
				t.Errorf("wrong type: want %v, got %v", want, got)
			}
			if want.text != got.text {
				t.Errorf("wrong text: want %v, got %v", want, got)
			}
		}
	}
}

func TestLexerErrors(t *testing.T) {
	for _, input := range []string{
		"a -",
		"a .-",
		`a "unterminated`,
		"a 1.2.3",
	} {
		_, err := lex(input)
		if err == nil {
			t.Errorf("expected error for input: %q", input)
		}
	}
}
