package lexer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dccarter/cxy/internal/token"
	"golang.org/x/text/unicode/norm"
)

func TestBOMStripping(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected []byte
	}{
		{"with_bom", []byte{0xEF, 0xBB, 0xBF, 'h', 'e', 'l', 'l', 'o'}, []byte("hello")},
		{"without_bom", []byte("hello"), []byte("hello")},
		{"empty_with_bom", []byte{0xEF, 0xBB, 0xBF}, []byte{}},
		{"empty_without_bom", []byte{}, []byte{}},
		{"partial_bom", []byte{0xEF, 0xBB, 'h', 'i'}, []byte{0xEF, 0xBB, 'h', 'i'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize(tt.input)
			if !bytes.Equal(result, tt.expected) {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestNFCNormalization(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already_nfc", "café", "café"},
		{"nfd_to_nfc", "café", "café"},
		{"ascii_unchanged", "hello world", "hello world"},
		{"mixed_unicode", "naïve café", "naïve café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := string(Normalize([]byte(tt.input)))
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
			if !norm.NFC.IsNormalString(result) {
				t.Errorf("Result is not in NFC form")
			}
		})
	}
}

func TestBOMAndNFC(t *testing.T) {
	input := append(bomUTF8, []byte("café")...)
	expected := "café"

	result := string(Normalize(input))
	if result != expected {
		t.Errorf("Expected %q, got %q", expected, result)
	}
	if !norm.NFC.IsNormalString(result) {
		t.Errorf("Result is not in NFC form")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"hello", "café", "café", "﻿hello"}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first := Normalize([]byte(input))
			second := Normalize(first)
			if !bytes.Equal(first, second) {
				t.Errorf("Normalize is not idempotent: first=%q, second=%q", first, second)
			}
		})
	}
}

func tokenizeAll(src, file string) []token.Token {
	l := New(src, file, nil)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks
}

// TestCanaryDeterministicParsing ensures lexically equivalent source
// produces identical token streams regardless of encoding variations
// (LF vs CRLF, NFC vs NFD, with/without BOM).
func TestCanaryDeterministicParsing(t *testing.T) {
	variants := []struct {
		name  string
		input string
	}{
		{"lf_nfc", "var x = 42"},
		{"crlf_nfc", "var x = 42"},
		{"lf_nfd", "var café = 42"},
		{"crlf_nfd", "var café = 42"},
		{"bom_lf_nfc", "﻿var x = 42"},
	}
	variants[1].input = strings.ReplaceAll(variants[1].input, "\n", "\r\n")
	variants[3].input = strings.ReplaceAll(variants[3].input, "\n", "\r\n")

	var kindSeqs [][]token.Kind
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			normalized := Normalize([]byte(v.input))
			toks := tokenizeAll(string(normalized), "test.cxy")
			var kinds []token.Kind
			for _, tok := range toks {
				kinds = append(kinds, tok.Kind)
			}
			kindSeqs = append(kindSeqs, kinds)
		})
	}

	if len(kindSeqs) < 2 {
		t.Fatal("not enough variants tokenized")
	}
	baseline := kindSeqs[0]
	for i, kinds := range kindSeqs[1:] {
		if len(kinds) != len(baseline) {
			t.Fatalf("variant %d: token count mismatch: %d vs %d", i+1, len(kinds), len(baseline))
		}
		for j := range kinds {
			if kinds[j] != baseline[j] {
				t.Errorf("variant %d: token %d kind mismatch: %v vs %v", i+1, j, kinds[j], baseline[j])
			}
		}
	}
}

func TestNormalizePreservesTokenKinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"var_binding", "var x = 5"},
		{"unicode_identifier", "var café = 42"},
		{"string_literal", `"hello world"`},
		{"line_comment", "// a comment\nvar x = 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks1 := tokenizeAll(tt.input, "test.cxy")
			normalized := Normalize([]byte(tt.input))
			toks2 := tokenizeAll(string(normalized), "test.cxy")

			if len(toks1) != len(toks2) {
				t.Fatalf("token count mismatch: %d vs %d", len(toks1), len(toks2))
			}
			for i := range toks1 {
				if toks1[i].Kind != toks2[i].Kind {
					t.Errorf("token %d kind mismatch: %v vs %v", i, toks1[i].Kind, toks2[i].Kind)
				}
			}
		})
	}
}

func TestNormalizeDeterminism(t *testing.T) {
	input := []byte("﻿café")

	var results [][]byte
	for i := 0; i < 20; i++ {
		results = append(results, Normalize(input))
	}
	baseline := results[0]
	for i, result := range results[1:] {
		if !bytes.Equal(result, baseline) {
			t.Errorf("iteration %d produced different output", i+1)
		}
	}
}
</content>
