package lsp

import (
	"regexp"
	"strings"
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into the SemanticTokenTypes array
// TokenModifiers is a bitmask based on SemanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int // index into SemanticTokenTypes
	TokenModifiers int // bitmask
}

// valueRef matches local (%) and global (@) names, quoted or not.
var valueRef = regexp.MustCompile(`[%@](?:"[^"]*"|[-a-zA-Z$._0-9]+)`)

// collectSemanticTokens marks the names used inside function definitions:
// arguments as "parameter", other locals as "variable" and globals as
// "function". Names on the define line are declarations.
func collectSemanticTokens(doc *document) []SemanticToken {
	var tokens []SemanticToken

	if doc == nil {
		return tokens
	}

	for i := range doc.Functions {
		tokens = append(tokens, walkFunction(doc, &doc.Functions[i])...)
	}

	return tokens
}

func walkFunction(doc *document, f *function) []SemanticToken {
	var tokens []SemanticToken

	for line := f.Start; line <= f.End && line < len(doc.Lines); line++ {
		text := stripComment(doc.Lines[line])

		for _, loc := range valueRef.FindAllStringIndex(text, -1) {
			ref := text[loc[0]:loc[1]]
			name := strings.Trim(ref[1:], `"`)

			declaration := 0
			if line == f.Start || isDefinition(text, loc[1]) {
				declaration = 1
			}

			tokenType := "variable"
			switch {
			case ref[0] == '@':
				tokenType = "function"
				declaration = 0
				if line == f.Start && name == f.Name {
					declaration = 1
				}
			case hasParam(f, name):
				tokenType = "parameter"
			}

			tokens = append(tokens, makeToken(line, loc[0], loc[1]-loc[0], tokenType, declaration))
		}
	}

	return tokens
}

func hasParam(f *function, name string) bool {
	_, ok := f.Params[name]
	return ok
}

// isDefinition reports whether the name ending at end is the left-hand side
// of an instruction, e.g. "%sum = add ...".
func isDefinition(text string, end int) bool {
	return strings.HasPrefix(strings.TrimLeft(text[end:], " \t"), "=")
}

// stripComment drops a trailing "; comment". Semicolons inside quoted names
// are kept.
func stripComment(line string) string {
	quoted := false
	for i, r := range line {
		switch r {
		case '"':
			quoted = !quoted
		case ';':
			if !quoted {
				return line[:i]
			}
		}
	}
	return line
}

// makeToken creates a semantic token for a given position and length
func makeToken(line, start, length int, tokenType string, declModifier int) SemanticToken {
	return SemanticToken{
		Line:           uint32(line),
		StartChar:      uint32(start),
		Length:         uint32(length),
		TokenType:      indexOf(tokenType, SemanticTokenTypes),
		TokenModifiers: declModifier << indexOf("declaration", SemanticTokenModifiers),
	}
}

// encodeSemanticTokens encodes tokens into the LSP wire format (delta-line,
// delta-start compression)
func encodeSemanticTokens(tokens []SemanticToken) []uint32 {
	var data []uint32
	var prevLine, prevStart uint32

	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		} else {
			deltaStart = token.StartChar
		}

		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}

	return data
}

// indexOf returns the index of a string in a slice, or 0 if not found
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return 0
}
