package easyconfig

import (
	"bytes"
	"strings"
)

// normalize rewrites Python forms the Starlark grammar rejects into forms it
// accepts:
//
//	'a' 'b'          implicit concatenation becomes 'a'+'b'
//	f'..', u'..'     the prefix is dropped; R, B and br become r, b and rb
//	x is y           becomes x == y, and is not becomes !=
//	a = b = v        chained assignment becomes a , b = v
//	import m         import and from-import statements become pass
//
// Every edit overwrites bytes in place with ASCII of the same length, so line
// and column positions in the result match the input. Source the tokenizer
// cannot follow is returned unchanged for the parser to report.
func normalize(src []byte) []byte {
	toks, ok := tokenize(src)
	if !ok {
		return src
	}

	out := bytes.Clone(src)
	for i, t := range toks {
		switch t.kind {
		case tokString:
			rewritePrefix(out[t.start:t.quote])
			if i > 0 && toks[i-1].kind == tokString {
				joinStrings(out, toks[i-1].end, t.start)
			}
		case tokName:
			if t.text(src) != "is" {
				continue
			}
			if i+1 < len(toks) && toks[i+1].kind == tokName && toks[i+1].text(src) == "not" {
				copy(out[t.start:], "!=")
				blank(out, toks[i+1].start, toks[i+1].end)
			} else {
				copy(out[t.start:], "==")
			}
		}
	}

	for _, stmt := range statements(toks, src) {
		rewriteStatement(out, src, stmt)
	}
	return out
}

type tokenKind int

const (
	tokName tokenKind = iota
	tokString
	tokNumber
	tokOp
	tokNewline
)

type token struct {
	kind       tokenKind
	start, end int // byte offsets; a string starts at its prefix
	quote      int // offset of a string's opening quote
	depth      int // bracket depth before the token
}

func (t token) text(src []byte) string {
	return string(src[t.start:t.end])
}

// multiByteOps lists operators longer than one byte, longest first.
var multiByteOps = []string{
	"**=", "//=", ">>=", "<<=",
	"**", "//", ">>", "<<", "==", "!=", "<=", ">=", "->",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
}

// tokenize splits Python source into the tokens normalize needs. Newlines are
// tokens only outside brackets, where they end a logical line.
func tokenize(src []byte) ([]token, bool) {
	var toks []token
	depth := 0
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\f' || c == '\r':
			i++

		case c == '\\':
			j := i + 1
			if j < len(src) && src[j] == '\r' {
				j++
			}
			if j >= len(src) || src[j] != '\n' {
				return nil, false
			}
			i = j + 1

		case c == '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}

		case c == '\n':
			if depth == 0 {
				toks = append(toks, token{kind: tokNewline, start: i, end: i + 1})
			}
			i++

		case c == '\'' || c == '"':
			end, ok := scanString(src, i)
			if !ok {
				return nil, false
			}
			toks = append(toks, token{kind: tokString, start: i, quote: i, end: end, depth: depth})
			i = end

		case isIdentByte(c):
			j := i
			for j < len(src) && (isIdentByte(src[j]) || isDigit(src[j])) {
				j++
			}
			if j < len(src) && (src[j] == '\'' || src[j] == '"') && isStringPrefix(src[i:j]) {
				end, ok := scanString(src, j)
				if !ok {
					return nil, false
				}
				toks = append(toks, token{kind: tokString, start: i, quote: j, end: end, depth: depth})
				i = end
				continue
			}
			toks = append(toks, token{kind: tokName, start: i, end: j, depth: depth})
			i = j

		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			j := i
			for j < len(src) && (isDigit(src[j]) || isIdentByte(src[j]) || src[j] == '.') {
				j++
			}
			toks = append(toks, token{kind: tokNumber, start: i, end: j, depth: depth})
			i = j

		default:
			n := 1
			for _, op := range multiByteOps {
				if bytes.HasPrefix(src[i:], []byte(op)) {
					n = len(op)
					break
				}
			}
			toks = append(toks, token{kind: tokOp, start: i, end: i + n, depth: depth})
			switch c {
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				if depth > 0 {
					depth--
				}
			}
			i += n
		}
	}
	return toks, true
}

// scanString returns the offset just past the string literal whose opening
// quote is at q.
func scanString(src []byte, q int) (int, bool) {
	quote := src[q]
	triple := q+2 < len(src) && src[q+1] == quote && src[q+2] == quote
	i := q + 1
	if triple {
		i = q + 3
	}
	for i < len(src) {
		switch c := src[i]; {
		case c == '\\':
			i += 2
		case c == quote:
			if !triple {
				return i + 1, true
			}
			if i+2 < len(src) && src[i+1] == quote && src[i+2] == quote {
				return i + 3, true
			}
			i++
		case c == '\n' && !triple:
			return 0, false
		default:
			i++
		}
	}
	return 0, false
}

func isStringPrefix(p []byte) bool {
	lower := strings.ToLower(string(p))
	switch len(lower) {
	case 1:
		return strings.ContainsAny(lower, "rubf")
	case 2:
		return lower == "br" || lower == "rb" || lower == "fr" || lower == "rf"
	}
	return false
}

// rewritePrefix turns a Python string prefix into the r, b or rb prefix
// Starlark accepts, right-aligned against the quote.
func rewritePrefix(p []byte) {
	if len(p) == 0 {
		return
	}
	var raw, byteLit bool
	for _, c := range p {
		switch c | 0x20 {
		case 'r':
			raw = true
		case 'b':
			byteLit = true
		}
	}
	kept := ""
	if raw {
		kept = "r"
	}
	if byteLit {
		kept += "b"
	}
	copy(p, strings.Repeat(" ", len(p)-len(kept))+kept)
}

// joinStrings places a '+' on the last blank between two adjacent string
// literals that is not inside a comment. Literals with nothing between them
// stay adjacent.
func joinStrings(out []byte, from, to int) {
	pos := -1
	inComment := false
	for i := from; i < to; i++ {
		switch out[i] {
		case '#':
			inComment = true
		case '\n':
			inComment = false
		case ' ', '\t':
			if !inComment {
				pos = i
			}
		}
	}
	if pos >= 0 {
		out[pos] = '+'
	}
}

// statements groups tokens into simple statements, split at logical line
// ends and top-level semicolons.
func statements(toks []token, src []byte) [][]token {
	var stmts [][]token
	start := 0
	for i, t := range toks {
		if t.kind == tokNewline || (t.kind == tokOp && t.depth == 0 && src[t.start] == ';') {
			if i > start {
				stmts = append(stmts, toks[start:i])
			}
			start = i + 1
		}
	}
	if start < len(toks) {
		stmts = append(stmts, toks[start:])
	}
	return stmts
}

func rewriteStatement(out, src []byte, stmt []token) {
	first := stmt[0]
	if first.kind == tokName {
		switch first.text(src) {
		case "import", "from":
			blank(out, first.start, stmt[len(stmt)-1].end)
			copy(out[first.start:], "pass")
			return
		}
	}

	var assigns []token
	for _, t := range stmt {
		switch {
		case t.kind == tokName && t.text(src) == "lambda":
			// Default values in lambda parameters are top-level '=' too.
			return
		case t.kind == tokOp && t.depth == 0 && t.text(src) == "=":
			assigns = append(assigns, t)
		}
	}
	for _, t := range assigns[:max(len(assigns)-1, 0)] {
		out[t.start] = ','
	}
}

// blank overwrites out[from:to] with spaces, keeping line breaks.
func blank(out []byte, from, to int) {
	for i := from; i < to; i++ {
		if out[i] != '\n' && out[i] != '\r' {
			out[i] = ' '
		}
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
