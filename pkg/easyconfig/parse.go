// Package easyconfig parses EasyBuild easyconfig files into syntax trees.
//
// Easyconfigs are Python-syntax assignment scripts. They are parsed with the
// Starlark grammar, a Python dialect, after the Python-only forms found in
// easyconfigs (implicit string concatenation, string prefixes, is, chained
// assignment, imports) are rewritten in place. Statements Starlark has no
// equivalent for, such as try/except, with and class, are parse errors.
// Parsing never executes the file.
package easyconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.starlark.net/syntax"
)

// Extension is the file extension of easyconfig files.
const Extension = ".eb"

// parseOptions enables every statement form at top level. The options only
// affect name resolution, which is never run, but keep the parser permissive
// should that change.
var parseOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
}

// ParseError reports a syntax error in an easyconfig file. Column is a
// 0-based byte offset, like diagnostic columns.
type ParseError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	}
	return "parse " + e.File + ": " + e.Message
}

// Parse statically parses easyconfig source. The filename is only used for
// position information.
func Parse(filename string, src []byte) (*syntax.File, error) {
	src = normalize(src)
	f, err := parseOptions.Parse(filename, src, syntax.RetainComments)
	if err != nil {
		var serr syntax.Error
		if errors.As(err, &serr) {
			return nil, &ParseError{
				File:    filename,
				Line:    int(serr.Pos.Line),
				Column:  Column(src, serr.Pos),
				Message: serr.Msg,
			}
		}
		return nil, &ParseError{File: filename, Message: err.Error()}
	}
	return f, nil
}

// Column converts the rune-based column of pos into the 0-based UTF-8 byte
// offset within its line, the convention of Python's col_offset.
func Column(src []byte, pos syntax.Position) int {
	if pos.Line < 1 || pos.Col < 1 {
		return 0
	}
	off := 0
	for line := int32(1); line < pos.Line; line++ {
		i := bytes.IndexByte(src[off:], '\n')
		if i < 0 {
			return int(pos.Col) - 1
		}
		off += i + 1
	}

	col := 0
	rest := src[off:]
	for r := int32(1); r < pos.Col && len(rest) > 0 && rest[0] != '\n'; r++ {
		_, size := utf8.DecodeRune(rest)
		col += size
		rest = rest[size:]
	}
	return col
}

// ParseFile reads and parses the easyconfig at path.
func ParseFile(path string) (*syntax.File, error) {
	src, err := os.ReadFile(path) //nolint:gosec // path comes from the user's command line
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(path, src)
}

// IsEasyconfig reports whether path looks like an easyconfig file.
func IsEasyconfig(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Extension)
}
