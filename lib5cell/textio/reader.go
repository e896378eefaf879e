// Package textio reads the whitespace-delimited, line-oriented text dumps used for pairings and search states.
package textio

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/2x3systems/go5cell/go5cell"
	"github.com/pkg/errors"
)

// Reader hands out tokens one at a time while still allowing whole-line reads.
//
// Tokens flow across line breaks.  A line read returns whatever remains of the
// current line, or the next physical line if the current one is used up.
type Reader struct {
	br     *bufio.Reader
	fields []string
	pos    int
	eof    bool
}

func NewReader(r io.Reader) *Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return &Reader{br: br}
	}
	return &Reader{br: bufio.NewReader(r)}
}

func (r *Reader) readPhysicalLine() (string, error) {
	if r.eof {
		return "", io.ErrUnexpectedEOF
	}
	line, err := r.br.ReadString('\n')
	if err == io.EOF {
		r.eof = true
		if len(line) == 0 {
			return "", io.ErrUnexpectedEOF
		}
		err = nil
	}
	return strings.TrimRight(line, "\r\n"), err
}

// NonEmptyLine skips blank lines and returns the next line with content, trimmed.
// Any unread tokens on the current line are discarded.
func (r *Reader) NonEmptyLine() (string, error) {
	r.fields, r.pos = nil, 0
	for {
		line, err := r.readPhysicalLine()
		if err != nil {
			return "", err
		}
		if line = strings.TrimSpace(line); len(line) > 0 {
			return line, nil
		}
	}
}

// Token returns the next whitespace-delimited token, crossing line breaks as needed.
func (r *Reader) Token() (string, error) {
	for r.pos >= len(r.fields) {
		line, err := r.readPhysicalLine()
		if err != nil {
			return "", err
		}
		r.fields, r.pos = strings.Fields(line), 0
	}
	tok := r.fields[r.pos]
	r.pos++
	return tok, nil
}

// Int reads the next token as an integer, naming field in any error.
func (r *Reader) Int(field string) (int, error) {
	tok, err := r.Token()
	if err != nil {
		return 0, errors.Wrapf(go5cell.ErrInvalidInput, "unexpected end of input reading %s", field)
	}
	val, err := strconv.Atoi(tok)
	if err != nil {
		return 0, errors.Wrapf(go5cell.ErrInvalidInput, "%s: %q is not an integer", field, tok)
	}
	return val, nil
}

// IntIn reads an integer and checks that lo <= val < hi.
func (r *Reader) IntIn(field string, lo, hi int) (int, error) {
	val, err := r.Int(field)
	if err != nil {
		return 0, err
	}
	if val < lo || val >= hi {
		return 0, errors.Wrapf(go5cell.ErrInvalidInput, "%s out of range: %d", field, val)
	}
	return val, nil
}

// LineInts returns the integers on the rest of the current line, or on the next line if the current one is used up.
func (r *Reader) LineInts(field string) ([]int, error) {
	var toks []string
	if r.pos < len(r.fields) {
		toks = r.fields[r.pos:]
	} else {
		line, err := r.readPhysicalLine()
		if err != nil {
			return nil, errors.Wrapf(go5cell.ErrInvalidInput, "unexpected end of input reading %s", field)
		}
		toks = strings.Fields(line)
	}
	r.fields, r.pos = nil, 0

	vals := make([]int, len(toks))
	for i, tok := range toks {
		val, err := strconv.Atoi(tok)
		if err != nil {
			return nil, errors.Wrapf(go5cell.ErrInvalidInput, "%s: %q is not an integer", field, tok)
		}
		vals[i] = val
	}
	return vals, nil
}

// Char returns the next non-whitespace byte.
func (r *Reader) Char(field string) (byte, error) {
	tok, err := r.Token()
	if err != nil {
		return 0, errors.Wrapf(go5cell.ErrInvalidInput, "unexpected end of input reading %s", field)
	}
	c := tok[0]
	if len(tok) > 1 {
		// Put the remainder back so flag characters may be run together.
		r.pos--
		r.fields[r.pos] = tok[1:]
	}
	return c, nil
}
