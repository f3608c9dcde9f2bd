package lexer

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/pontaoski/splatgo/errors"
	"github.com/pontaoski/splatgo/types"
	"github.com/ztrue/tracerr"
)

type Lexer struct {
	pos    types.Position
	reader *bufio.Reader
	line   []rune
	tokens []types.Token
}

func NewLexer(reader io.Reader, filename string) *Lexer {
	return &Lexer{
		pos:    types.Position{Line: 0, Column: 1, Filename: filename},
		reader: bufio.NewReader(reader),
	}
}

func (l *Lexer) newline(text string) {
	l.pos.Line++
	l.pos.Column = 1
	l.line = []rune(strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r"))
}

func (l *Lexer) at(col int) types.Position {
	p := l.pos
	p.Column = col
	return p
}

func (l *Lexer) kinded(k types.TokenKind, from, to int) {
	l.tokens = append(l.tokens, types.Token{
		Kind:     k,
		Value:    string(l.line[from:to]),
		Location: l.at(from + 1),
	})
}

func (l *Lexer) fail(msg string, idx int) error {
	return errors.LexError{Message: msg, Location: l.at(idx + 1)}
}

func identChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func allDigits(rs []rune) bool {
	for _, r := range rs {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var delimiters = map[rune]types.TokenKind{
	'+': types.OPERATOR,
	'-': types.OPERATOR,
	'*': types.OPERATOR,
	'/': types.OPERATOR,
	'%': types.OPERATOR,
	'=': types.OPERATOR,
	'<': types.OPERATOR,
	'>': types.OPERATOR,
	'(': types.DELIMITER,
	')': types.DELIMITER,
	';': types.DELIMITER,
	',': types.DELIMITER,
	':': types.DELIMITER,
}

// twoChar lists the operators matched greedily; the bool marks the ones
// that may not be followed by another '='.
var twoChar = map[string]bool{
	"==": true,
	"<=": true,
	">=": true,
	":=": false,
}

// lexString is called with idx on the opening quote and returns the index
// just past the closing one.
func (l *Lexer) lexString(idx int) (int, error) {
	for i := idx + 1; i < len(l.line); i++ {
		switch l.line[i] {
		case '"':
			return i + 1, nil
		case '\\', '\r':
			return 0, l.fail("Invalid character in string literal: "+string(l.line[i]), idx)
		}
	}

	return 0, l.fail("Unfinished string literal", idx)
}

func (l *Lexer) lexLine() error {
	i := 0
	for i < len(l.line) {
		r := l.line[i]

		switch {
		case unicode.IsSpace(r):
			i++
		case r == '"':
			end, err := l.lexString(i)
			if err != nil {
				return err
			}
			l.kinded(types.STRING, i, end)
			i = end
		case identChar(r):
			end := i
			for end < len(l.line) && identChar(l.line[end]) {
				end++
			}
			word := l.line[i:end]
			switch {
			case allDigits(word):
				l.kinded(types.INT, i, end)
			case types.IsKeyword(string(word)):
				l.kinded(types.KEYWORD, i, end)
			default:
				l.kinded(types.IDENT, i, end)
			}
			i = end
		default:
			kind, ok := delimiters[r]
			if !ok {
				return l.fail("Invalid character: "+string(r), i)
			}
			if i+1 < len(l.line) {
				pair := string(l.line[i : i+2])
				if noTrailingEq, ok := twoChar[pair]; ok {
					if noTrailingEq && i+2 < len(l.line) && l.line[i+2] == '=' {
						return l.fail("Invalid operator sequence: "+pair+"=", i)
					}
					l.kinded(types.OPERATOR, i, i+2)
					i += 2
					continue
				}
			}
			l.kinded(kind, i, i+1)
			i++
		}
	}

	return nil
}

// Tokenize reads the whole source and returns its tokens in order.
func (l *Lexer) Tokenize() ([]types.Token, error) {
	l.tokens = nil

	for {
		text, err := l.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, tracerr.Wrap(errors.LexError{
				Message:  "Error reading file: " + err.Error(),
				Location: types.Position{Line: 1, Column: 1, Filename: l.pos.Filename},
			})
		}
		if text == "" && err == io.EOF {
			break
		}

		l.newline(text)
		if lerr := l.lexLine(); lerr != nil {
			return nil, tracerr.Wrap(lerr)
		}

		if err == io.EOF {
			break
		}
	}

	return l.tokens, nil
}
