package task

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
)

// Decode parses a single object produced by Encode. The surrounding braces
// are optional and keys may come in any order. Decoding never fails: parsing
// stops at the first malformed token and the fields read so far are kept,
// the rest stay at their defaults.
func Decode(text string) *Task {
	t := New()
	sc := &scanner{src: text}
	sc.skipSpace()
	sc.consume('{')
	for {
		sc.skipSpace()
		if sc.eof() || sc.peek() == '}' {
			return t
		}
		key, ok := sc.key()
		if !ok {
			return t
		}
		sc.skipSpace()
		if !sc.consume(':') {
			return t
		}
		sc.skipSpace()
		val, scalar, ok := sc.value()
		if !ok {
			return t
		}
		if scalar {
			t.set(key, val)
		}
		sc.skipSpace()
		if !sc.consume(',') {
			return t
		}
	}
}

// SplitList strips the outer array brackets from a file body and returns the
// top-level objects in order. Braces inside quoted strings do not count
// toward nesting. An object cut off by the end of input is returned as is.
func SplitList(text string) []string {
	body := strings.TrimSpace(text)
	body = strings.TrimPrefix(body, "[")
	body = strings.TrimSuffix(body, "]")

	var objects []string
	depth, start := 0, 0
	inString, escaped := false, false
	for i := 0; i < len(body); i++ {
		c := body[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				objects = append(objects, body[start:i+1])
			}
		}
	}
	if depth > 0 {
		objects = append(objects, body[start:])
	}
	return objects
}

type scanner struct {
	src string
	pos int
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) consume(c byte) bool {
	if s.eof() || s.src[s.pos] != c {
		return false
	}
	s.pos++
	return true
}

func (s *scanner) skipSpace() {
	for !s.eof() {
		switch s.src[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

// key reads a quoted key, or a bare one up to the next colon.
func (s *scanner) key() (string, bool) {
	if s.peek() == '"' {
		return s.quoted()
	}
	end := strings.IndexAny(s.src[s.pos:], ":,}")
	if end <= 0 || s.src[s.pos+end] != ':' {
		return "", false
	}
	k := strings.TrimSpace(s.src[s.pos : s.pos+end])
	s.pos += end
	return k, k != ""
}

// value reads one value. Nested objects and arrays are skipped and reported
// as non-scalar.
func (s *scanner) value() (val string, scalar, ok bool) {
	switch s.peek() {
	case '"':
		v, ok := s.quoted()
		return v, true, ok
	case '{', '[':
		return "", false, s.skipNested()
	}
	end := strings.IndexAny(s.src[s.pos:], ",}")
	if end < 0 {
		end = len(s.src) - s.pos
	}
	v := strings.TrimSpace(s.src[s.pos : s.pos+end])
	s.pos += end
	return v, true, v != ""
}

// quoted reads a double-quoted string starting at the opening quote and
// returns it unescaped.
func (s *scanner) quoted() (string, bool) {
	s.pos++
	var b strings.Builder
	for !s.eof() {
		c := s.src[s.pos]
		s.pos++
		switch c {
		case '"':
			return b.String(), true
		case '\\':
			if s.eof() {
				return "", false
			}
			s.unescape(&b)
		default:
			b.WriteByte(c)
		}
	}
	return "", false
}

func (s *scanner) unescape(b *strings.Builder) {
	c := s.src[s.pos]
	s.pos++
	switch c {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'u':
		r, ok := s.hex4()
		if !ok {
			b.WriteString(`\u`)
			return
		}
		if utf16.IsSurrogate(r) && strings.HasPrefix(s.src[s.pos:], `\u`) {
			save := s.pos
			s.pos += 2
			if r2, ok := s.hex4(); ok {
				if dec := utf16.DecodeRune(r, r2); dec != unicode.ReplacementChar {
					b.WriteRune(dec)
					return
				}
			}
			s.pos = save
		}
		b.WriteRune(r)
	default:
		// \" \\ \/ and anything unknown decode to the character itself.
		b.WriteByte(c)
	}
}

func (s *scanner) hex4() (rune, bool) {
	if s.pos+4 > len(s.src) {
		return 0, false
	}
	n, err := strconv.ParseUint(s.src[s.pos:s.pos+4], 16, 16)
	if err != nil {
		return 0, false
	}
	s.pos += 4
	return rune(n), true
}

func (s *scanner) skipNested() bool {
	depth := 0
	for !s.eof() {
		c := s.src[s.pos]
		switch c {
		case '"':
			if _, ok := s.quoted(); !ok {
				return false
			}
			continue
		case '{', '[':
			depth++
		case '}', ']':
			depth--
		}
		s.pos++
		if depth == 0 {
			return true
		}
	}
	return false
}
