// SPDX-License-Identifier: MIT

// Package props implements the flat properties text format: one key=value
// pair per line, '#' or '!' full-line comments, '=' or ':' separators,
// backslash escapes and line continuations.
package props

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Parse decodes the whole stream into a key/value mapping. A key that
// appears more than once keeps its last value.
func Parse(r io.Reader) (map[string]string, error) {
	out := make(map[string]string)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var logical strings.Builder
	cont := false
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Text()
		if cont {
			raw = strings.TrimLeft(raw, " \t\f")
		} else {
			raw = strings.TrimLeft(raw, " \t\f")
			if raw == "" || raw[0] == '#' || raw[0] == '!' {
				continue
			}
		}
		if trailingBackslashes(raw)%2 == 1 {
			logical.WriteString(raw[:len(raw)-1])
			cont = true
			continue
		}
		logical.WriteString(raw)
		key, val, err := splitPair(logical.String())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out[key] = val
		logical.Reset()
		cont = false
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	// A trailing backslash on the final line continues into nothing.
	if logical.Len() > 0 {
		key, val, err := splitPair(logical.String())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out[key] = val
	}
	return out, nil
}

// Write encodes m one key=value pair per line, keys in sorted order and no
// timestamp header, so encoding the same mapping twice yields identical
// bytes.
func Write(w io.Writer, m map[string]string) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bw := bufio.NewWriter(w)
	for _, k := range keys {
		bw.WriteString(escape(k, true))
		bw.WriteByte('=')
		bw.WriteString(escape(m[k], false))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// trailingBackslashes counts the backslashes at the end of s. An odd count
// means the final one escapes the line terminator.
func trailingBackslashes(s string) int {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n
}

// splitPair separates a logical line into key and value. The key ends at
// the first unescaped '=', ':' or whitespace; a line with no separator is
// a key with an empty value.
func splitPair(s string) (key, value string, err error) {
	keyEnd := -1
	sepSeen := false
	esc := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if esc {
			esc = false
			continue
		}
		switch c {
		case '\\':
			esc = true
		case '=', ':':
			keyEnd = i
			sepSeen = true
		case ' ', '\t', '\f':
			keyEnd = i
		}
		if keyEnd >= 0 {
			break
		}
	}
	if keyEnd < 0 {
		key, err = unescape(s)
		return key, "", err
	}

	rawKey := s[:keyEnd]
	rest := s[keyEnd:]
	if sepSeen {
		rest = rest[1:]
	} else {
		// Whitespace separator, optionally followed by '=' or ':'.
		rest = strings.TrimLeft(rest, " \t\f")
		if rest != "" && (rest[0] == '=' || rest[0] == ':') {
			rest = rest[1:]
		}
	}
	rest = strings.TrimLeft(rest, " \t\f")
	rest = trimTrailingSpace(rest)

	if key, err = unescape(rawKey); err != nil {
		return "", "", err
	}
	if value, err = unescape(rest); err != nil {
		return "", "", err
	}
	return key, value, nil
}

// trimTrailingSpace removes unescaped trailing whitespace. A final space
// preceded by a backslash is part of the value and survives.
func trimTrailingSpace(s string) string {
	end := len(s)
	for end > 0 && (s[end-1] == ' ' || s[end-1] == '\t' || s[end-1] == '\f') {
		end--
	}
	if end > 0 && end < len(s) && trailingBackslashes(s[:end])%2 == 1 {
		end++
	}
	return s[:end]
}

func unescape(s string) (string, error) {
	if !strings.Contains(s, "\\") {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			break
		}
		switch s[i] {
		case 't':
			b.WriteByte('\t')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 'f':
			b.WriteByte('\f')
		case 'u':
			if i+4 >= len(s) {
				return "", fmt.Errorf("truncated \\u escape in %q", s)
			}
			code, err := strconv.ParseUint(s[i+1:i+5], 16, 32)
			if err != nil {
				return "", fmt.Errorf("invalid \\u escape %q", s[i-1:i+5])
			}
			b.WriteRune(rune(code))
			i += 4
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String(), nil
}

// escape renders a key or value so that parsing it back yields the exact
// original text. Keys escape every space so the key/value boundary stays
// unambiguous; values only need their leading and trailing spaces
// protected, since the parser trims unescaped surrounding whitespace.
func escape(s string, isKey bool) string {
	lead := len(s) - len(strings.TrimLeft(s, " "))
	trail := len(strings.TrimRight(s, " "))

	var b strings.Builder
	b.Grow(len(s))
	for i, r := range s {
		switch r {
		case ' ':
			if isKey || i < lead || i >= trail {
				b.WriteString("\\ ")
			} else {
				b.WriteByte(' ')
			}
		case '\t':
			b.WriteString("\\t")
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		case '\f':
			b.WriteString("\\f")
		case '\\':
			b.WriteString("\\\\")
		case '=', ':', '#', '!':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, "\\u%04x", r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
