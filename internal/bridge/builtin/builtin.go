// Package builtin provides bridges compiled into toolrt.
package builtin

import (
	"strings"
	"unicode"

	"github.com/bobmcallan/toolrt/internal/bridge"
)

// Register adds every built-in bridge to reg.
func Register(reg *bridge.Registry) error {
	for name, f := range map[string]bridge.Factory{
		"rot13":          func() any { return &rot13{} },
		"change-case":    func() any { return &changeCase{} },
		"reverse-string": func() any { return &reverseString{} },
	} {
		if err := reg.Register(name, f); err != nil {
			return err
		}
	}
	return nil
}

// rot13 rotates ASCII letters by 13 places.
type rot13 struct {
	buf strings.Builder
}

func (r *rot13) Transform(_ *bridge.Context, input string) (string, error) {
	r.buf.Reset()
	r.buf.Grow(len(input))
	for _, c := range input {
		switch {
		case c >= 'a' && c <= 'z':
			c = 'a' + (c-'a'+13)%26
		case c >= 'A' && c <= 'Z':
			c = 'A' + (c-'A'+13)%26
		}
		r.buf.WriteRune(c)
	}
	return r.buf.String(), nil
}

// changeCase upper-cases its input when the "uppercase" checkbox is set and
// lower-cases it when "lowercase" is set.
type changeCase struct{}

func (changeCase) Transform(rc *bridge.Context, input string) (string, error) {
	opts := rc.Snapshot()
	switch {
	case opts.Bool("uppercase"):
		return strings.ToUpper(input), nil
	case opts.Bool("lowercase"):
		return strings.ToLower(input), nil
	}
	return input, nil
}

// reverseString reverses characters, or words when the "unit" option is
// "words".
type reverseString struct{}

func (reverseString) Transform(rc *bridge.Context, input string) (string, error) {
	if rc.Snapshot().String("unit") == "words" {
		words := strings.FieldsFunc(input, unicode.IsSpace)
		for i, j := 0, len(words)-1; i < j; i, j = i+1, j-1 {
			words[i], words[j] = words[j], words[i]
		}
		return strings.Join(words, " "), nil
	}
	runes := []rune(input)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes), nil
}
