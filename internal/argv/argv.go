// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package argv partitions raw command-line tokens into pass-through option
// tokens and a single positional subject. The option tokens are opaque: they
// are forwarded to the external notation parser untouched, so no token is
// ever split on "=" and no values are interpreted here.
package argv

import "strings"

// Partition walks tokens in order and splits them into options and the
// subject. Any token with a leading hyphen is an option token; this includes
// bare "-" and "--", "="-attached values ("--snippet=3"), and
// negative-looking values ("-1"), which stay adjacent to their flag because
// option order is preserved. The first token without a leading hyphen becomes
// the subject; later hyphen-less tokens are stragglers appended to options at
// the position they were encountered, never a second subject.
//
// valueFlags names the options that consume their following token as a value
// ("--snippet 2"): the value goes to options instead of being taken for the
// subject. Only the exact spaced form needs registering; the "=" form is a
// single token either way.
//
// Partition is total: it never fails, and every input token lands in exactly
// one of the two outputs. found is false when no subject was seen; callers
// must treat that as a usage error before invoking any external tool.
func Partition(tokens []string, valueFlags ...string) (options []string, subject string, found bool) {
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case strings.HasPrefix(tok, "-"):
			options = append(options, tok)
			if takesValue(tok, valueFlags) && i+1 < len(tokens) {
				i++
				options = append(options, tokens[i])
			}
		case !found:
			subject, found = tok, true
		default:
			options = append(options, tok)
		}
	}
	return options, subject, found
}

func takesValue(tok string, valueFlags []string) bool {
	for _, name := range valueFlags {
		if tok == name {
			return true
		}
	}
	return false
}

// HasFlag reports whether any of names appears in options, either exactly or
// as a "name=value" token.
func HasFlag(options []string, names ...string) bool {
	for _, opt := range options {
		for _, name := range names {
			if opt == name || strings.HasPrefix(opt, name+"=") {
				return true
			}
		}
	}
	return false
}
