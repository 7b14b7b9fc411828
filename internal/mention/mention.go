// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mention tokenizes @mention spans out of comment text. It is a
// pure text-to-token-list function so templates can highlight mentions
// and link them to profiles without regex logic at render sites.
package mention

import "regexp"

// Kind discriminates token types.
type Kind int

const (
	Text Kind = iota
	Mention
)

// Token is one span of comment text. For Mention tokens, Value includes
// the leading '@' and Username is the bare name.
type Token struct {
	Kind     Kind
	Value    string
	Username string
}

// mentionRe matches @username spans. Usernames are word characters,
// dots, and hyphens, matching the upstream's username charset.
var mentionRe = regexp.MustCompile(`@([A-Za-z0-9_][A-Za-z0-9_.-]*)`)

// Parse splits comment text into an ordered list of text and mention
// tokens. Adjacent text is never merged with mentions; the concatenation
// of all token Values reproduces the input exactly.
func Parse(s string) []Token {
	if s == "" {
		return nil
	}

	var tokens []Token
	last := 0
	for _, loc := range mentionRe.FindAllStringSubmatchIndex(s, -1) {
		if loc[0] > last {
			tokens = append(tokens, Token{Kind: Text, Value: s[last:loc[0]]})
		}
		tokens = append(tokens, Token{
			Kind:     Mention,
			Value:    s[loc[0]:loc[1]],
			Username: s[loc[2]:loc[3]],
		})
		last = loc[1]
	}
	if last < len(s) {
		tokens = append(tokens, Token{Kind: Text, Value: s[last:]})
	}
	return tokens
}

// Usernames returns the distinct mentioned usernames in first-seen order.
func Usernames(s string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, tok := range Parse(s) {
		if tok.Kind != Mention || seen[tok.Username] {
			continue
		}
		seen[tok.Username] = true
		names = append(names, tok.Username)
	}
	return names
}
