package mention

import (
	"strings"
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	// The concatenation of all token values must reproduce the input.
	inputs := []string{
		"",
		"plain text without mentions",
		"@alice",
		"hey @alice, meet @bob.jones!",
		"@a @b @a",
		"email-like not@amention stays split", // '@amention' is still a mention span
	}
	for _, in := range inputs {
		var sb strings.Builder
		for _, tok := range Parse(in) {
			sb.WriteString(tok.Value)
		}
		if sb.String() != in {
			t.Errorf("Parse(%q) round-trip: got %q", in, sb.String())
		}
	}
}

func TestParseTokenKinds(t *testing.T) {
	toks := Parse("hey @alice, meet @bob")
	want := []Token{
		{Kind: Text, Value: "hey "},
		{Kind: Mention, Value: "@alice", Username: "alice"},
		{Kind: Text, Value: ", meet "},
		{Kind: Mention, Value: "@bob", Username: "bob"},
	}
	if len(toks) != len(want) {
		t.Fatalf("tokens: got %d, want %d (%+v)", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i] != w {
			t.Errorf("token[%d]: got %+v, want %+v", i, toks[i], w)
		}
	}
}

func TestParseUsernameCharset(t *testing.T) {
	toks := Parse("@jo.na-than_99: hi")
	if len(toks) == 0 || toks[0].Kind != Mention {
		t.Fatalf("tokens: got %+v, want leading mention", toks)
	}
	if toks[0].Username != "jo.na-than_99" {
		t.Errorf("username: got %q, want %q", toks[0].Username, "jo.na-than_99")
	}
}

func TestUsernamesDistinctFirstSeen(t *testing.T) {
	got := Usernames("@bob and @alice and @bob again")
	want := []string{"bob", "alice"}
	if len(got) != len(want) {
		t.Fatalf("usernames: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("usernames[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}
