package format

import (
	"testing"

	"github.com/coalg/boa"
)

func TestParseFormatRoundTrip(t *testing.T) {
	cases := []string{
		"@12",
		"List[0]{@12,@13,@14}",
		"Set[123]{}",
		"Add[0]{@0:5,@1:6}",
		"Or[0]{@0:5}",
		"Max[0]{}",
		"Tag[1]{@0:1,@1:2}",
	}
	for _, s := range cases {
		node, rest, err := ParseNode([]byte(s))
		if err != nil {
			t.Fatalf("ParseNode(%q): %v", s, err)
		}
		if len(rest) != 0 {
			t.Fatalf("ParseNode(%q) left unconsumed input %q", s, rest)
		}
		if got := NodeString(node); got != s {
			t.Fatalf("round trip mismatch: %q -> %q", s, got)
		}
	}
}

func TestParseNodeTrailingInput(t *testing.T) {
	node, rest, err := ParseNode([]byte("List[0]{@1,@2}tail"))
	if err != nil {
		t.Fatal(err)
	}
	if string(rest) != "tail" {
		t.Fatalf("rest = %q, want \"tail\"", rest)
	}
	coll, ok := node.(boa.Coll)
	if !ok || len(coll.Children) != 2 {
		t.Fatalf("unexpected node %#v", node)
	}
}

func TestParseNodeRejectsMalformedInput(t *testing.T) {
	cases := []string{"", "Bogus[0]{}", "List[0]{@1", "@"}
	for _, s := range cases {
		if _, _, err := ParseNode([]byte(s)); err == nil {
			t.Fatalf("ParseNode(%q) should have failed", s)
		}
	}
}
