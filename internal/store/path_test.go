package store

import "testing"

func TestRootPath(t *testing.T) {
	p := RootPath(7)
	if p.String() != "7" {
		t.Fatalf("expected '7', got %q", p.String())
	}
	if p.Depth() != 1 {
		t.Fatalf("expected depth 1, got %d", p.Depth())
	}
	if p.Last() != 7 {
		t.Fatalf("expected last 7, got %d", p.Last())
	}
}

func TestChildPath(t *testing.T) {
	parent := Path{1, 2}
	p := ChildPath(parent, 3)
	if p.String() != "1.2.3" {
		t.Fatalf("expected '1.2.3', got %q", p.String())
	}
	if parent.String() != "1.2" {
		t.Fatalf("parent mutated: %q", parent.String())
	}
	if p.Depth() != 3 {
		t.Fatalf("expected depth 3, got %d", p.Depth())
	}
}

func TestChildPath_DoesNotAliasParent(t *testing.T) {
	parent := make(Path, 1, 4)
	parent[0] = 1
	a := ChildPath(parent, 2)
	b := ChildPath(parent, 3)
	if a.String() != "1.2" || b.String() != "1.3" {
		t.Fatalf("sibling paths alias each other: %q %q", a, b)
	}
}

func TestParsePath(t *testing.T) {
	p, err := ParsePath("1.2.3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Depth() != 3 || p[0] != 1 || p[1] != 2 || p[2] != 3 {
		t.Fatalf("unexpected path: %v", p)
	}
}

func TestParsePath_Invalid(t *testing.T) {
	for _, s := range []string{"", "a.b", "1..2", "1.x"} {
		if _, err := ParsePath(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestPathHasPrefix(t *testing.T) {
	p := Path{1, 2, 3}
	if !p.HasPrefix(Path{1, 2}) {
		t.Fatal("expected 1.2 to prefix 1.2.3")
	}
	if !p.HasPrefix(p) {
		t.Fatal("expected path to prefix itself")
	}
	if p.HasPrefix(Path{2}) {
		t.Fatal("did not expect 2 to prefix 1.2.3")
	}
	if p.HasPrefix(Path{1, 2, 3, 4}) {
		t.Fatal("did not expect longer path to be a prefix")
	}
}

func TestDepthRangePattern_Unanchored(t *testing.T) {
	pt := DepthRangePattern(nil, 1, 1)
	if pt.Lquery() != "*{1,1}" {
		t.Fatalf("unexpected lquery: %q", pt.Lquery())
	}
	if !pt.Matches(Path{5}) {
		t.Fatal("expected root path to match [1,1]")
	}
	if pt.Matches(Path{5, 6}) {
		t.Fatal("did not expect depth-2 path to match [1,1]")
	}
}

func TestDepthRangePattern_UnanchoredRange(t *testing.T) {
	pt := DepthRangePattern(nil, 1, 3)
	if pt.Lquery() != "*{1,3}" {
		t.Fatalf("unexpected lquery: %q", pt.Lquery())
	}
	for depth, want := range map[int]bool{1: true, 2: true, 3: true, 4: false} {
		p := make(Path, depth)
		for i := range p {
			p[i] = int64(i + 1)
		}
		if pt.Matches(p) != want {
			t.Fatalf("depth %d: expected match=%v", depth, want)
		}
	}
}

func TestDepthRangePattern_Anchored(t *testing.T) {
	anchor := Path{1, 2}
	pt := DepthRangePattern(anchor, 1, 2)
	if pt.Lquery() != "1.2.*{1,2}" {
		t.Fatalf("unexpected lquery: %q", pt.Lquery())
	}
	if pt.Matches(anchor) {
		t.Fatal("anchor itself must not match")
	}
	if !pt.Matches(Path{1, 2, 3}) {
		t.Fatal("expected direct child to match")
	}
	if !pt.Matches(Path{1, 2, 3, 4}) {
		t.Fatal("expected grandchild to match")
	}
	if pt.Matches(Path{1, 2, 3, 4, 5}) {
		t.Fatal("did not expect great-grandchild to match [1,2]")
	}
	if pt.Matches(Path{1, 3, 4}) {
		t.Fatal("did not expect sibling subtree to match")
	}
}
