package store

import (
	"fmt"
	"strconv"
	"strings"
)

// Path is the materialized ancestry of a comment: the ids of every ancestor
// from the root comment down to and including the comment itself. A root
// comment's path is exactly its own id; a reply's path is its parent's path
// plus its own id. len(path) is the comment's depth (1 = root).
//
// The textual form is dot-separated ("1.2.3"), which is also a valid
// Postgres ltree value.
type Path []int64

// RootPath returns the path of a root comment.
func RootPath(id int64) Path {
	return Path{id}
}

// ChildPath returns the path of a reply under parent.
func ChildPath(parent Path, id int64) Path {
	p := make(Path, 0, len(parent)+1)
	p = append(p, parent...)
	return append(p, id)
}

// ParsePath parses the dot-separated form.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, fmt.Errorf("empty path")
	}
	labels := strings.Split(s, ".")
	p := make(Path, len(labels))
	for i, l := range labels {
		id, err := strconv.ParseInt(l, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("path label %q: %w", l, err)
		}
		p[i] = id
	}
	return p, nil
}

func (p Path) String() string {
	labels := make([]string, len(p))
	for i, id := range p {
		labels[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(labels, ".")
}

// Depth is the number of labels; a root comment has depth 1.
func (p Path) Depth() int { return len(p) }

// Last is the comment's own id.
func (p Path) Last() int64 { return p[len(p)-1] }

// HasPrefix reports whether p starts with prefix (inclusive: a path is a
// prefix of itself).
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i, id := range prefix {
		if p[i] != id {
			return false
		}
	}
	return true
}

// Pattern selects paths whose suffix beyond Anchor (or beyond the post root,
// when Anchor is nil) has a label count within [Low, High]. Depths are
// always >= 1.
type Pattern struct {
	Anchor Path
	Low    int
	High   int
}

// DepthRangePattern builds the depth-bounded match predicate used by listing
// queries. With a nil anchor and low=high=1 it selects exactly the root
// comments of a post.
func DepthRangePattern(anchor Path, low, high int) Pattern {
	return Pattern{Anchor: anchor, Low: low, High: high}
}

// Matches evaluates the pattern against a path in memory.
func (pt Pattern) Matches(p Path) bool {
	extra := len(p) - len(pt.Anchor)
	if extra < pt.Low || extra > pt.High {
		return false
	}
	return len(pt.Anchor) == 0 || p.HasPrefix(pt.Anchor)
}

// Lquery renders the pattern as a Postgres lquery, e.g. "*{1,2}" for an
// un-anchored range or "1.2.*{1,3}" for descendants of path 1.2.
func (pt Pattern) Lquery() string {
	rng := fmt.Sprintf("*{%d,%d}", pt.Low, pt.High)
	if len(pt.Anchor) == 0 {
		return rng
	}
	return pt.Anchor.String() + "." + rng
}
