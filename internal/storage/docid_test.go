package storage

import (
	"strings"
	"testing"
)

func TestResolveDocIDBase(t *testing.T) {
	taken := func(string) bool { return false }

	c := Course{Tag: "CSEN", Number: "174"}
	if got := ResolveDocID(c, taken); got != "CSEN-174" {
		t.Errorf("got %q, want CSEN-174", got)
	}

	// Slashes in merged tags are sanitized
	c = Course{Tag: "MATH/CSCI", Number: "146"}
	if got := ResolveDocID(c, taken); got != "MATH_CSCI-146" {
		t.Errorf("got %q, want MATH_CSCI-146", got)
	}
}

func TestResolveDocIDEconCollision(t *testing.T) {
	seen := map[string]bool{}
	taken := func(id string) bool { return seen[id] }

	cas := Course{Tag: "ECON", Number: "1", College: "CAS", Department: "Economics"}
	first := ResolveDocID(cas, taken)
	seen[first] = true

	lsb := Course{Tag: "ECON", Number: "1", College: "LSB", Department: "Economics"}
	second := ResolveDocID(lsb, taken)

	if first != "ECON-1" {
		t.Errorf("first = %q", first)
	}
	if second == first {
		t.Error("collision not resolved")
	}
	if !strings.Contains(second, "LSB") {
		t.Errorf("second ID %q does not carry the college discriminator", second)
	}
}

func TestResolveDocIDUntaggedCollision(t *testing.T) {
	seen := map[string]bool{"-12": true}
	taken := func(id string) bool { return seen[id] }

	c := Course{Tag: "", Number: "12", College: "CAS", Title: "Elementary French"}
	id := ResolveDocID(c, taken)

	if !strings.Contains(id, "CAS") || !strings.Contains(id, "Elementary_French") {
		t.Errorf("untagged fallback ID = %q", id)
	}
}

func TestResolveDocIDTimestampFallback(t *testing.T) {
	// Both the base and the department fallback are taken
	seen := map[string]bool{
		"CSEN-174": true,
		"CSEN-174-Computer_Science_and_Engineering": true,
	}
	taken := func(id string) bool { return seen[id] }

	c := Course{Tag: "CSEN", Number: "174", College: "SOE", Department: "Computer Science and Engineering"}
	id := ResolveDocID(c, taken)

	if seen[id] {
		t.Errorf("fallback ID %q still collides", id)
	}
	if !strings.HasPrefix(id, "CSEN-174-Computer_Science_and_Engineering-") {
		t.Errorf("unexpected fallback shape %q", id)
	}
}
