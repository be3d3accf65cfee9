// Package catalog turns the university bulletin's department pages into
// structured course records.
package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

// College identifies the school a department belongs to.
type College string

const (
	CollegeCAS College = "CAS" // College of Arts and Sciences
	CollegeLSB College = "LSB" // Leavey School of Business
	CollegeSOE College = "SOE" // School of Engineering
)

// CourseRecord is one course as parsed from a department page.
// Category is the resolved department or sub-category name; for merged
// pages (e.g. Mathematics and Computer Science) it is the sub-discipline.
type CourseRecord struct {
	College     College
	Category    string
	Number      string
	Title       string
	Description string
	Tag         string
	PreReqs     string
}

// BlockKind classifies a content block from a department page.
type BlockKind int

const (
	BlockText BlockKind = iota
	BlockHeading
	BlockSection
)

// Block is one tagged text block in document order.
type Block struct {
	Kind BlockKind
	Text string
}

// numberPattern is the shape every course number must have: a numeric
// prefix with an optional letter suffix (e.g. "174", "11A", "115L").
var numberPattern = regexp.MustCompile(`^[0-9]+[A-Za-z]*$`)

// ValidNumber reports whether s is a well-formed course number.
func ValidNumber(s string) bool {
	return numberPattern.MatchString(s)
}

// leadingNumber returns the numeric prefix of a course number, or -1
// when the number is malformed.
func leadingNumber(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return -1
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return -1
	}
	return n
}

// collapseSpaces normalizes runs of whitespace to single spaces. The
// bulletin HTML is full of doubled spaces and non-breaking gaps.
var spaceRun = regexp.MustCompile(`\s+`)

func collapseSpaces(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}
