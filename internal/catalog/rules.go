package catalog

import "regexp"

// SwitchRule describes a category switch inside a merged department
// page. The bulletin lists two subjects on one page with independent
// numbering; when the leading course number drops by more than
// DropMargin, or the Anchor number appears, the second subject has
// started.
type SwitchRule struct {
	From       string
	To         string
	DropMargin int
	Anchor     int
}

// DepartmentRule carries the category heuristics for one department.
// Departments without a rule keep the department name as category.
type DepartmentRule struct {
	Department string

	// Initial overrides the starting category. Empty means the
	// department name itself.
	Initial string

	// Switch, when set, is the numbering-based category switch.
	Switch *SwitchRule

	// SectionPatterns match section header text that overrides the
	// current category until the next matching header.
	SectionPatterns []*regexp.Regexp

	// Languages lists language names that, when found in a course
	// title, move the category to "<Language> Studies".
	Languages []string
}

// DefaultRules is the rule set for the SCU undergraduate bulletin.
// The merged pages restart numbering low for the second subject, so a
// large drop (or the second subject's introductory number) marks the
// boundary.
func DefaultRules() []DepartmentRule {
	return []DepartmentRule{
		{
			Department: "Mathematics and Computer Science",
			Initial:    "Mathematics",
			Switch: &SwitchRule{
				From:       "Mathematics",
				To:         "Computer Science",
				DropMargin: 100,
				Anchor:     10,
			},
			SectionPatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)^mathematics$`),
				regexp.MustCompile(`(?i)^computer science$`),
			},
		},
		{
			Department: "Theatre and Dance",
			Initial:    "Theatre",
			Switch: &SwitchRule{
				From:       "Theatre",
				To:         "Dance",
				DropMargin: 100,
				Anchor:     4,
			},
			SectionPatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)^theatre$`),
				regexp.MustCompile(`(?i)^dance$`),
			},
		},
		{
			Department: "Modern Languages and Literatures",
			Languages: []string{
				"Arabic",
				"Chinese",
				"French",
				"German",
				"Italian",
				"Japanese",
				"Spanish",
			},
		},
	}
}

// ruleIndex builds a lookup keyed by normalized department name.
func ruleIndex(rules []DepartmentRule) map[string]DepartmentRule {
	idx := make(map[string]DepartmentRule, len(rules))
	for _, r := range rules {
		idx[collapseSpaces(r.Department)] = r
	}
	return idx
}
