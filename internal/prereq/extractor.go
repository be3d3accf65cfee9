// Package prereq isolates prerequisite and corequisite text from
// free-form course descriptions.
package prereq

import (
	"regexp"
	"strings"
)

// Info is the result of one extraction.
//
// When Removed is true the requirement span was cut out of the source
// description and Clean reconstructs the remainder. When false (the
// short lab-description case) the description is left untouched and
// PrereqText is only an annotation.
type Info struct {
	PrereqText string
	UnitsText  string
	Removed    bool
}

// triggerPattern matches the first requirement phrase in a description.
var triggerPattern = regexp.MustCompile(`(?i)\b(pre-?requisites?|pre-?reqs?|co-?requisites?|co-?reqs?|successful completion of|concurrent enrollment|must have taken|must have completed)`)

// unitPattern matches a unit-count annotation like "(4 units)".
var unitPattern = regexp.MustCompile(`\(\d+ ?units?\)`)

// unitTailWindow is how close to the end of the description a unit
// annotation must sit to count as the course's trailing unit note.
const unitTailWindow = 15

// shortFormMaxWords is the description length under which a lab
// course's requirement note is annotated rather than removed.
const shortFormMaxWords = 10

var spaceRun = regexp.MustCompile(`\s+`)

func collapse(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// Extract finds the requirement span in description. number is the
// course number, used to detect lab sections (trailing "L").
func Extract(description, number string) Info {
	loc := triggerPattern.FindStringIndex(description)
	if loc == nil {
		return Info{}
	}
	triggerStart := loc[0]

	// Only a unit annotation near the end of the description, after
	// the trigger, belongs to the requirement span. One occurring
	// before the trigger stays in the description.
	unitStart, unitsText := trailingUnits(description, triggerStart)

	span := description[triggerStart:]
	if unitStart >= 0 {
		span = description[triggerStart:unitStart]
	}

	if isShortForm(description, number) {
		return Info{
			PrereqText: collapse(stripUnits(description[triggerStart:])),
			UnitsText:  unitsText,
			Removed:    false,
		}
	}

	return Info{
		PrereqText: collapse(stripUnits(span)),
		UnitsText:  unitsText,
		Removed:    true,
	}
}

// Clean returns the description with the extracted requirement span
// removed. For short-form extractions the description is returned
// byte-identical.
func Clean(description string, info Info) string {
	if !info.Removed {
		return description
	}

	loc := triggerPattern.FindStringIndex(description)
	if loc == nil {
		return description
	}

	cleaned := strings.TrimSpace(description[:loc[0]])
	if info.UnitsText != "" {
		cleaned = strings.TrimSpace(cleaned + " " + info.UnitsText)
	}
	return cleaned
}

// Process runs extraction and cleanup in one step.
func Process(description, number string) (string, Info) {
	info := Extract(description, number)
	return Clean(description, info), info
}

// trailingUnits finds the last unit annotation at or after start that
// sits within the tail window of the description. Returns -1 and ""
// when there is none.
func trailingUnits(description string, start int) (int, string) {
	matches := unitPattern.FindAllStringIndex(description, -1)
	if len(matches) == 0 {
		return -1, ""
	}

	last := matches[len(matches)-1]
	if last[0] < start {
		return -1, ""
	}
	if len(description)-last[1] > unitTailWindow {
		return -1, ""
	}
	return last[0], description[last[0]:last[1]]
}

// stripUnits removes any unit annotations from a requirement span.
func stripUnits(s string) string {
	return unitPattern.ReplaceAllString(s, "")
}

// isShortForm reports whether this is a lab section whose description
// is too short to survive having the requirement cut out.
func isShortForm(description, number string) bool {
	return strings.HasSuffix(number, "L") && len(strings.Fields(description)) < shortFormMaxWords
}
