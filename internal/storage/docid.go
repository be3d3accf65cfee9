package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// sanitizeID makes a field safe for use in a document ID.
func sanitizeID(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "/", "_")
}

// ResolveDocID derives a deterministic document ID for a course.
// The base is "TAG-NUMBER". On collision the ID is extended with a
// disambiguating field: the college for ECON (taught in both CAS and
// LSB), the title for untagged courses, the department otherwise. A
// still-colliding ID gets a Unix timestamp suffix; collisions never
// silently overwrite.
func ResolveDocID(c Course, taken func(string) bool) string {
	base := sanitizeID(fmt.Sprintf("%s-%s", c.Tag, c.Number))

	id := base
	if strings.Trim(id, "_-") == "" {
		// Nothing usable to build an ID from
		return uuid.NewString()
	}

	if !taken(id) {
		return id
	}

	switch {
	case c.Tag == "ECON":
		id = sanitizeID(fmt.Sprintf("%s-%s-%s", c.Tag, c.Number, c.College))
	case c.Tag == "":
		id = sanitizeID(fmt.Sprintf("%s-%s-%s", c.College, c.Number, c.Title))
	default:
		id = sanitizeID(fmt.Sprintf("%s-%s-%s", c.Tag, c.Number, c.Department))
	}

	if taken(id) {
		id = fmt.Sprintf("%s-%d", id, time.Now().Unix())
	}

	return id
}
