package rag

import (
	"fmt"
	"strings"

	"github.com/CSEN-174-W25/csen-174-thebteam/internal/storage"
)

// RichText builds the text that gets embedded for a course record. It
// combines a labeled field block with a prose restatement so the vector
// captures both the structured identity of the course and its natural
// language description.
func RichText(c storage.Course) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Course Name: %s\n", c.Title)
	fmt.Fprintf(&b, "Department: %s\n", c.Department)
	fmt.Fprintf(&b, "College: %s\n", c.College)
	fmt.Fprintf(&b, "Course Number: %s\n", c.Number)
	fmt.Fprintf(&b, "Course Tag: %s\n", c.Tag)
	fmt.Fprintf(&b, "Description: %s\n", c.Description)
	fmt.Fprintf(&b, "Prerequisites: %s\n", c.PreReqs)

	b.WriteString("\n")
	fmt.Fprintf(&b, "This is a %s %s course titled '%s' in the %s department at %s. ",
		c.Tag, c.Number, c.Title, c.Department, c.College)
	if c.Description != "" {
		b.WriteString(c.Description)
		b.WriteString(" ")
	}
	if c.PreReqs != "" {
		fmt.Fprintf(&b, "Students should complete %s before enrolling in this course.", c.PreReqs)
	}

	return b.String()
}
