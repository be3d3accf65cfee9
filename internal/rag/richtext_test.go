package rag

import (
	"strings"
	"testing"

	"github.com/CSEN-174-W25/csen-174-thebteam/internal/storage"
)

func TestRichTextIncludesAllFields(t *testing.T) {
	c := storage.Course{
		DocID:       "CSEN-174",
		College:     "School of Engineering",
		Department:  "Computer Science and Engineering",
		Number:      "174",
		Title:       "Software Engineering",
		Description: "Software development lifecycle models.",
		Tag:         "CSEN",
		PreReqs:     "CSEN 146",
	}

	text := RichText(c)

	for _, want := range []string{
		"Course Name: Software Engineering",
		"Department: Computer Science and Engineering",
		"College: School of Engineering",
		"Course Number: 174",
		"Course Tag: CSEN",
		"Description: Software development lifecycle models.",
		"Prerequisites: CSEN 146",
		"This is a CSEN 174 course titled 'Software Engineering' in the Computer Science and Engineering department at School of Engineering.",
		"Students should complete CSEN 146 before enrolling in this course.",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rich text missing %q:\n%s", want, text)
		}
	}
}

func TestRichTextOmitsEmptyOptionalSentences(t *testing.T) {
	c := storage.Course{
		College:    "College of Arts and Sciences",
		Department: "Philosophy",
		Number:     "9",
		Title:      "Critical Thinking",
		Tag:        "PHIL",
	}

	text := RichText(c)

	if strings.Contains(text, "Students should complete") {
		t.Errorf("prerequisite sentence present for course without prerequisites:\n%s", text)
	}
	if !strings.Contains(text, "This is a PHIL 9 course") {
		t.Errorf("summary sentence missing:\n%s", text)
	}
}
