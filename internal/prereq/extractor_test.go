package prereq

import (
	"strings"
	"testing"
)

func TestExtractNoTrigger(t *testing.T) {
	info := Extract("An introduction to markets and prices.", "1")
	if info != (Info{}) {
		t.Fatalf("expected empty Info, got %+v", info)
	}
}

func TestExtractStandardCase(t *testing.T) {
	info := Extract("Prerequisite: MATH 11. (4 units)", "12")

	if info.PrereqText != "Prerequisite: MATH 11." {
		t.Errorf("PrereqText = %q", info.PrereqText)
	}
	if info.UnitsText != "(4 units)" {
		t.Errorf("UnitsText = %q", info.UnitsText)
	}
	if !info.Removed {
		t.Error("Removed should be true for the standard case")
	}

	cleaned := Clean("Prerequisite: MATH 11. (4 units)", info)
	if cleaned != "(4 units)" {
		t.Errorf("cleaned = %q, want %q", cleaned, "(4 units)")
	}
}

func TestExtractKeepsDescriptionPrefix(t *testing.T) {
	desc := "Design and analysis of algorithms. Prerequisite: CSCI 61 and MATH 51. (5 units)"
	cleaned, info := Process(desc, "163")

	if cleaned != "Design and analysis of algorithms. (5 units)" {
		t.Errorf("cleaned = %q", cleaned)
	}
	if info.PrereqText != "Prerequisite: CSCI 61 and MATH 51." {
		t.Errorf("PrereqText = %q", info.PrereqText)
	}
	if info.UnitsText != "(5 units)" {
		t.Errorf("UnitsText = %q", info.UnitsText)
	}
}

func TestExtractShortFormLab(t *testing.T) {
	desc := "Corequisite: PHYS 31. (1 unit)"
	cleaned, info := Process(desc, "31L")

	if info.Removed {
		t.Error("Removed should be false for a short lab description")
	}
	if info.PrereqText != "Corequisite: PHYS 31." {
		t.Errorf("PrereqText = %q", info.PrereqText)
	}
	if info.UnitsText != "(1 unit)" {
		t.Errorf("UnitsText = %q", info.UnitsText)
	}
	if cleaned != desc {
		t.Errorf("short-form description changed: %q", cleaned)
	}
}

func TestExtractLongLabDescriptionIsStandard(t *testing.T) {
	desc := "Laboratory experiments in mechanics covering measurement, kinematics, and momentum. Prerequisite: PHYS 31."
	_, info := Process(desc, "31L")

	if !info.Removed {
		t.Error("a long lab description should use the standard case")
	}
}

func TestExtractUnitAnnotationBeforeTrigger(t *testing.T) {
	// The unit note belongs to the description, not the requirement
	desc := "Topics in probability. (4 units) Seminar format. Prerequisite: MATH 122."
	cleaned, info := Process(desc, "123")

	if info.UnitsText != "" {
		t.Errorf("UnitsText = %q, want empty", info.UnitsText)
	}
	if info.PrereqText != "Prerequisite: MATH 122." {
		t.Errorf("PrereqText = %q", info.PrereqText)
	}
	if !strings.Contains(cleaned, "(4 units)") {
		t.Errorf("cleaned description lost its unit note: %q", cleaned)
	}
}

func TestExtractTriggerVariants(t *testing.T) {
	variants := []string{
		"Prerequisite: CSEN 146.",
		"Prerequisites: CSEN 146 and CSEN 161.",
		"Prereq: CSEN 146.",
		"Pre-requisite: CSEN 146.",
		"Corequisite: CSEN 146L.",
		"Co-requisite: CSEN 146L.",
		"Coreq: CSEN 146L.",
		"Requires successful completion of CSEN 146.",
		"Concurrent enrollment in CSEN 146L required.",
		"Students must have taken CSEN 146.",
		"Students must have completed CSEN 146.",
	}

	for _, desc := range variants {
		if info := Extract(desc, "174"); info.PrereqText == "" {
			t.Errorf("no trigger matched in %q", desc)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	// Cleaned description plus extracted text reconstructs the
	// original content, modulo whitespace and the unit note position.
	desc := "Continued study of data structures. Prerequisite: CSCI 61."
	cleaned, info := Process(desc, "62")

	rejoined := strings.Join(strings.Fields(cleaned+" "+info.PrereqText), " ")
	original := strings.Join(strings.Fields(desc), " ")
	if rejoined != original {
		t.Errorf("round trip mismatch:\n got %q\nwant %q", rejoined, original)
	}
}
