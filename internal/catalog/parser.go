package catalog

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/CSEN-174-W25/csen-174-thebteam/internal/logger"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/metrics"
)

// Parser walks one department's content blocks and emits course records.
// It is a single-pass walk; separate departments can be parsed in
// parallel since each call is independent.
type Parser struct {
	rules map[string]DepartmentRule
	log   *logger.Logger
}

// NewParser creates a parser with the given category rules.
func NewParser(rules []DepartmentRule, log *logger.Logger) *Parser {
	return &Parser{
		rules: ruleIndex(rules),
		log:   log.WithModule("catalog"),
	}
}

// parseState tracks the mutable walk state for one department page.
type parseState struct {
	rule       DepartmentRule
	hasRule    bool
	category   string
	lastNumber int
	switched   bool
}

// Parse converts a department's block sequence into course records.
// Every emitted record has a number matching the numeric-prefix
// pattern; heading blocks that fail it are dropped as noise.
func (p *Parser) Parse(blocks []Block, department string, college College) []CourseRecord {
	department = collapseSpaces(department)

	st := parseState{category: department}
	if rule, ok := p.rules[department]; ok {
		st.rule = rule
		st.hasRule = true
		if rule.Initial != "" {
			st.category = rule.Initial
		}
	}

	var records []CourseRecord
	var open *CourseRecord
	var descParts []string

	flush := func() {
		if open == nil {
			return
		}
		open.Description = strings.Join(descParts, " ")
		if open.Description == "" {
			open.Description = "-"
		}
		records = append(records, *open)
		open = nil
		descParts = nil
	}

	for _, block := range blocks {
		switch block.Kind {
		case BlockSection:
			p.applySectionHeader(&st, block.Text)

		case BlockHeading:
			flush()

			number, title, ok := splitHeading(block.Text)
			if !ok {
				metrics.ParseSkipsTotal.WithLabelValues("invalid_number").Inc()
				p.log.WithField("heading", collapseSpaces(block.Text)).
					Debugf("dropping non-course heading in %s", department)
				continue
			}

			p.applyCourseHeuristics(&st, number, title)

			open = &CourseRecord{
				College:  college,
				Category: st.category,
				Number:   number,
				Title:    title,
				Tag:      TagFor(st.category),
			}

		case BlockText:
			if open == nil {
				continue
			}
			if text := collapseSpaces(block.Text); text != "" {
				descParts = append(descParts, text)
			}
		}
	}
	flush()

	metrics.CoursesParsedTotal.WithLabelValues(string(college)).Add(float64(len(records)))
	return records
}

// ParseDocument extracts the content blocks from a department page and
// parses them. The bulletin renders each course as an h3 heading
// followed by description paragraphs inside body.doc-content.
func (p *Parser) ParseDocument(doc *goquery.Document, department string, college College) []CourseRecord {
	var blocks []Block

	doc.Find("body.doc-content").Children().Each(func(_ int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "h3":
			blocks = append(blocks, Block{Kind: BlockHeading, Text: s.Text()})
		case "h1", "h2":
			blocks = append(blocks, Block{Kind: BlockSection, Text: s.Text()})
		default:
			blocks = append(blocks, Block{Kind: BlockText, Text: s.Text()})
		}
	})

	return p.Parse(blocks, department, college)
}

// splitHeading splits a course heading on the first period into number
// and title. Headings without a valid number (lab section banners,
// stray text promoted to h3) are rejected.
func splitHeading(heading string) (number, title string, ok bool) {
	left, right, found := strings.Cut(heading, ".")
	if !found {
		return "", "", false
	}

	number = collapseSpaces(left)
	if !ValidNumber(number) {
		return "", "", false
	}

	title = collapseSpaces(strings.ReplaceAll(right, ".", ""))
	return number, title, true
}

// applySectionHeader moves the category when a header matches one of
// the department's configured section patterns.
func (p *Parser) applySectionHeader(st *parseState, text string) {
	if !st.hasRule {
		return
	}
	text = collapseSpaces(text)
	for _, pattern := range st.rule.SectionPatterns {
		if pattern.MatchString(text) {
			st.category = text
			st.lastNumber = 0
			return
		}
	}
}

// applyCourseHeuristics runs the numbering and language overrides for
// one course heading and records its leading number.
func (p *Parser) applyCourseHeuristics(st *parseState, number, title string) {
	n := leadingNumber(number)

	if st.hasRule && st.rule.Switch != nil && !st.switched && st.category == st.rule.Switch.From {
		dropped := st.lastNumber > 0 && st.lastNumber-n > st.rule.Switch.DropMargin
		if dropped || n == st.rule.Switch.Anchor {
			st.category = st.rule.Switch.To
			st.switched = true
		}
	}

	if st.hasRule && len(st.rule.Languages) > 0 {
		for _, lang := range st.rule.Languages {
			if strings.Contains(title, lang) {
				st.category = lang + " Studies"
				break
			}
		}
	}

	st.lastNumber = n
}
