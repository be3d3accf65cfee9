package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/CSEN-174-W25/csen-174-thebteam/internal/logger"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/metrics"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/scraper"
)

// Department is one entry from the bulletin sidebar index.
type Department struct {
	College College
	Name    string
	URL     string
}

// sidebarSkip lists sidebar entries that are not course departments.
var sidebarSkip = map[string]bool{
	"Medical and Health Humanities":           true,
	"Undergraduate Degrees":                   true,
	"Centers Institutes and Special Programs": true,
}

// DepartmentIndex extracts the per-college department links from the
// bulletin front page. The sidebar renders one ul.bltFolder per
// section; the college lists sit at fixed positions.
func DepartmentIndex(doc *goquery.Document, baseURL string) ([]Department, error) {
	folders := doc.Find("ul.bltFolder")

	collegeFolders := map[College]int{
		CollegeCAS: 3,
		CollegeLSB: 4,
		CollegeSOE: 5,
	}
	if folders.Length() <= 5 {
		return nil, fmt.Errorf("bulletin sidebar has %d folders, expected at least 6", folders.Length())
	}

	var departments []Department
	for _, college := range []College{CollegeCAS, CollegeLSB, CollegeSOE} {
		folder := folders.Eq(collegeFolders[college])
		folder.Find("a").Each(func(_ int, anchor *goquery.Selection) {
			name := collapseSpaces(anchor.Text())
			if name == "" || sidebarSkip[name] {
				return
			}

			href, ok := anchor.Attr("href")
			if !ok {
				return
			}
			// Sidebar links are relative, prefixed with "./"
			href = strings.TrimPrefix(href, "./")

			departments = append(departments, Department{
				College: college,
				Name:    name,
				URL:     baseURL + href,
			})
		})
	}

	return departments, nil
}

// Collector fetches and parses the full catalog.
type Collector struct {
	client  *scraper.Client
	parser  *Parser
	baseURL string
	workers int
	log     *logger.Logger
}

// NewCollector creates a catalog collector. workers bounds the number
// of department pages fetched concurrently.
func NewCollector(client *scraper.Client, parser *Parser, baseURL string, workers int, log *logger.Logger) *Collector {
	if workers < 1 {
		workers = 1
	}
	return &Collector{
		client:  client,
		parser:  parser,
		baseURL: baseURL,
		workers: workers,
		log:     log.WithModule("catalog"),
	}
}

// CollectAll scrapes every department and returns the concatenated
// course records in sidebar order. A department that fails to fetch or
// parse contributes nothing and is logged; it never aborts the run for
// its siblings. Only an unreachable front page is a hard error.
func (c *Collector) CollectAll(ctx context.Context) ([]CourseRecord, error) {
	index, err := c.client.GetDocument(ctx, c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bulletin index: %w", err)
	}

	departments, err := DepartmentIndex(index, c.baseURL)
	if err != nil {
		return nil, err
	}
	c.log.WithField("departments", len(departments)).Info("Starting catalog collection")

	// Per-department slots keep the output order deterministic
	// regardless of fetch completion order.
	results := make([][]CourseRecord, len(departments))
	var failed struct {
		sync.Mutex
		names []string
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, dept := range departments {
		g.Go(func() error {
			records, err := c.collectDepartment(ctx, dept)
			if err != nil {
				metrics.ScrapeRequestsTotal.WithLabelValues(string(dept.College), "error").Inc()
				c.log.WithError(err).WithField("department", dept.Name).
					Warnf("Skipping department after fetch failure")

				failed.Lock()
				failed.names = append(failed.names, dept.Name)
				failed.Unlock()
				return nil
			}

			metrics.ScrapeRequestsTotal.WithLabelValues(string(dept.College), "ok").Inc()
			results[i] = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []CourseRecord
	for _, records := range results {
		all = append(all, records...)
	}

	c.log.WithFields(map[string]any{
		"courses": len(all),
		"failed":  len(failed.names),
	}).Info("Catalog collection complete")

	return all, nil
}

// collectDepartment fetches and parses one department page.
func (c *Collector) collectDepartment(ctx context.Context, dept Department) ([]CourseRecord, error) {
	start := time.Now()
	doc, err := c.client.GetDocument(ctx, dept.URL)
	if err != nil {
		return nil, err
	}
	metrics.ScrapeDurationSeconds.WithLabelValues(string(dept.College)).Observe(time.Since(start).Seconds())

	return c.parser.ParseDocument(doc, dept.Name, dept.College), nil
}
