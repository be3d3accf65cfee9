package catalog

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/CSEN-174-W25/csen-174-thebteam/internal/logger"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/metrics"
)

// csvHeader is the on-disk column order. pre_reqs is optional on read.
var csvHeader = []string{"college", "department", "number", "course", "description", "tag", "pre_reqs"}

const csvRequiredColumns = 6

// WriteCSV writes records with a header row.
func WriteCSV(w io.Writer, records []CourseRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range records {
		row := []string{
			string(r.College),
			r.Category,
			r.Number,
			r.Title,
			r.Description,
			r.Tag,
			r.PreReqs,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV reads course records, skipping the header row. Rows missing
// required columns are dropped with a warning, never fatal.
func ReadCSV(r io.Reader, log *logger.Logger) ([]CourseRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // rows may omit pre_reqs

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var records []CourseRecord
	for i, row := range rows[1:] {
		if len(row) < csvRequiredColumns {
			metrics.ParseSkipsTotal.WithLabelValues("short_row").Inc()
			log.WithField("row", i+2).Warnf("Skipping incomplete CSV row with %d columns", len(row))
			continue
		}

		rec := CourseRecord{
			College:     College(collapseSpaces(row[0])),
			Category:    collapseSpaces(row[1]),
			Number:      collapseSpaces(row[2]),
			Title:       collapseSpaces(row[3]),
			Description: collapseSpaces(row[4]),
			Tag:         collapseSpaces(row[5]),
		}
		if len(row) > csvRequiredColumns {
			rec.PreReqs = collapseSpaces(row[6])
		}
		records = append(records, rec)
	}

	return records, nil
}
