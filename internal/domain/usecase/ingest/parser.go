package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"time"

	"github.com/amirhossein-jamali/staff-registry/internal/domain/entity"
	errs "github.com/amirhossein-jamali/staff-registry/internal/domain/error"
)

// Header columns every file must name
const (
	ColumnID     = "id"
	ColumnLogin  = "login"
	ColumnName   = "name"
	ColumnSalary = "salary"
)

var requiredColumns = []string{ColumnID, ColumnLogin, ColumnName, ColumnSalary}

const utf8BOM = "\ufeff"

// Row is one validated upsert intent
type Row struct {
	// Line is the 1-based line of the row in the file
	Line   int
	Record entity.Record
}

// Parser reads upsert intents from a CSV file
type Parser struct {
	skipped int
}

// NewParser creates a parser
func NewParser() *Parser {
	return &Parser{}
}

// Skipped returns how many comment rows the last sequence passed over
func (p *Parser) Skipped() int {
	return p.skipped
}

// Rows returns the rows of r as a single-use sequence. The sequence ends at the
// first error, which is yielded as a RowError carrying the failing line.
func (p *Parser) Rows(r io.Reader) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		p.skipped = 0

		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true

		header, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = fmt.Errorf("%w: file is empty", errs.ErrInvalidHeader)
			} else {
				err = fmt.Errorf("%w: %s", errs.ErrInvalidHeader, err.Error())
			}
			yield(Row{}, errs.NewRowError(1, "", err))
			return
		}

		columns, err := mapHeader(header)
		if err != nil {
			yield(Row{}, errs.NewRowError(1, "", err))
			return
		}

		for {
			fields, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				line := 0
				var parseErr *csv.ParseError
				if errors.As(err, &parseErr) {
					line = parseErr.Line
				}
				yield(Row{}, errs.NewRowError(line, "",
					fmt.Errorf("%w: malformed CSV: %s", errs.ErrInvalidRecord, err.Error())))
				return
			}
			line, _ := reader.FieldPos(0)

			id := ""
			if columns[ColumnID] < len(fields) {
				id = strings.TrimSpace(fields[columns[ColumnID]])
			}
			if entity.IsComment(id) {
				p.skipped++
				continue
			}

			row, err := buildRow(line, id, fields, columns)
			if !yield(row, err) || err != nil {
				return
			}
		}
	}
}

func buildRow(line int, id string, fields []string, columns map[string]int) (Row, error) {
	if len(fields) != len(requiredColumns) {
		return Row{}, errs.NewRowError(line, id,
			fmt.Errorf("%w: got %d, want %d", errs.ErrColumnCount, len(fields), len(requiredColumns)))
	}

	salary, err := entity.ParseSalary(fields[columns[ColumnSalary]])
	if err != nil {
		return Row{}, errs.NewRowError(line, id, err)
	}

	record, err := entity.NewRecord(id, fields[columns[ColumnLogin]], fields[columns[ColumnName]], salary, time.Time{})
	if err != nil {
		return Row{}, errs.NewRowError(line, id, err)
	}

	return Row{Line: line, Record: *record}, nil
}

// mapHeader returns the field index of every required column
func mapHeader(header []string) (map[string]int, error) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	if len(header) != len(requiredColumns) {
		return nil, fmt.Errorf("%w: expected columns %s", errs.ErrInvalidHeader, strings.Join(requiredColumns, ", "))
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, seen := columns[name]; seen {
			return nil, fmt.Errorf("%w: duplicate column %q", errs.ErrInvalidHeader, name)
		}
		columns[name] = i
	}

	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", errs.ErrInvalidHeader, name)
		}
	}
	return columns, nil
}
