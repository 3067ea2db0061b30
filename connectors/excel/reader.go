package excel

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"msr-report/domain/ticket"
)

// ErrInputNotFound is returned when the input workbook path does not exist.
var ErrInputNotFound = errors.New("input workbook not found")

// ReadWorkbook loads the first sheet of an xlsx file into a Dataset. The
// first row is the header; remaining rows become records keyed by header.
func ReadWorkbook(path string) (ticket.Dataset, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return ticket.Dataset{}, fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return ticket.Dataset{}, err
	}
	defer f.Close()
	return datasetFromFile(f)
}

// ReadSheet is ReadWorkbook over an in-memory upload.
func ReadSheet(r io.Reader) (ticket.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ticket.Dataset{}, err
	}
	defer f.Close()
	return datasetFromFile(f)
}

func datasetFromFile(f *excelize.File) (ticket.Dataset, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ticket.Dataset{}, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ticket.Dataset{}, err
	}
	if len(rows) == 0 {
		return ticket.Dataset{}, nil
	}

	var ds ticket.Dataset
	header := rows[0]
	for _, h := range header {
		h = strings.TrimSpace(h)
		if h != "" {
			ds.Columns = append(ds.Columns, h)
		}
	}
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		rec := ticket.Record{}
		col := 0
		for j, h := range header {
			h = strings.TrimSpace(h)
			if h == "" {
				continue
			}
			if j < len(row) {
				rec[ds.Columns[col]] = row[j]
			}
			col++
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}
