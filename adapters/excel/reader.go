package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/xuri/excelize/v2"

	"sigplot/domain/observation"
	"sigplot/internal/errors"
)

// DataReader handles reading long-format observations from Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
	columns  Columns
	logger   *log.Logger
}

// Option configures a DataReader.
type Option func(*DataReader)

// WithColumns overrides the header names.
func WithColumns(c Columns) Option {
	return func(r *DataReader) { r.columns = c }
}

// WithSheet reads the named sheet instead of the first one.
func WithSheet(name string) Option {
	return func(r *DataReader) { r.sheet = name }
}

func WithLogger(l *log.Logger) Option {
	return func(r *DataReader) { r.logger = l }
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string, opts ...Option) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	r := &DataReader{
		filePath: filePath,
		fileType: fileType,
		columns:  DefaultColumns(),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadObservations reads the file and reshapes it into an observation set,
// one row per (group, category, value cell).
func (r *DataReader) ReadObservations() (*observation.Set, error) {
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	return r.toSet(data)
}

// ReadData reads data from Excel or CSV files into structured format
func (r *DataReader) ReadData() (*SheetData, error) {
	r.logger.Debug("reading", "type", r.fileType, "path", r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.InvalidInput(fmt.Sprintf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath))
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported file type: %s", r.fileType))
	}
}

// readExcelData reads the configured sheet, or the first one
func (r *DataReader) readExcelData() (*SheetData, error) {
	start := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to open Excel file: %w", err))
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read sheet %q: %w", sheet, err))
	}
	r.logger.Debug("sheet read", "sheet", sheet, "rows", len(rows), "elapsed", time.Since(start))

	return r.processRows(rows)
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData() (*SheetData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to open CSV file: %w", err))
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read CSV file: %w", err))
	}
	r.logger.Debug("csv read", "rows", len(rows))

	return r.processRows(rows)
}

// processRows converts raw string rows into SheetData
func (r *DataReader) processRows(rows [][]string) (*SheetData, error) {
	if len(rows) < 2 {
		return nil, errors.InvalidInput(fmt.Sprintf("%s file must have a header row and at least one data row", strings.ToUpper(r.fileType)))
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
	}

	var dataRows []RawRowData
	for _, row := range rows[1:] {
		rowData := make(RawRowData, len(headers))
		blank := true
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
				blank = blank && rowData[headers[j]] == ""
			}
		}
		if !blank {
			dataRows = append(dataRows, rowData)
		}
	}

	return &SheetData{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}

func (r *DataReader) toSet(data *SheetData) (*observation.Set, error) {
	for _, col := range []string{r.columns.Group, r.columns.Category, r.columns.Value} {
		if !hasHeader(data.Headers, col) {
			return nil, errors.InvalidInput(fmt.Sprintf("column %q not found in %v", col, data.Headers))
		}
	}

	set := observation.NewSet()
	for i, row := range data.Rows {
		line := i + 2 // header is row 1
		group, category := row[r.columns.Group], row[r.columns.Category]
		if group == "" || category == "" {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d: empty %s/%s", line, r.columns.Group, r.columns.Category))
		}
		values, err := ParseValues(row[r.columns.Value])
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d column %q: %v", line, r.columns.Value, err))
		}
		set.Add(observation.Label(group), observation.Label(category), values...)
	}
	r.logger.Info("observations loaded", "path", r.filePath, "groups", len(set.Groups()), "observations", set.Len())
	return set, nil
}

func hasHeader(headers []string, name string) bool {
	for _, h := range headers {
		if h == name {
			return true
		}
	}
	return false
}

// ParseValues reads a value cell. A cell holds one number or a list such as
// "[6, 7]", "6;7" or "6 7".
func ParseValues(cell string) ([]float64, error) {
	cell = strings.TrimSpace(cell)
	cell = strings.TrimSuffix(strings.TrimPrefix(cell, "["), "]")
	fields := strings.FieldsFunc(cell, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("no value")
	}
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", f)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%q is not a finite number", f)
		}
		out = append(out, v)
	}
	return out, nil
}
