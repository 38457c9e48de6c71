// Package loader bridges flat-file storage and in-memory datasets.
//
// It reads the raw delimited household power readings into a
// dataset.Frame keyed by timestamp, and persists or restores processed
// frames under the configured processed directory.
package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"powercast/internal/config"
	"powercast/internal/dataset"
	apperrors "powercast/internal/errors"
	"powercast/internal/files"
)

const (
	// DefaultArtifact is the processed dataset written when no name is given.
	DefaultArtifact = "hourly_consumption.csv"

	// ProcessedTimeLayout is the timestamp format used in processed CSV files.
	ProcessedTimeLayout = "2006-01-02 15:04:05"

	// timestampColumn heads the index column of processed files.
	timestampColumn = "datetime"
)

// Raw file column headers carrying the date and time parts of the row key.
const (
	dateColumn = "Date"
	timeColumn = "Time"
)

// Loader reads raw measurement files and persists processed datasets.
type Loader struct {
	cfg    *config.Config
	logger *slog.Logger
	files  *files.Manager
}

// New creates a loader for the given configuration.
func New(cfg *config.Config, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		cfg:    cfg,
		logger: logger,
		files:  files.NewManager(cfg.Data.RawPath, cfg.Data.ProcessedPath),
	}
}

// LoadRaw reads the configured raw file into a Frame.
//
// The file must carry a header row including Date and Time columns; the
// two are combined into the row timestamp using the configured formats
// and dropped from the output. "?" and empty fields are treated as
// missing, and every other column is coerced to float64 with unparsable
// values becoming missing.
func (l *Loader) LoadRaw(ctx context.Context) (*dataset.Frame, error) {
	path := l.files.RawPath()
	l.logger.InfoContext(ctx, "loading raw data", slog.String("path", path))

	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open raw data file", err).
			WithContext("path", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = l.cfg.Data.SeparatorRune()

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read raw data header", err).
			WithContext("path", path)
	}

	dateIdx, timeIdx := -1, -1
	var measNames []string
	var measIdx []int
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case dateColumn:
			dateIdx = i
		case timeColumn:
			timeIdx = i
		default:
			measNames = append(measNames, strings.TrimSpace(name))
			measIdx = append(measIdx, i)
		}
	}
	if dateIdx < 0 || timeIdx < 0 {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("raw data header must contain %s and %s columns", dateColumn, timeColumn), nil).
			WithContext("header", strings.Join(header, ","))
	}

	layout := l.cfg.Data.DateFormat + " " + l.cfg.Data.TimeFormat

	var index []time.Time
	values := make([][]float64, len(measNames))
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read raw data row %d", row), err)
		}
		row++

		ts, err := time.Parse(layout, record[dateIdx]+" "+record[timeIdx])
		if err != nil {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("row %d: date/time does not match configured format %q", row, layout), err)
		}
		index = append(index, ts)

		for i, ci := range measIdx {
			values[i] = append(values[i], parseNumeric(record[ci]))
		}
	}

	frame := dataset.New(index)
	for i, name := range measNames {
		if err := frame.AddColumn(name, values[i]); err != nil {
			return nil, apperrors.NewParsingError("invalid raw data columns", err)
		}
	}

	l.logRawSummary(ctx, frame)
	return frame, nil
}

// logRawSummary emits advisory shape, range and missing-count diagnostics.
func (l *Loader) logRawSummary(ctx context.Context, frame *dataset.Frame) {
	attrs := []any{
		slog.Int("rows", frame.NumRows()),
		slog.Int("columns", frame.NumCols()),
	}
	if first, last, ok := frame.TimeRange(); ok {
		attrs = append(attrs,
			slog.Time("first_timestamp", first),
			slog.Time("last_timestamp", last))
	}
	l.logger.InfoContext(ctx, "raw data loaded", attrs...)

	counts := frame.MissingCounts()
	for _, name := range frame.Columns() {
		l.logger.InfoContext(ctx, "missing values",
			slog.String("column", name),
			slog.Int("count", counts[name]))
	}
}

// LoadProcessed reads a previously saved dataset from the processed
// directory. An absent file yields a NOT_FOUND error that callers can
// detect with errors.IsNotFound to fall back to the raw pipeline.
func (l *Loader) LoadProcessed(ctx context.Context, name string) (*dataset.Frame, error) {
	path := l.files.ProcessedPath(name)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("processed dataset %s", name)).
				WithContext("path", path)
		}
		return nil, apperrors.NewStorageError("failed to open processed dataset", err).
			WithContext("path", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read processed dataset header", err).
			WithContext("path", path)
	}
	if len(header) < 2 {
		return nil, apperrors.NewParsingError("processed dataset must have a timestamp column and at least one value column", nil).
			WithContext("path", path)
	}

	colNames := header[1:]
	var index []time.Time
	values := make([][]float64, len(colNames))
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read processed dataset row %d", row), err)
		}
		row++

		ts, err := time.Parse(ProcessedTimeLayout, record[0])
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("row %d: invalid timestamp %q", row, record[0]), err)
		}
		index = append(index, ts)
		for i := range colNames {
			values[i] = append(values[i], parseNumeric(record[i+1]))
		}
	}

	frame := dataset.New(index)
	for i, name := range colNames {
		if err := frame.AddColumn(name, values[i]); err != nil {
			return nil, apperrors.NewParsingError("invalid processed dataset columns", err)
		}
	}

	l.logger.InfoContext(ctx, "processed data loaded",
		slog.String("name", name),
		slog.Int("rows", frame.NumRows()),
		slog.Int("columns", frame.NumCols()))

	return frame, nil
}

// SaveProcessed writes the frame as comma-delimited text under the
// processed directory, creating it if needed. The timestamp key leads
// each row; NaN values become empty cells. Saving the same frame twice
// produces byte-identical output.
func (l *Loader) SaveProcessed(ctx context.Context, frame *dataset.Frame, name string) error {
	if err := l.files.EnsureProcessedDir(); err != nil {
		return apperrors.NewStorageError("failed to create processed directory", err)
	}

	path := l.files.ProcessedPath(name)
	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("failed to create processed dataset file", err).
			WithContext("path", path)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := append([]string{timestampColumn}, frame.Columns()...)
	if err := writer.Write(header); err != nil {
		return apperrors.NewStorageError("failed to write processed dataset header", err)
	}

	columns := make([][]float64, 0, frame.NumCols())
	for _, colName := range frame.Columns() {
		col, _ := frame.Column(colName)
		columns = append(columns, col)
	}

	index := frame.Index()
	record := make([]string, len(header))
	for i, ts := range index {
		record[0] = ts.Format(ProcessedTimeLayout)
		for j, col := range columns {
			record[j+1] = formatValue(col[i])
		}
		if err := writer.Write(record); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write processed dataset row %d", i+1), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError("failed to flush processed dataset", err)
	}

	l.logger.InfoContext(ctx, "processed data saved",
		slog.String("path", path),
		slog.Int("rows", frame.NumRows()))

	return nil
}

// parseNumeric coerces a raw field to float64. The markers "?" and ""
// and any unparsable value map to NaN.
func parseNumeric(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "?" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// formatValue renders a float with the shortest exact representation so
// repeated saves are byte-stable. NaN becomes an empty cell.
func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
