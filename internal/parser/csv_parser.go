package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

var errNotFinite = errors.New("value is not finite")

// LoadSeries reads a comma-delimited text file of numbers. Values may be
// spread over any number of lines; empty fields are ignored and lines
// starting with '#' are comments.
func LoadSeries(path string) (ExperimentSeries, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open series file: %w", err)
	}
	defer file.Close()

	series, err := ParseSeries(file)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.Path = path
			return nil, parseErr
		}
		return nil, fmt.Errorf("failed to read series file %s: %w", path, err)
	}
	return series, nil
}

// ParseSeries reads comma-delimited numbers from r.
func ParseSeries(r io.Reader) (ExperimentSeries, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'
	reader.FieldsPerRecord = -1 // rows of different widths are fine

	series := make(ExperimentSeries, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)

		for _, item := range row {
			trimmed := strings.TrimSpace(item)
			if trimmed == "" { // trailing delimiter
				continue
			}
			val, err := strconv.ParseFloat(trimmed, 64)
			if err != nil {
				return nil, &ParseError{Line: line, Field: trimmed, Err: err}
			}
			if math.IsNaN(val) || math.IsInf(val, 0) {
				return nil, &ParseError{Line: line, Field: trimmed, Err: errNotFinite}
			}
			series = append(series, val)
		}
	}
	return series, nil
}
