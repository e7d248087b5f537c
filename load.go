package framesql

import (
	"compress/bzip2"
	"compress/gzip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"golang.org/x/sync/errgroup"
)

// Compression extensions recognized by FromPath.
const (
	extGZ   = ".gz"
	extBZ2  = ".bz2"
	extXZ   = ".xz"
	extZSTD = ".zst"
)

// File format delimiters.
const (
	csvDelimiter = ','
	tsvDelimiter = '\t'
)

// FromCSV loads comma-separated data into a frame. The first record is the
// header; column kinds are inferred from the values and cells are parsed
// accordingly, with empty cells becoming Missing.
func FromCSV(r io.Reader) (*Frame, error) {
	return fromDelimited(r, csvDelimiter, "CSV")
}

// FromTSV loads tab-separated data into a frame.
func FromTSV(r io.Reader) (*Frame, error) {
	return fromDelimited(r, tsvDelimiter, "TSV")
}

func fromDelimited(r io.Reader, delimiter rune, formatName string) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("framesql: read %s: %w", formatName, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s without header", ErrEmptyData, formatName)
	}

	return frameFromRecords(records[0], records[1:])
}

// frameFromRecords builds a typed frame from a header and raw string rows.
// Kinds are inferred per column; short rows are padded with empty cells.
func frameFromRecords(header []string, records [][]string) (*Frame, error) {
	if err := validateColumnNames(header); err != nil {
		return nil, err
	}

	raw := make([][]string, len(header))
	for _, record := range records {
		for i := range header {
			value := ""
			if i < len(record) {
				value = record[i]
			}
			raw[i] = append(raw[i], value)
		}
	}

	columns := make([]Column, len(header))
	for i, name := range header {
		kind := inferKind(raw[i])
		values := make([]any, len(raw[i]))
		for j, cell := range raw[i] {
			values[j] = parseCell(cell, kind)
		}
		columns[i] = Column{Name: name, Kind: kind, Values: values}
	}
	return NewFrame(columns...)
}

// FromPath loads a file into a frame, dispatching on its extension:
// .csv, .tsv, .parquet, and .xlsx, optionally compressed with
// .gz, .bz2, .xz, or .zst.
func FromPath(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("framesql: open %s: %w", path, err)
	}
	defer file.Close()

	reader, closeReader, err := decompressedReader(file, path)
	if err != nil {
		return nil, err
	}
	if closeReader != nil {
		defer closeReader()
	}

	switch baseExtension(path) {
	case ".csv":
		return FromCSV(reader)
	case ".tsv":
		return FromTSV(reader)
	case ".parquet":
		return FromParquet(reader)
	case ".xlsx":
		return FromXLSX(reader, "")
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}
}

// TableNameFromPath derives a table name from a file path by stripping the
// compression extension and then the format extension: "data.csv.gz"
// becomes "data".
func TableNameFromPath(path string) string {
	name := filepath.Base(path)
	for _, ext := range []string{extGZ, extBZ2, extXZ, extZSTD} {
		if strings.HasSuffix(name, ext) {
			name = strings.TrimSuffix(name, ext)
			break
		}
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// FramesFromPaths loads multiple files concurrently, one goroutine per path,
// and returns the frames keyed by TableNameFromPath. File loading is
// independent per path; database writes remain strictly sequential per
// connection regardless.
func FramesFromPaths(ctx context.Context, paths ...string) (map[string]*Frame, error) {
	frames := make([]*Frame, len(paths))

	g, _ := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			frame, err := FromPath(path)
			if err != nil {
				return err
			}
			frames[i] = frame
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make(map[string]*Frame, len(paths))
	for i, path := range paths {
		result[TableNameFromPath(path)] = frames[i]
	}
	return result, nil
}

// baseExtension returns the format extension with any compression extension
// stripped: "data.csv.gz" yields ".csv".
func baseExtension(path string) string {
	name := filepath.Base(path)
	for _, ext := range []string{extGZ, extBZ2, extXZ, extZSTD} {
		name = strings.TrimSuffix(name, ext)
	}
	return strings.ToLower(filepath.Ext(name))
}

// decompressedReader wraps the reader with the decompressor matching the
// path's extension. The returned close function, when non-nil, must be
// called after reading.
func decompressedReader(r io.Reader, path string) (io.Reader, func(), error) {
	switch {
	case strings.HasSuffix(path, extGZ):
		gzReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("framesql: gzip reader for %s: %w", path, err)
		}
		return gzReader, func() { _ = gzReader.Close() }, nil
	case strings.HasSuffix(path, extBZ2):
		return bzip2.NewReader(r), nil, nil
	case strings.HasSuffix(path, extXZ):
		xzReader, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("framesql: xz reader for %s: %w", path, err)
		}
		return xzReader, nil, nil
	case strings.HasSuffix(path, extZSTD):
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("framesql: zstd reader for %s: %w", path, err)
		}
		return decoder, decoder.Close, nil
	default:
		return r, nil, nil
	}
}
