package sqlfill

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

// FileType is the tabular format a source is parsed as.
type FileType int

const (
	// FileTypeJSON represents a JSON array of objects (or a single object)
	FileTypeJSON FileType = iota
	// FileTypeCSV represents comma separated text
	FileTypeCSV
	// FileTypeTSV represents tab separated text
	FileTypeTSV
	// FileTypeXLSX represents an Excel workbook
	FileTypeXLSX
	// FileTypeParquet represents an Apache Parquet file
	FileTypeParquet
)

// File extensions
const (
	// extCSV is the CSV file extension
	extCSV = ".csv"
	// extTSV is the TSV file extension
	extTSV = ".tsv"
	// extTXT is treated as TSV
	extTXT = ".txt"
	// extXLSX is the Excel XLSX file extension
	extXLSX = ".xlsx"
	// extParquet is the Parquet file extension
	extParquet = ".parquet"
)

// String returns the format name
func (ft FileType) String() string {
	switch ft {
	case FileTypeCSV:
		return "csv"
	case FileTypeTSV:
		return "tsv"
	case FileTypeXLSX:
		return "xlsx"
	case FileTypeParquet:
		return "parquet"
	default:
		return "json"
	}
}

// isText reports whether the format is parsed from decoded text.
func (ft FileType) isText() bool {
	return ft == FileTypeJSON || ft == FileTypeCSV || ft == FileTypeTSV
}

// DetectFileType classifies a file by its name. Compression suffixes are
// stripped first and reported separately. Unknown extensions are JSON.
func DetectFileType(name string) (FileType, CompressionType) {
	compression := DetectCompressionType(name)
	base := removeCompressionExtension(name)

	switch strings.ToLower(filepath.Ext(base)) {
	case extCSV:
		return FileTypeCSV, compression
	case extTSV, extTXT:
		return FileTypeTSV, compression
	case extXLSX:
		return FileTypeXLSX, compression
	case extParquet:
		return FileTypeParquet, compression
	default:
		return FileTypeJSON, compression
	}
}

// Sniff chooses the parser for text. With a file name the extension decides;
// without one (pasted text) JSON is tried first, then TSV when the text
// contains a tab, else CSV.
func Sniff(name, text string) FileType {
	if name != "" {
		ft, _ := DetectFileType(name)
		return ft
	}
	return sniffText(text)
}

// sniffText classifies pasted text with no file name.
func sniffText(text string) FileType {
	if json.Valid([]byte(text)) {
		return FileTypeJSON
	}
	if strings.Contains(text, "\t") {
		return FileTypeTSV
	}
	return FileTypeCSV
}

// tableNameFromPath derives a dataset name from a file path
func tableNameFromPath(path string) string {
	name := removeCompressionExtension(filepath.Base(path))
	return strings.TrimSuffix(name, filepath.Ext(name))
}
