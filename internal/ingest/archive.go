package ingest

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/paths"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/utils"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Entry is one file pulled out of a dataset bundle.
type Entry struct {
	Name string
	Data []byte
}

// IsArchive reports whether the filename carries a bundle extension the
// extractor understands.
func IsArchive(filename string) bool {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".zip"),
		strings.HasSuffix(name, ".tar"),
		strings.HasSuffix(name, ".tar.gz"),
		strings.HasSuffix(name, ".tgz"),
		strings.HasSuffix(name, ".tar.zst"),
		strings.HasSuffix(name, ".gz"),
		strings.HasSuffix(name, ".zst"):
		return true
	}
	return false
}

// ExtractArchive expands a dataset bundle into its file entries in memory.
// Supported formats: zip, tar, tar.gz/tgz, tar.zst, and single-member
// gzip/zstd. Directory entries, unsafe entry names, and entries above the
// document size limit are skipped.
func ExtractArchive(data []byte, filename string) ([]Entry, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".zip"):
		return extractZip(data)
	case strings.HasSuffix(name, ".tar"):
		return extractTar(tar.NewReader(bytes.NewReader(data)))
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", filename, err)
		}
		defer gz.Close()
		return extractTar(tar.NewReader(gz))
	case strings.HasSuffix(name, ".tar.zst"):
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", filename, err)
		}
		defer zr.Close()
		return extractTar(tar.NewReader(zr))
	case strings.HasSuffix(name, ".gz"):
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", filename, err)
		}
		defer gz.Close()
		return extractSingle(gz, innerName(filename, ".gz"))
	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", filename, err)
		}
		defer zr.Close()
		return extractSingle(zr, innerName(filename, ".zst"))
	}
	return nil, fmt.Errorf("extract %s: unsupported archive format", filename)
}

func extractZip(data []byte) ([]Entry, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("extract zip: %w", err)
	}
	var entries []Entry
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		entryName, err := paths.SafeEntryName(file.Name)
		if err != nil {
			continue
		}
		if file.UncompressedSize64 > uint64(utils.MaxDocumentSize) {
			continue
		}
		src, err := file.Open()
		if err != nil {
			continue
		}
		content, err := readCapped(src)
		src.Close()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Name: entryName, Data: content})
	}
	return entries, nil
}

func extractTar(reader *tar.Reader) ([]Entry, error) {
	var entries []Entry
	for {
		header, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return entries, fmt.Errorf("extract tar: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		entryName, err := paths.SafeEntryName(header.Name)
		if err != nil {
			continue
		}
		if header.Size > int64(utils.MaxDocumentSize) {
			continue
		}
		content, err := readCapped(reader)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Name: entryName, Data: content})
	}
	return entries, nil
}

func extractSingle(r io.Reader, name string) ([]Entry, error) {
	content, err := readCapped(r)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", name, err)
	}
	return []Entry{{Name: name, Data: content}}, nil
}

// readCapped reads a whole entry, refusing anything past the document size
// limit so a crafted bundle cannot exhaust memory.
func readCapped(r io.Reader) ([]byte, error) {
	content, err := io.ReadAll(io.LimitReader(r, int64(utils.MaxDocumentSize)+1))
	if err != nil {
		return nil, err
	}
	if len(content) > utils.MaxDocumentSize {
		return nil, fmt.Errorf("entry exceeds %d bytes", utils.MaxDocumentSize)
	}
	return content, nil
}

func innerName(filename, ext string) string {
	base := filepath.Base(filename)
	if trimmed := strings.TrimSuffix(base, ext); trimmed != "" {
		return trimmed
	}
	return base
}
