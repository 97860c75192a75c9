package facttable

import (
	"archive/zip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/transform"
)

// Loader failures. Callers distinguish them with errors.Is; per-file
// decode/parse problems are logged and skipped instead.
var (
	ErrNotFound        = errors.New("archive not found")
	ErrBadArchive      = errors.New("not a valid zip archive")
	ErrNoTabularFiles  = errors.New("no tabular files in archive")
	ErrNoReadableFiles = errors.New("no readable tabular files in archive")
)

// Load extracts the archive and parses every discovered tabular file into
// one Table. Extraction uses a fresh uniquely-named temporary directory
// that is removed on all exit paths, so concurrent Load calls do not share
// on-disk state.
//
// Discovered files are visited in lexicographic path order. Row order
// within and across files is preserved exactly: the extraction engine's
// final "first remaining fact wins" rule depends on it.
func Load(archivePath string) (*Table, error) {
	if _, err := os.Stat(archivePath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, archivePath)
	}

	workDir, err := os.MkdirTemp("", "edinet-facts-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	if err := extractZip(archivePath, workDir); err != nil {
		return nil, err
	}

	files, err := findTabularFiles(workDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTabularFiles, archivePath)
	}

	table := &Table{}
	for _, file := range files {
		facts, columns, err := parseTabularFile(file)
		if err != nil {
			log.Printf("skipping %s: %v", filepath.Base(file), err)
			continue
		}
		table.append(facts, columns, filepath.Base(file))
	}
	if len(table.Files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoReadableFiles, archivePath)
	}
	return table, nil
}

// extractZip unpacks the archive into destDir, refusing entries that
// would escape it.
func extractZip(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadArchive, archivePath, err)
	}
	defer reader.Close()

	for _, entry := range reader.File {
		name := filepath.FromSlash(entry.Name)
		if !filepath.IsLocal(name) {
			log.Printf("skipping unsafe archive entry %q", entry.Name)
			continue
		}
		dest := filepath.Join(destDir, name)
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return fmt.Errorf("failed to extract %s: %w", entry.Name, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("failed to extract %s: %w", entry.Name, err)
		}
		if err := writeZipEntry(entry, dest); err != nil {
			return fmt.Errorf("failed to extract %s: %w", entry.Name, err)
		}
	}
	return nil
}

func writeZipEntry(entry *zip.File, dest string) error {
	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}

// findTabularFiles collects every CSV-like file under root. WalkDir
// visits entries in lexical order, which pins the file iteration order.
func findTabularFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan extracted files: %w", err)
	}
	return files, nil
}

// parseTabularFile decodes one file and parses it as tab-separated fields.
// Decoding errors are substituted, not fatal; a file is only rejected when
// its charset cannot be detected or its header lacks the required columns.
func parseTabularFile(path string) ([]Fact, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	sample := make([]byte, detectionPrefix)
	n, err := f.Read(sample)
	if err != nil && err != io.EOF {
		return nil, nil, err
	}
	enc, name, err := detectEncoding(sample[:n])
	if err != nil {
		return nil, nil, err
	}
	log.Printf("detected encoding %s for %s", name, filepath.Base(path))

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, nil, err
	}

	reader := csv.NewReader(transform.NewReader(f, enc.NewDecoder()))
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	index := make(map[string]int, len(header))
	var columns []string
	for i, name := range header {
		name = strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")
		if name == "" {
			continue
		}
		index[name] = i
		columns = append(columns, name)
	}
	if _, ok := index[ColTagID]; !ok {
		return nil, nil, fmt.Errorf("missing %s column", ColTagID)
	}
	if _, ok := index[ColValue]; !ok {
		return nil, nil, fmt.Errorf("missing %s column", ColValue)
	}

	field := func(record []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var facts []Fact
	base := filepath.Base(path)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A torn row does not invalidate the rows already read.
			log.Printf("skipping malformed row in %s: %v", base, err)
			continue
		}
		facts = append(facts, Fact{
			TagID:        field(record, ColTagID),
			Label:        field(record, ColLabel),
			ContextID:    field(record, ColContextID),
			RelativeYear: field(record, ColRelativeYear),
			Scope:        field(record, ColScope),
			Unit:         field(record, ColUnit),
			RawValue:     field(record, ColValue),
			SourceFile:   base,
		})
	}
	return facts, columns, nil
}
