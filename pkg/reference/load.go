package reference

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/agentstation/taischeck/pkg/errors"
	"github.com/agentstation/taischeck/pkg/logging"
)

// artifactName is how the reference dataset is named in fatal errors.
const artifactName = "reference dataset"

// Load reads the reference dataset at path, choosing the reader by extension.
// sheet selects an xlsx worksheet; empty means the first sheet.
func Load(ctx context.Context, path, sheet string, opts ...Option) (*Table, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(path, sheet)
	case ".csv":
		rows, err = readCSV(path)
	default:
		return nil, errors.NewMalformedArtifact(artifactName, path, "unsupported file type (want .xlsx or .csv)", nil)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.NewMalformedArtifact(artifactName, path, "no header row", nil)
	}

	t := Build(rows[0], rows[1:], opts...)
	stats := t.Stats()
	logging.FromContext(ctx).Info().
		Str("path", path).
		Int("identifiers", t.Len()).
		Int("rows", stats.Rows).
		Int("skipped", stats.Skipped).
		Int("overwritten", stats.Overwritten).
		Msg("Loaded reference dataset")

	return t, nil
}

// readXLSX reads every row of one worksheet. The workbook is closed before returning.
func readXLSX(path, sheet string) ([][]string, error) {
	if err := exists(path); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewMalformedArtifact(artifactName, path, "cannot open workbook", err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.NewMalformedArtifact(artifactName, path, "workbook has no sheets", nil)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.NewMalformedArtifact(artifactName, path, "cannot read sheet "+sheet, err)
	}
	return rows, nil
}

// readCSV reads a comma separated dataset with a header row.
func readCSV(path string) ([][]string, error) {
	if err := exists(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewMalformedArtifact(artifactName, path, "cannot open file", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(skipBOM(f))
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.NewMalformedArtifact(artifactName, path, "invalid csv", err)
	}
	return rows, nil
}

// skipBOM drops a leading UTF-8 byte order mark, which spreadsheet tools add to CSV exports.
func skipBOM(r io.Reader) io.Reader {
	buf := make([]byte, 3)
	n, _ := io.ReadFull(r, buf)
	if n == 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF {
		return r
	}
	return io.MultiReader(strings.NewReader(string(buf[:n])), r)
}

func exists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewMissingArtifact(artifactName, path, err)
		}
		return errors.NewMalformedArtifact(artifactName, path, "cannot stat file", err)
	}
	if info.IsDir() {
		return errors.NewMalformedArtifact(artifactName, path, "is a directory", nil)
	}
	return nil
}

// Locate finds the reference dataset in dir. A file named fixed wins when it
// exists; otherwise the most recently modified codelist*.xlsx or codelist*.csv
// is used, ties broken by name.
func Locate(dir, fixed, prefix string) (string, error) {
	if fixed != "" {
		candidate := filepath.Join(dir, fixed)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", errors.NewMissingArtifact(artifactName, dir, err)
	}

	type candidate struct {
		path  string
		mtime int64
	}
	var found []candidate
	for _, e := range entries {
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if e.IsDir() || !strings.HasPrefix(name, prefix) || (ext != ".xlsx" && ext != ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, candidate{path: filepath.Join(dir, name), mtime: info.ModTime().UnixNano()})
	}

	if len(found) == 0 {
		return "", errors.NewMissingArtifact(artifactName, dir, errors.New("no "+prefix+"*.xlsx or "+prefix+"*.csv file found"))
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].mtime != found[j].mtime {
			return found[i].mtime > found[j].mtime
		}
		return found[i].path < found[j].path
	})
	return found[0].path, nil
}
