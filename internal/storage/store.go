package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/crush-robotics/turtle-locomotion-oracles/internal/oracle"
	"github.com/crush-robotics/turtle-locomotion-oracles/internal/sampling"
)

var ErrCorruptRun = errors.New("storage: corrupt run data")

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string           `json:"id"`
	Oracle    string           `json:"oracle"`
	Timestamp time.Time        `json:"timestamp"`
	Scale     oracle.Scale     `json:"scale"`
	Offset    oracle.Vec3      `json:"offset"`
	Period    float64          `json:"period"`
	Start     float64          `json:"start"`
	Stop      float64          `json:"stop"`
	Samples   int              `json:"samples"`
	Columns   []string         `json:"columns"`
	Groups    []sampling.Group `json:"groups"`
}

// Save writes a sampled run and returns its id. ID, Timestamp, Samples,
// Columns and Groups of meta are filled in from the result.
func (s *Store) Save(meta RunMetadata, result *sampling.Result) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Oracle, now.UnixNano())
	meta.Timestamp = now
	meta.Samples = len(result.Times)
	meta.Columns = result.Columns
	meta.Groups = result.Groups

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, samplesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// WriteCSV writes a header of time plus column names and one record per
// sample.
func WriteCSV(out io.Writer, result *sampling.Result) error {
	w := csv.NewWriter(out)
	if err := w.Write(append([]string{"time"}, result.Columns...)); err != nil {
		return err
	}
	for i, row := range result.Rows {
		record := make([]string, 0, len(row)+1)
		record = append(record, formatFloat(result.Times[i]))
		for _, val := range row {
			record = append(record, formatFloat(val))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// formatFloat keeps full precision so stored samples can still serve as
// ground truth.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns all readable runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadResult reads the samples of a run back into a sampling result.
func (s *Store) LoadResult(runID string) (*RunMetadata, *sampling.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: %s has no header", ErrCorruptRun, runID)
	}

	res := &sampling.Result{
		Times:   make([]float64, 0, len(records)-1),
		Columns: records[0][1:],
		Groups:  meta.Groups,
		Rows:    make([][]float64, 0, len(records)-1),
	}
	for line, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %s line %d: %v", ErrCorruptRun, runID, line+2, err)
			}
			vals[j] = v
		}
		res.Times = append(res.Times, vals[0])
		res.Rows = append(res.Rows, vals[1:])
	}

	return meta, res, nil
}

// ExportJSON writes metadata and samples as one indented JSON document.
func ExportJSON(path string, meta *RunMetadata, result *sampling.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return EncodeJSON(file, meta, result)
}

type exportData struct {
	*RunMetadata
	Times []float64   `json:"times"`
	Rows  [][]float64 `json:"rows"`
}

func EncodeJSON(w io.Writer, meta *RunMetadata, result *sampling.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportData{RunMetadata: meta, Times: result.Times, Rows: result.Rows})
}
