package storage

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/telemetry"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
	snapshotFile = "final.png"
)

// ErrRunNotFound is returned when a run directory has no metadata.
var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return errors.Wrapf(os.MkdirAll(s.baseDir, 0755), "init store %s", s.baseDir)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Simulation string             `json:"simulation"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	Frames     int                `json:"frames"`
	Config     *config.Config     `json:"config,omitempty"`
	Final      telemetry.Sample   `json:"final"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

// Save writes a new run directory holding meta and its samples. The ID and
// timestamp fields of meta are filled in. A run that fails to save leaves no
// directory behind.
func (s *Store) Save(meta RunMetadata, samples []telemetry.Sample) (_ string, err error) {
	meta.Timestamp = s.now()
	runID, runDir, err := s.mkRunDir(meta.Simulation, meta.Timestamp)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			if rerr := os.RemoveAll(runDir); rerr != nil {
				klog.Warningf("storage: cleaning up %s: %v", runID, rerr)
			}
		}
	}()
	meta.ID = runID
	if len(samples) > 0 {
		meta.Final = samples[len(samples)-1]
	}

	err = writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(meta), "encode metadata")
	})
	if err != nil {
		return "", err
	}

	err = writeFile(filepath.Join(runDir, samplesFile), func(w io.Writer) error {
		return telemetry.NewWriter(w).Write(samples...)
	})
	if err != nil {
		return "", err
	}

	klog.V(1).Infof("storage: saved %s (%d samples)", runID, len(samples))
	return runID, nil
}

// writeFile creates path and hands it to fill, reporting the close error
// when fill succeeds.
func writeFile(path string, fill func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", filepath.Base(path))
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = errors.Wrapf(cerr, "close %s", filepath.Base(path))
		}
	}()
	return fill(f)
}

// mkRunDir claims a fresh directory named after the simulation and time,
// adding a counter when two runs land in the same second.
func (s *Store) mkRunDir(simulation string, ts time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%d", simulation, ts.Unix())
	runID := base
	for i := 2; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !os.IsExist(err) {
			return "", "", errors.Wrapf(err, "create run %s", runID)
		}
		runID = fmt.Sprintf("%s-%d", base, i)
	}
}

// SaveSnapshot stores the last rendered frame of a run as PNG.
func (s *Store) SaveSnapshot(runID string, img image.Image) error {
	if _, err := s.Load(runID); err != nil {
		return err
	}
	path := filepath.Join(s.baseDir, runID, snapshotFile)
	err := writeFile(path, func(w io.Writer) error {
		return errors.Wrap(png.Encode(w, img), "encode snapshot")
	})
	if err != nil {
		os.Remove(path)
	}
	return err
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, errors.Wrap(err, "list runs")
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			klog.V(2).Infof("storage: skipping %s: %v", entry.Name(), err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
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
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrRunNotFound, runID)
		}
		return nil, errors.Wrapf(err, "read run %s", runID)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "decode run %s", runID)
	}
	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]telemetry.Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrRunNotFound, runID)
		}
		return nil, errors.Wrapf(err, "open samples %s", runID)
	}
	defer f.Close()

	samples, err := telemetry.Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "run %s", runID)
	}
	return samples, nil
}
