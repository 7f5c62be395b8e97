package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cirkolabs/izdaj/internal/target"
)

// JournalFilename is the run journal's name inside the output directory.
const JournalFilename = ".izdaj-run.json"

// journalVersion is the schema version for future evolution.
const journalVersion = 1

// TargetRecord is the journal entry for a single target.
type TargetRecord struct {
	Target    string `json:"target"`
	State     string `json:"state"`
	Archive   string `json:"archive,omitempty"`
	Signature string `json:"signature,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

// Journal records a release run's identity and per-target outcomes. It is
// written into the output directory so a failed run's partial output can be
// diagnosed; the next run's Reset discards it along with the artifacts.
//
// Journal is safe for concurrent updates from parallel target pipelines.
type Journal struct {
	mu sync.Mutex

	Version   int            `json:"version"`
	ID        string         `json:"id"` // UUID for unique identification
	Started   time.Time      `json:"started"`
	ReleaseID string         `json:"release_id,omitempty"`
	Targets   []TargetRecord `json:"targets"`
}

// NewJournal creates a journal covering the given catalog, every target in
// the initial state.
func NewJournal(releaseID string, catalog target.Catalog, initialState string) *Journal {
	records := make([]TargetRecord, len(catalog))
	for i, t := range catalog {
		records[i] = TargetRecord{Target: t.String(), State: initialState}
	}

	return &Journal{
		Version:   journalVersion,
		ID:        uuid.New().String(),
		Started:   time.Now().UTC(),
		ReleaseID: releaseID,
		Targets:   records,
	}
}

// SetState records a target's new pipeline state.
func (j *Journal) SetState(t target.Target, state string) {
	j.update(t, func(rec *TargetRecord) { rec.State = state })
}

// SetArchive records the archive path produced for a target.
func (j *Journal) SetArchive(t target.Target, path string) {
	j.update(t, func(rec *TargetRecord) { rec.Archive = path })
}

// SetSignature records the signature path produced for a target.
func (j *Journal) SetSignature(t target.Target, path string) {
	j.update(t, func(rec *TargetRecord) { rec.Signature = path })
}

// SetError records a target's failure message.
func (j *Journal) SetError(t target.Target, err error) {
	j.update(t, func(rec *TargetRecord) { rec.LastError = err.Error() })
}

// State returns a target's recorded state.
func (j *Journal) State(t target.Target) string {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := range j.Targets {
		if j.Targets[i].Target == t.String() {
			return j.Targets[i].State
		}
	}
	return ""
}

func (j *Journal) update(t target.Target, fn func(*TargetRecord)) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := range j.Targets {
		if j.Targets[i].Target == t.String() {
			fn(&j.Targets[i])
			return
		}
	}
}

// Save writes the journal into the given directory.
func (j *Journal) Save(dir string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal journal: %w", err)
	}

	path := filepath.Join(dir, JournalFilename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}

// LoadJournal reads a journal back from the given directory.
func LoadJournal(dir string) (*Journal, error) {
	data, err := os.ReadFile(filepath.Join(dir, JournalFilename))
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}

	var j Journal
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse journal: %w", err)
	}
	return &j, nil
}
