// Package roster defines the worker personas that draft candidate answers and
// the fixed judge panel that ranks them.
//
// Rosters are immutable once constructed: Select hands out copies, and no
// stage of the pipeline mutates a persona. A roster can be loaded from YAML
// or built from the compiled-in default set.
package roster

import (
	"fmt"
	"os"

	yaml "go.yaml.in/yaml/v2"
)

// DefaultMaxWorkers caps the number of workers a single turn may fan out to,
// regardless of what the caller requests.
const DefaultMaxWorkers = 64

// Worker is a specialist persona used to produce one candidate answer per turn.
type Worker struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Role        string `yaml:"role"`
	Instruction string `yaml:"instruction"`
	Model       string `yaml:"model"`
}

// Judge is an evaluator persona used to produce one ranked ballot per turn.
type Judge struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Role        string `yaml:"role"`
	Instruction string `yaml:"instruction"`
	Model       string `yaml:"model"`
}

// Roster holds the available worker personas and the fixed judge panel.
type Roster struct {
	workers    []Worker
	judges     []Judge
	maxWorkers int
}

// New creates a roster from explicit persona lists. A maxWorkers value of
// zero or less falls back to DefaultMaxWorkers.
func New(workers []Worker, judges []Judge, maxWorkers int) *Roster {
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}
	w := make([]Worker, len(workers))
	copy(w, workers)
	j := make([]Judge, len(judges))
	copy(j, judges)
	return &Roster{workers: w, judges: j, maxWorkers: maxWorkers}
}

// rosterFile is the YAML shape for Load.
type rosterFile struct {
	MaxWorkers int      `yaml:"max_workers"`
	Workers    []Worker `yaml:"workers"`
	Judges     []Judge  `yaml:"judges"`
}

// Load reads a roster definition from a YAML file.
//
// Returns an error if the file cannot be read, the YAML is invalid, or the
// definition contains no workers or fewer than three judges.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	var file rosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse roster YAML: %w", err)
	}

	if len(file.Workers) == 0 {
		return nil, fmt.Errorf("roster %s defines no workers", path)
	}
	if len(file.Judges) < 3 {
		return nil, fmt.Errorf("roster %s defines %d judges, need at least 3", path, len(file.Judges))
	}

	return New(file.Workers, file.Judges, file.MaxWorkers), nil
}

// Select returns the worker personas for a turn.
//
// The requested count is clamped to min(max(n, 1), maxWorkers, roster size),
// so the result is never empty and never exceeds what is available. The
// operation is total: there is no failure mode.
func (r *Roster) Select(n int) []Worker {
	if n < 1 {
		n = 1
	}
	if n > r.maxWorkers {
		n = r.maxWorkers
	}
	if n > len(r.workers) {
		n = len(r.workers)
	}

	selected := make([]Worker, n)
	copy(selected, r.workers[:n])
	return selected
}

// Judges returns the full fixed judge panel. No selection logic applies.
func (r *Roster) Judges() []Judge {
	panel := make([]Judge, len(r.judges))
	copy(panel, r.judges)
	return panel
}

// Size returns the number of worker personas available.
func (r *Roster) Size() int {
	return len(r.workers)
}
