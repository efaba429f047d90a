// Package snapshot persists store state as a YAML file between invocations.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/bugtrack/internal/store"
)

const fileMode = 0o600

// header is written above the YAML document.
const header = "# bugtrack task snapshot. Edit with care; ids must stay unique.\n"

// Load reads the snapshot at path. A missing file yields an empty state.
func Load(path string) (store.State, error) {
	data, err := os.ReadFile(path) //nolint:gosec // snapshot path inside workspace dir
	if errors.Is(err, os.ErrNotExist) {
		return store.State{NextID: 1}, nil
	}
	if err != nil {
		return store.State{}, fmt.Errorf("reading snapshot: %w", err)
	}

	var st store.State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return store.State{}, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	if st.NextID < 1 {
		st.NextID = 1
	}
	return st, nil
}

// Save writes st to path. The file is replaced atomically so readers never
// observe a partial snapshot.
func Save(path string, st store.State) error {
	body, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.WriteString(header); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}
