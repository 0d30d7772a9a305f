// Package deploy records contract addresses per chain in
// addresses/<chainId>.json so deployment scripts and the node agree on them.
package deploy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// DefaultDir is where address files live, relative to the working directory.
const DefaultDir = "addresses"

var (
	ErrNoPairs      = errors.New("at least one name/address pair is required")
	ErrOddPairs     = errors.New("names and addresses must come in pairs")
	ErrBadChainID   = errors.New("chain id must be a positive integer")
	ErrEmptyName    = errors.New("contract name must not be empty")
	ErrEmptyAddress = errors.New("address must not be empty")
)

// Registry reads and writes address files below Dir.
type Registry struct {
	Dir string
}

// Path returns the file holding the addresses of chainID.
func (r Registry) Path(chainID uint64) string {
	return filepath.Join(r.Dir, strconv.FormatUint(chainID, 10)+".json")
}

// Load returns the addresses recorded for chainID; a missing file is empty.
func (r Registry) Load(chainID uint64) (map[string]string, error) {
	data, err := os.ReadFile(r.Path(chainID))
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", r.Path(chainID), err)
	}
	return out, nil
}

// Merge adds or overwrites entries and rewrites the file with sorted keys,
// two-space indent and a trailing newline.
func (r Registry) Merge(chainID uint64, entries map[string]string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, ErrNoPairs
	}
	current, err := r.Load(chainID)
	if err != nil {
		return nil, err
	}
	for name, addr := range entries {
		current[name] = addr
	}

	// encoding/json sorts map keys.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(current); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return nil, err
	}
	path := r.Path(chainID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return nil, err
	}
	if err := os.Rename(tmp, path); err != nil {
		return nil, err
	}
	return current, nil
}

// ParseArgs parses "<chainId> <name> <address> [<name> <address>...]".
func ParseArgs(args []string) (uint64, map[string]string, error) {
	if len(args) < 3 {
		return 0, nil, ErrNoPairs
	}
	chainID, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || chainID == 0 {
		return 0, nil, fmt.Errorf("%w: %q", ErrBadChainID, args[0])
	}
	rest := args[1:]
	if len(rest)%2 != 0 {
		return 0, nil, ErrOddPairs
	}
	entries := make(map[string]string, len(rest)/2)
	for i := 0; i < len(rest); i += 2 {
		name, addr := rest[i], rest[i+1]
		if name == "" {
			return 0, nil, ErrEmptyName
		}
		if addr == "" {
			return 0, nil, fmt.Errorf("%w: %s", ErrEmptyAddress, name)
		}
		entries[name] = addr
	}
	return chainID, entries, nil
}
