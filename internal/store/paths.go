package store

import "path/filepath"

// FileName is the name of the task file in both the canonical and legacy
// directories.
const FileName = "todos.json"

// Paths locates the task file.
type Paths struct {
	// Dir is created on Initialize.
	Dir string
	// File is the canonical task file.
	File string
	// LegacyFile is only read during first-run migration. Empty disables it.
	LegacyFile string
}

// NewPaths builds Paths for a data directory and an optional legacy
// directory.
func NewPaths(dataDir, legacyDir string) Paths {
	p := Paths{
		Dir:  dataDir,
		File: filepath.Join(dataDir, FileName),
	}
	if legacyDir != "" {
		p.LegacyFile = filepath.Join(legacyDir, FileName)
	}
	return p
}
