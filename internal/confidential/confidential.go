// Package confidential implements the confidential-content scanner
// (spec §4.8 "C8"): one Aho-Corasick matcher built from literal string
// patterns and base64-decoded byte patterns, streamed against every
// regular file, reporting on the first hit and then moving on.
package confidential

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/arjank/datachecker/internal/matcher"
	"github.com/arjank/datachecker/internal/types"
)

// Scanner holds a built matcher over literal and base64-decoded
// patterns, plus the chunk size used when streaming each candidate file.
type Scanner struct {
	m          *matcher.Matcher
	bufferSize int64
}

// New builds a Scanner. Invalid base64 in base64Patterns is an
// *InvalidPatternEncoding* fatal configuration error (spec §7),
// reported before any file is scanned. An empty combined pattern list is
// valid: the resulting scanner simply yields no hits.
func New(literalPatterns, base64Patterns []string, bufferSize int64) (*Scanner, error) {
	var patterns [][]byte
	for _, p := range literalPatterns {
		if p == "" {
			continue
		}
		patterns = append(patterns, []byte(p))
	}
	for _, b := range base64Patterns {
		decoded, err := base64.StdEncoding.DecodeString(b)
		if err != nil {
			return nil, fmt.Errorf("confidential: invalid base64 pattern %q: %w", b, err)
		}
		if len(decoded) == 0 {
			continue
		}
		patterns = append(patterns, decoded)
	}

	m, err := matcher.New(patterns)
	if err != nil {
		return nil, err
	}

	if bufferSize <= 0 {
		bufferSize = 1 << 16
	}

	return &Scanner{m: m, bufferSize: bufferSize}, nil
}

// ScanFile streams path through the matcher, stopping at the first hit.
// It returns true if any pattern matched anywhere in the file.
func (s *Scanner) ScanFile(path string) (bool, error) {
	if s.m.NumPatterns() == 0 {
		return false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer func() { _ = f.Close() }()

	state := s.m.Reset()
	buf := make([]byte, s.bufferSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			var matched bool
			state, matched = s.m.Feed(state, buf[:n])
			if matched {
				return true, nil
			}
		}
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}
}

// Run scans every candidate path, reporting a confidential-content
// finding for each file that matches, and returns the number of files
// reported.
func Run(s *Scanner, paths []string, reporter types.Reporter) int {
	matches := 0
	for _, p := range paths {
		hit, err := s.ScanFile(p)
		if err != nil {
			reporter.Error("confidential", p, "read error during scan")
			continue
		}
		if hit {
			matches++
			reporter.Check("confidential", p, "confidential content detected")
		}
	}
	return matches
}
