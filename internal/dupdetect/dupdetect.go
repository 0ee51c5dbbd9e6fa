// Package dupdetect implements the duplicate-file detector (spec §4.6
// "C6"): a three-stage filter — group by size, optionally accelerate
// with a parallel hash pass, then confirm every candidate byte-by-byte.
// Hashing is only ever a heuristic; the reported clusters are always
// confirmed byte-identical, grounded in the teacher's own screener
// (size grouping) and verifier (worker-pool-bounded hashing) packages,
// adapted here into read-only comparison instead of the teacher's
// hardlink/dedupe rewrite.
package dupdetect

import (
	"io"
	"os"
	"sort"
	"sync"

	"github.com/arjank/datachecker/internal/hashfamily"
	"github.com/arjank/datachecker/internal/logger"
	"github.com/arjank/datachecker/internal/types"
)

// FileEntry is the minimal per-file information the detector needs. The
// dispatcher supplies these already stat'd (from the cache or a fresh
// walk), so this package never stats a path itself.
type FileEntry struct {
	Abs  string
	Size int64
}

// Config configures one detector run.
type Config struct {
	BufferSize int64
	Parallel   bool
	Sem        types.Semaphore // required when Parallel is true
}

// Cluster is one surviving group of byte-identical files, head first
// (the file every later member was compared against).
type Cluster struct {
	Paths []string
	Size  int64
}

// Run executes the detector over entries — already filtered by the
// caller to size>0 regular files — and reports every surviving cluster
// through reporter. It returns the number of files found to be
// duplicates (every cluster member, including the head) and the total
// wasted bytes (spec §8 invariant 1: wasted = size * (members-1) per
// cluster, summed).
func Run(entries []FileEntry, cfg Config, reporter types.Reporter) (matches int, wastedBytes int64) {
	bySize := groupBySize(entries)

	// Deterministic-enough iteration: spec §5 only promises clusters for
	// different size groups come out in decreasing size-map index order
	// as an implementation detail tests must not depend on; sorting by
	// size descending here is a reasonable, stable rendition of that.
	sizes := make([]int64, 0, len(bySize))
	for sz := range bySize {
		sizes = append(sizes, sz)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] > sizes[j] })

	for _, sz := range sizes {
		bucket := bySize[sz]
		if len(bucket) < 2 {
			continue
		}

		var clusters []Cluster
		if cfg.Parallel {
			clusters = clusterViaHash(bucket, cfg)
		} else {
			clusters = clusterDirect(bucket, cfg.BufferSize)
		}

		for _, c := range clusters {
			if len(c.Paths) < 2 {
				continue
			}
			matches += len(c.Paths)
			wastedBytes += c.Size * int64(len(c.Paths)-1)
			reporter.DuplicateCluster(c.Size, c.Paths)
		}
	}

	return matches, wastedBytes
}

func groupBySize(entries []FileEntry) map[int64][]FileEntry {
	groups := make(map[int64][]FileEntry)
	for _, e := range entries {
		if e.Size == 0 {
			continue // zero-byte files excluded from duplicate detection
		}
		groups[e.Size] = append(groups[e.Size], e)
	}
	return groups
}

// clusterDirect performs incremental clustering (spec §4.6 stage 3):
// each path is compared only against the head of each existing cluster,
// transitivity of byte-equality justifying skipping the rest of the
// cluster.
func clusterDirect(bucket []FileEntry, bufSize int64) []Cluster {
	var clusters []Cluster

	for _, e := range bucket {
		placed := false
		for i := range clusters {
			head := clusters[i].Paths[0]
			eq, err := byteEqual(head, e.Abs, bufSize)
			if err != nil {
				logger.Warn("duplicate compare failed", "a", head, "b", e.Abs, "error", err)
				continue
			}
			if eq {
				clusters[i].Paths = append(clusters[i].Paths, e.Abs)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, Cluster{Paths: []string{e.Abs}, Size: e.Size})
		}
	}

	return clusters
}

// clusterViaHash inserts the parallel hash-acceleration stage (spec
// §4.6 "parallel pipeline"): one BLAKE3 digest per candidate computed by
// a semaphore-bounded worker pool, buckets of cardinality 1 pruned, then
// direct byte-by-byte clustering run on each surviving bucket.
func clusterViaHash(bucket []FileEntry, cfg Config) []Cluster {
	buckets := hashBucket(bucket, cfg.Sem)

	var clusters []Cluster
	for _, members := range buckets {
		if len(members) < 2 {
			continue
		}
		clusters = append(clusters, clusterDirect(members, cfg.BufferSize)...)
	}
	return clusters
}

func hashBucket(bucket []FileEntry, sem types.Semaphore) map[string][]FileEntry {
	results := make(map[string][]FileEntry)
	var mu sync.Mutex

	done := make(chan struct{}, len(bucket))
	for _, e := range bucket {
		e := e
		sem.Acquire()
		go func() {
			defer sem.Release()
			defer func() { done <- struct{}{} }()

			digest, err := digestFile(e.Abs)
			if err != nil {
				logger.Warn("duplicate hash failed", "path", e.Abs, "error", err)
				return
			}

			key := string(digest)
			mu.Lock()
			results[key] = append(results[key], e)
			mu.Unlock()
		}()
	}
	for range bucket {
		<-done
	}
	return results
}

func digestFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return hashfamily.DigestOf(hashfamily.BLAKE3, f)
}

// byteEqual performs the paired-buffer byte-by-byte comparison (spec
// §4.6): a buffer of size bufSize is split in half, one half serving
// each reader, read in lockstep until mismatch or both reach EOF. Files
// are assumed pre-filtered to identical size.
func byteEqual(pathA, pathB string, bufSize int64) (bool, error) {
	fa, err := os.Open(pathA)
	if err != nil {
		return false, err
	}
	defer func() { _ = fa.Close() }()

	fb, err := os.Open(pathB)
	if err != nil {
		return false, err
	}
	defer func() { _ = fb.Close() }()

	if bufSize < 2 {
		bufSize = 2
	}
	half := bufSize / 2
	bufA := make([]byte, half)
	bufB := make([]byte, half)

	for {
		na, erra := io.ReadFull(fa, bufA)
		nb, errb := io.ReadFull(fb, bufB)

		if na != nb {
			return false, nil
		}
		if na > 0 && string(bufA[:na]) != string(bufB[:nb]) {
			return false, nil
		}

		aDone := erra == io.EOF || erra == io.ErrUnexpectedEOF
		bDone := errb == io.EOF || errb == io.ErrUnexpectedEOF

		if aDone && bDone {
			return true, nil
		}
		if aDone != bDone {
			return false, nil
		}
		if erra != nil && !aDone {
			return false, erra
		}
		if errb != nil && !bDone {
			return false, errb
		}
	}
}
