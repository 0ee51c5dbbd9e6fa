// Package integrity implements the sidecar hash file verifier (spec
// §4.7 "C7"): for every sidecar whose extension names a known hash
// algorithm, it either populates an empty sidecar or verifies a
// populated one against its target, in single-threaded or
// semaphore-bounded parallel mode.
package integrity

import (
	"encoding/hex"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/arjank/datachecker/internal/hashfamily"
	"github.com/arjank/datachecker/internal/logger"
	"github.com/arjank/datachecker/internal/types"
)

// Outcome is the terminal state a single sidecar run reports.
type Outcome int

const (
	Created Outcome = iota
	Verified
	Mismatch
	ReadError
	TargetNotFound
	Unrecognized // extension does not name a known algorithm; no action
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Verified:
		return "verified"
	case Mismatch:
		return "mismatch"
	case ReadError:
		return "read-error"
	case TargetNotFound:
		return "target-not-found"
	default:
		return "unrecognized"
	}
}

// Config configures one verifier run.
type Config struct {
	BufferSize int64
	Parallel   bool
	Sem        types.Semaphore
}

// Sidecar is a candidate sidecar file path, as yielded by the walker or
// cache (the dispatcher already filtered to files; extension
// recognition happens here).
type Sidecar struct {
	Abs string
}

// extensionAlgorithm maps a lowercase sidecar extension (without the
// leading dot) to its hash algorithm tag. Extensions follow the
// sidecar naming actually used on disk (e.g. img.png.sha256), which
// for the SHA-2 family drops the hyphen its tag string carries
// elsewhere.
var extensionAlgorithm = map[string]hashfamily.Algorithm{
	"ascon256":    hashfamily.Ascon256,
	"blake2b-128": hashfamily.BLAKE2b128,
	"blake2b-160": hashfamily.BLAKE2b160,
	"blake2b-256": hashfamily.BLAKE2b256,
	"blake2b-384": hashfamily.BLAKE2b384,
	"blake2b-512": hashfamily.BLAKE2b512,
	"blake2s-128": hashfamily.BLAKE2s128,
	"blake2s-160": hashfamily.BLAKE2s160,
	"blake2s-224": hashfamily.BLAKE2s224,
	"blake2s-256": hashfamily.BLAKE2s256,
	"blake3":      hashfamily.BLAKE3,
	"md5":         hashfamily.MD5,
	"sha1":        hashfamily.SHA1,
	"sha224":      hashfamily.SHA224,
	"sha256":      hashfamily.SHA256,
	"sha384":      hashfamily.SHA384,
	"sha512":      hashfamily.SHA512,
	"sha512_224":  hashfamily.SHA512_224,
	"sha512_256":  hashfamily.SHA512_256,
	"sha3-224":    hashfamily.SHA3_224,
	"sha3-256":    hashfamily.SHA3_256,
	"sha3-384":    hashfamily.SHA3_384,
	"sha3-512":    hashfamily.SHA3_512,
}

// Result is the per-sidecar outcome of one verification pass.
type Result struct {
	Sidecar string
	Target  string
	Outcome Outcome
}

// Run verifies or populates every sidecar in candidates, reporting each
// recognized one through reporter, and returns the number of sidecars
// that were recognized (processed) as the check's total-matches count.
func Run(candidates []Sidecar, cfg Config, reporter types.Reporter) int {
	if cfg.Parallel {
		return runParallel(candidates, cfg, reporter)
	}
	return runSerial(candidates, cfg, reporter)
}

func runSerial(candidates []Sidecar, cfg Config, reporter types.Reporter) int {
	matches := 0
	for _, s := range candidates {
		res := processOne(s.Abs, cfg.BufferSize)
		if res.Outcome == Unrecognized {
			continue
		}
		matches++
		report(reporter, res)
	}
	return matches
}

func runParallel(candidates []Sidecar, cfg Config, reporter types.Reporter) int {
	var mu sync.Mutex
	matches := 0

	done := make(chan struct{}, len(candidates))
	for _, s := range candidates {
		s := s
		cfg.Sem.Acquire()
		go func() {
			defer cfg.Sem.Release()
			defer func() { done <- struct{}{} }()

			res := processOne(s.Abs, cfg.BufferSize)
			if res.Outcome == Unrecognized {
				return
			}

			mu.Lock()
			matches++
			report(reporter, res)
			mu.Unlock()
		}()
	}
	for range candidates {
		<-done
	}
	return matches
}

func report(reporter types.Reporter, res Result) {
	switch res.Outcome {
	case Created:
		reporter.OK("integrity", res.Sidecar, "created "+res.Outcome.String())
	case Verified:
		reporter.OK("integrity", res.Sidecar, "verified")
	case Mismatch:
		reporter.Warning("integrity", res.Sidecar, "digest mismatch against "+res.Target)
	case ReadError:
		reporter.Error("integrity", res.Sidecar, "read error")
	case TargetNotFound:
		reporter.Error("integrity", res.Sidecar, "target not found: "+res.Target)
	}
}

// processOne implements the state machine of spec §4.7's table for a
// single sidecar path.
func processOne(sidecarAbs string, bufSize int64) Result {
	ext := strings.TrimPrefix(strings.ToLower(extOf(sidecarAbs)), ".")
	algo, ok := extensionAlgorithm[ext]
	if !ok {
		return Result{Sidecar: sidecarAbs, Outcome: Unrecognized}
	}

	target := strings.TrimSuffix(sidecarAbs, "."+extOfRaw(sidecarAbs))
	res := Result{Sidecar: sidecarAbs, Target: target}

	content, err := os.ReadFile(sidecarAbs)
	if err != nil {
		res.Outcome = ReadError
		logger.Warn("integrity: sidecar unreadable", "path", sidecarAbs, "error", err)
		return res
	}

	digestLen := digestLenFor(algo)
	wantHexLen := 2 * digestLen

	switch {
	case len(content) == 0:
		digest, err := digestTarget(target, algo, bufSize)
		if err != nil {
			if os.IsNotExist(err) {
				res.Outcome = TargetNotFound
			} else {
				res.Outcome = ReadError
			}
			return res
		}
		hexDigest := hex.EncodeToString(digest)
		if err := os.WriteFile(sidecarAbs, []byte(hexDigest), 0o644); err != nil {
			res.Outcome = ReadError
			return res
		}
		res.Outcome = Created
		return res

	case len(content) == wantHexLen:
		decoded, err := hex.DecodeString(string(content))
		if err != nil {
			res.Outcome = ReadError
			return res
		}
		digest, err := digestTarget(target, algo, bufSize)
		if err != nil {
			if os.IsNotExist(err) {
				res.Outcome = TargetNotFound
			} else {
				res.Outcome = ReadError
			}
			return res
		}
		if hex.EncodeToString(digest) == hex.EncodeToString(decoded) {
			res.Outcome = Verified
		} else {
			res.Outcome = Mismatch
		}
		return res

	default:
		// Any other length, including "2*digest_length - 1", is a
		// read-error per spec §8 boundary behavior, never a mismatch.
		res.Outcome = ReadError
		return res
	}
}

func digestTarget(target string, algo hashfamily.Algorithm, bufSize int64) ([]byte, error) {
	f, err := os.Open(target)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if bufSize > 0 {
		r = bufferedReader{r: f, size: int(bufSize)}
	}
	return hashfamily.DigestOf(algo, r)
}

// bufferedReader wraps a reader with an explicit chunk size, matching
// spec §4.3's "stream fixed-size chunks (config BUFFER_SIZE)" without
// depending on bufio's default size.
type bufferedReader struct {
	r    io.Reader
	size int
}

func (b bufferedReader) Read(p []byte) (int, error) {
	if len(p) > b.size {
		p = p[:b.size]
	}
	return b.r.Read(p)
}

func digestLenFor(algo hashfamily.Algorithm) int {
	switch algo {
	case hashfamily.MD5:
		return 16
	case hashfamily.SHA1:
		return 20
	case hashfamily.SHA224, hashfamily.SHA3_224, hashfamily.BLAKE2s224, hashfamily.SHA512_224:
		return 28
	case hashfamily.SHA256, hashfamily.SHA3_256, hashfamily.BLAKE2b256, hashfamily.BLAKE2s256, hashfamily.BLAKE3, hashfamily.Ascon256, hashfamily.SHA512_256:
		return 32
	case hashfamily.BLAKE2b160:
		return 20
	case hashfamily.BLAKE2b128, hashfamily.BLAKE2s128:
		return 16
	case hashfamily.SHA384, hashfamily.SHA3_384, hashfamily.BLAKE2b384:
		return 48
	case hashfamily.SHA512, hashfamily.SHA3_512, hashfamily.BLAKE2b512:
		return 64
	default:
		return 32
	}
}

func extOf(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	return path[i:]
}

func extOfRaw(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	return path[i+1:]
}
