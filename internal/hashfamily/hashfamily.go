// Package hashfamily wraps every digest algorithm the integrity verifier
// and parallel duplicate hasher can be configured to use (spec §4.3 "C3"
// and §3 "HashSidecar") behind one Algorithm -> hash.Hash registry, so
// callers stream a file through io.Copy exactly once regardless of which
// algorithm a sidecar or a config file names.
//
// BLAKE3 comes from the teacher's own dependency (github.com/zeebo/blake3,
// as used in Lucho00Cuba-mtc's merkle engine); the BLAKE2 and SHA-3
// family come from golang.org/x/crypto, present transitively across the
// pack (mutagen-io/mutagen, ivoronin/dupedog) and pulled in directly
// here. MD5 and the SHA-1/SHA-2 family come from the standard library:
// no pack dependency wraps them (they are considered part of Go's core
// crypto surface, not an ecosystem extension, the same way the teacher
// repos use crypto/sha256 directly rather than importing a wrapper for
// it). Ascon-256 has no pack or ecosystem Go implementation at all, so
// it is hand-written in ascon256.go.
package hashfamily

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

// Algorithm names the supported digest families. Spelling matches the
// HashSidecar's ALGORITHM field (spec §3) so config values round-trip
// without translation.
type Algorithm string

const (
	Ascon256     Algorithm = "ascon-256"
	BLAKE2b128   Algorithm = "blake2b-128"
	BLAKE2b160   Algorithm = "blake2b-160"
	BLAKE2b256   Algorithm = "blake2b-256"
	BLAKE2b384   Algorithm = "blake2b-384"
	BLAKE2b512   Algorithm = "blake2b-512"
	BLAKE2s128   Algorithm = "blake2s-128"
	BLAKE2s160   Algorithm = "blake2s-160"
	BLAKE2s224   Algorithm = "blake2s-224"
	BLAKE2s256   Algorithm = "blake2s-256"
	BLAKE3       Algorithm = "blake3"
	MD5          Algorithm = "md5"
	SHA1         Algorithm = "sha1"
	SHA224       Algorithm = "sha224"
	SHA256       Algorithm = "sha256"
	SHA384       Algorithm = "sha384"
	SHA512       Algorithm = "sha512"
	SHA512_224   Algorithm = "sha512-224"
	SHA512_256   Algorithm = "sha512-256"
	SHA3_224     Algorithm = "sha3-224"
	SHA3_256     Algorithm = "sha3-256"
	SHA3_384     Algorithm = "sha3-384"
	SHA3_512     Algorithm = "sha3-512"
)

// newHasher constructs a fresh hash.Hash for algo. blake2b/blake2s
// variants take an explicit output length in bytes; New never fails for
// the lengths this package offers, so the error returns are discarded
// after construction-time validation in init.
func newHasher(algo Algorithm) (hash.Hash, error) {
	switch algo {
	case Ascon256:
		return newAsconHasher(), nil
	case BLAKE2b128:
		return mustBlake2b(16)
	case BLAKE2b160:
		return mustBlake2b(20)
	case BLAKE2b256:
		return mustBlake2b(32)
	case BLAKE2b384:
		return mustBlake2b(48)
	case BLAKE2b512:
		return mustBlake2b(64)
	case BLAKE2s128:
		return blake2s.New128(nil)
	case BLAKE2s160:
		return newBlake2sXOF(20)
	case BLAKE2s224:
		return newBlake2sXOF(28)
	case BLAKE2s256:
		return blake2s.New256(nil)
	case BLAKE3:
		return blake3.New(), nil
	case MD5:
		return md5.New(), nil
	case SHA1:
		return sha1.New(), nil
	case SHA224:
		return sha256.New224(), nil
	case SHA256:
		return sha256.New(), nil
	case SHA384:
		return sha512.New384(), nil
	case SHA512:
		return sha512.New(), nil
	case SHA512_224:
		return sha512.New512_224(), nil
	case SHA512_256:
		return sha512.New512_256(), nil
	case SHA3_224:
		return sha3.New224(), nil
	case SHA3_256:
		return sha3.New256(), nil
	case SHA3_384:
		return sha3.New384(), nil
	case SHA3_512:
		return sha3.New512(), nil
	default:
		return nil, fmt.Errorf("hashfamily: unknown algorithm %q", algo)
	}
}

func mustBlake2b(size int) (hash.Hash, error) { return blake2b.New(size, nil) }

// blake2sXOF adapts blake2s.XOF to hash.Hash for the 160/224-bit
// digest sizes golang.org/x/crypto/blake2s doesn't expose a fixed
// constructor for (only New128 and New256 return a hash.Hash
// directly; every other width has to go through the variable-length
// XOF reader).
type blake2sXOF struct {
	size int
	xof  blake2s.XOF
}

func newBlake2sXOF(size int) (hash.Hash, error) {
	xof, err := blake2s.NewXOF(uint32(size), nil)
	if err != nil {
		return nil, err
	}
	return &blake2sXOF{size: size, xof: xof}, nil
}

func (h *blake2sXOF) Write(p []byte) (int, error) { return h.xof.Write(p) }
func (h *blake2sXOF) Reset()                      { h.xof.Reset() }
func (h *blake2sXOF) Size() int                    { return h.size }
func (h *blake2sXOF) BlockSize() int              { return 64 }

func (h *blake2sXOF) Sum(b []byte) []byte {
	out := make([]byte, h.size)
	if _, err := io.ReadFull(h.xof.Clone(), out); err != nil {
		panic("hashfamily: blake2s xof: " + err.Error())
	}
	return append(b, out...)
}

// DigestOf streams r through algo's hasher and returns the raw digest
// bytes. Callers needing a hex string wrap the result with
// encoding/hex.EncodeToString, matching the HashSidecar's file format
// (spec §3: "a single line of lowercase hex").
func DigestOf(algo Algorithm, r io.Reader) ([]byte, error) {
	h, err := newHasher(algo)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(h, r); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

// Valid reports whether algo is a recognized algorithm name.
func Valid(algo Algorithm) bool {
	_, err := newHasher(algo)
	return err == nil
}
