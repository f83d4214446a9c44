package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// HashAlgorithm represents the hashing algorithm to use
type HashAlgorithm string

const (
	SHA256  HashAlgorithm = "sha256"
	BLAKE2B HashAlgorithm = "blake2b"
)

// Hasher provides extensible hashing functionality
type Hasher struct {
	algorithm HashAlgorithm
}

// NewHasher creates a new hasher with the specified algorithm
func NewHasher(algorithm HashAlgorithm) *Hasher {
	return &Hasher{
		algorithm: algorithm,
	}
}

// DefaultHasher returns a hasher with the default algorithm
func DefaultHasher() *Hasher {
	return NewHasher(BLAKE2B)
}

// Hash computes a hash of the input data
func (h *Hasher) Hash(data []byte) string {
	switch h.algorithm {
	case SHA256:
		hash := sha256.Sum256(data)
		return hex.EncodeToString(hash[:])
	case BLAKE2B:
		hash := blake2b.Sum256(data)
		return hex.EncodeToString(hash[:])
	default:
		hash := blake2b.Sum256(data)
		return hex.EncodeToString(hash[:])
	}
}

// HashString computes a hash of a string
func (h *Hasher) HashString(s string) string {
	return h.Hash([]byte(s))
}

// HashFields computes a hash from multiple fields
// Fields are concatenated with a delimiter for consistent hashing
func (h *Hasher) HashFields(fields ...string) string {
	// Sort fields for deterministic ordering
	sorted := make([]string, len(fields))
	copy(sorted, fields)
	sort.Strings(sorted)

	combined := strings.Join(sorted, "|")
	return h.HashString(combined)
}

// CatalogFingerprint generates a deterministic fingerprint for a set of
// service identifiers. Two catalogs with the same membership produce the
// same fingerprint regardless of load order.
type CatalogFingerprint struct {
	hasher *Hasher
}

// NewCatalogFingerprint creates a catalog fingerprinter
func NewCatalogFingerprint(hasher *Hasher) *CatalogFingerprint {
	if hasher == nil {
		hasher = DefaultHasher()
	}
	return &CatalogFingerprint{hasher: hasher}
}

// Generate computes the fingerprint over service ids
func (cf *CatalogFingerprint) Generate(serviceIDs []string) string {
	return cf.hasher.HashFields(serviceIDs...)
}

// Short returns the display form (first 8 characters) of a fingerprint
func (cf *CatalogFingerprint) Short(fullHash string) string {
	if len(fullHash) < 8 {
		return fullHash
	}
	return fullHash[:8]
}

// Verify checks whether a fingerprint matches a membership
func (cf *CatalogFingerprint) Verify(fingerprint string, serviceIDs []string) bool {
	return fingerprint == cf.Generate(serviceIDs)
}
