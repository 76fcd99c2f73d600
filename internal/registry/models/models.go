package models

import (
	"encoding/hex"
	"math/big"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
)

// TakenSet is the set of region names already claimed in the registry.
type TakenSet map[string]struct{}

// NewTakenSet builds a set from names.
func NewTakenSet(names ...string) TakenSet {
	s := make(TakenSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (t TakenSet) Has(name string) bool {
	_, ok := t[name]
	return ok
}

// Intersect returns the members of names present in t, sorted.
func (t TakenSet) Intersect(names []string) []string {
	var out []string
	for _, n := range names {
		if t.Has(n) {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// Merge returns a new set holding both t and other.
func (t TakenSet) Merge(other TakenSet) TakenSet {
	out := make(TakenSet, len(t)+len(other))
	for n := range t {
		out[n] = struct{}{}
	}
	for n := range other {
		out[n] = struct{}{}
	}
	return out
}

// Names returns the members sorted.
func (t TakenSet) Names() []string {
	out := make([]string, 0, len(t))
	for n := range t {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ClaimRequest is the registry write for a finalized claim.
type ClaimRequest struct {
	ClaimID     uuid.UUID
	Name        string
	ProjectType string
	Regions     []string
	PriceWei    *big.Int
}

// TransactionResult is returned by the registry once a claim is recorded.
type TransactionResult struct {
	ClaimID    uuid.UUID `json:"claim_id"`
	TxHash     string    `json:"tx_hash"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Project is a recorded claim as the registry reports it.
type Project struct {
	ClaimID     uuid.UUID `json:"claim_id"`
	Name        string    `json:"name"`
	ProjectType string    `json:"project_type"`
	Regions     []string  `json:"regions"`
	PriceWei    string    `json:"price_wei"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// RegionKey is the 0x-prefixed keccak256 of a region name, the key the
// registry indexes regions by.
func RegionKey(name string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(name))
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// RegionKeys maps RegionKey over names.
func RegionKeys(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = RegionKey(n)
	}
	return out
}

// TxHash derives a deterministic transaction reference for a recorded claim.
func TxHash(claimID uuid.UUID, regions []string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write(claimID[:])
	for _, r := range regions {
		h.Write([]byte(r))
	}
	return "0x" + hex.EncodeToString(h.Sum(nil))
}
