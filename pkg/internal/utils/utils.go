package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// GenerateUniqueHash returns a random hex id used for component metadata.
func GenerateUniqueHash() string {
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		panic("random number generator failed")
	}

	hashInput := append([]byte(strconv.FormatInt(time.Now().UnixNano(), 10)), randomBytes...)
	hash := sha256.Sum256(hashInput)
	return hex.EncodeToString(hash[:])
}

// CleanList trims entries, drops empties and removes case-insensitive duplicates,
// keeping the first spelling seen.
func CleanList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || ContainsFold(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// SplitCSV splits a comma-separated list and cleans it.
func SplitCSV(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	return CleanList(strings.Split(csv, ","))
}
