// Package id generates identifiers for citizen reports.
package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"
)

const (
	// base36 lowercase alphabet used for the random suffix
	alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

	// ReportPrefix is the fixed prefix of client-generated report ids.
	ReportPrefix = "RPT"

	// SuffixLength is the length of the random part of a report id.
	SuffixLength = 6
)

var reportIDPattern = regexp.MustCompile(`^RPT-\d+-[0-9a-z]{6}$`)

// Random returns a cryptographically random base36 string of the given length.
func Random(length int) (string, error) {
	if length <= 0 {
		length = SuffixLength
	}

	result := make([]byte, length)
	max := big.NewInt(int64(len(alphabet)))

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = alphabet[n.Int64()]
	}

	return string(result), nil
}

// NewReportID returns an id of the form RPT-<unix millis>-<random6>.
func NewReportID(now time.Time) (string, error) {
	suffix, err := Random(SuffixLength)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%s", ReportPrefix, now.UnixMilli(), suffix), nil
}

// IsClientReportID reports whether s has the client-generated id format.
// Server ingestion accepts any non-empty id; this is informational only.
func IsClientReportID(s string) bool {
	return reportIDPattern.MatchString(s)
}
