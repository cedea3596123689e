// Package battle holds the pure rules for identifying and scoring upstream battles.
package battle

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// TimeLayout is the fixed-width format of the upstream battleTime field.
const TimeLayout = "20060102T150405.000Z"

// NormalizeTag strips the leading marker and upper-cases the tag.
func NormalizeTag(tag string) string {
	tag = strings.TrimSpace(tag)
	tag = strings.TrimPrefix(tag, "#")
	return strings.ToUpper(tag)
}

// CanonicalTag is the stored form of a tag: "#" followed by the normalized tag.
func CanonicalTag(tag string) string {
	n := NormalizeTag(tag)
	if n == "" {
		return ""
	}
	return "#" + n
}

// ID derives the dedup key of a battle. Swapping tagA and tagB yields the same id.
func ID(battleTime, tagA, tagB string) string {
	a, b := NormalizeTag(tagA), NormalizeTag(tagB)
	if b < a {
		a, b = b, a
	}
	sum := md5.Sum([]byte(battleTime + "-" + a + "-" + b))
	return hex.EncodeToString(sum[:])
}

// Winner returns the tag holding strictly more crowns, or nil on a draw.
func Winner(tag1 string, crowns1 int, tag2 string, crowns2 int) *string {
	switch {
	case crowns1 > crowns2:
		return &tag1
	case crowns2 > crowns1:
		return &tag2
	}
	return nil
}

// ParseTime parses an upstream battleTime into UTC.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parse battle time %q", s)
	}
	return t.UTC(), nil
}
