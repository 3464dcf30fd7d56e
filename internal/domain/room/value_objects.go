package room

import (
	"errors"
	"slices"
	"strings"
)

var (
	ErrFeatureTooLong  = errors.New("feature is too long (max 64 characters)")
	ErrTooManyFeatures = errors.New("too many features (max 32)")
)

const (
	MaxFeatureLength = 64
	MaxFeatures      = 32
)

// Features is a normalized set of tags: lower-cased, trimmed, de-duplicated and sorted.
type Features struct {
	values []string
}

func NewFeatures(raw []string) (Features, error) {
	seen := make(map[string]struct{}, len(raw))
	values := make([]string, 0, len(raw))
	for _, f := range raw {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if len(f) > MaxFeatureLength {
			return Features{}, ErrFeatureTooLong
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		values = append(values, f)
	}
	if len(values) > MaxFeatures {
		return Features{}, ErrTooManyFeatures
	}
	slices.Sort(values)
	return Features{values: values}, nil
}

func (f Features) Values() []string {
	return slices.Clone(f.values)
}

func (f Features) Has(feature string) bool {
	_, found := slices.BinarySearch(f.values, strings.ToLower(strings.TrimSpace(feature)))
	return found
}
