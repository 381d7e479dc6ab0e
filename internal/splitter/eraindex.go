package splitter

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rxtech-lab/erasplit/internal/dataset"
)

// DistinctEras returns the distinct era identifiers present in a dataset,
// sorted ascending by natural order. The result is stable across repeated
// calls on the same dataset view.
func DistinctEras(d dataset.Dataset) []string {
	seen := make(map[string]struct{})

	var eras []string

	for i := 0; i < d.NumRows(); i++ {
		era := d.Era(i)
		if _, ok := seen[era]; !ok {
			seen[era] = struct{}{}
			eras = append(eras, era)
		}
	}

	sort.Slice(eras, func(i, j int) bool {
		return compareEras(eras[i], eras[j]) < 0
	})

	return eras
}

// SelectEras returns the view of rows whose era is in the given set. An
// empty set yields a zero-row view.
func SelectEras(d dataset.Dataset, eras ...string) dataset.Dataset {
	return d.EraIn(eras...)
}

// SelectRegions returns the view of rows whose region is in the given set.
func SelectRegions(d dataset.Dataset, regions ...dataset.Region) dataset.Dataset {
	return d.RegionIn(regions...)
}

// compareEras orders era identifiers numerically when both share a prefix
// and end in digits ("era2" before "era10"), falling back to lexicographic
// order otherwise.
func compareEras(a, b string) int {
	aPrefix, aNum, aOK := splitEraSuffix(a)
	bPrefix, bNum, bOK := splitEraSuffix(b)

	if aOK && bOK && aPrefix == bPrefix {
		switch {
		case aNum < bNum:
			return -1
		case aNum > bNum:
			return 1
		default:
			return 0
		}
	}

	return strings.Compare(a, b)
}

func splitEraSuffix(s string) (string, int, bool) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}

	if i == len(s) {
		return s, 0, false
	}

	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return s, 0, false
	}

	return s[:i], n, true
}
