package dataset

import (
	"github.com/rxtech-lab/erasplit/pkg/errors"
)

// InMemoryDataset stores rows column-wise and serves all selections as index
// views over the shared backing columns. Creating a view copies only the row
// index slice, so era and region selections are cheap even on large datasets.
type InMemoryDataset struct {
	eras     []string
	regions  []Region
	labels   []float64
	features [][]float64

	// indices maps view positions to backing column positions. The root
	// dataset owns the identity mapping; views own filtered copies.
	indices []int
}

// NewInMemoryDataset builds a dataset from rows. All rows must carry feature
// vectors of the same width.
func NewInMemoryDataset(rows []Row) (*InMemoryDataset, error) {
	d := &InMemoryDataset{
		eras:     make([]string, len(rows)),
		regions:  make([]Region, len(rows)),
		labels:   make([]float64, len(rows)),
		features: make([][]float64, len(rows)),
		indices:  make([]int, len(rows)),
	}

	width := -1

	for i, row := range rows {
		if width == -1 {
			width = len(row.Features)
		} else if len(row.Features) != width {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter,
				"row %d has %d features, expected %d", i, len(row.Features), width)
		}

		d.eras[i] = row.Era
		d.regions[i] = row.Region
		d.labels[i] = row.Label
		d.features[i] = row.Features
		d.indices[i] = i
	}

	return d, nil
}

// NumRows implements Dataset.
func (d *InMemoryDataset) NumRows() int {
	return len(d.indices)
}

// Era implements Dataset.
func (d *InMemoryDataset) Era(i int) string {
	return d.eras[d.indices[i]]
}

// Region implements Dataset.
func (d *InMemoryDataset) Region(i int) Region {
	return d.regions[d.indices[i]]
}

// Label implements Dataset.
func (d *InMemoryDataset) Label(i int) float64 {
	return d.labels[d.indices[i]]
}

// Features implements Dataset.
func (d *InMemoryDataset) Features(i int) []float64 {
	return d.features[d.indices[i]]
}

// EraIn implements Dataset.
func (d *InMemoryDataset) EraIn(eras ...string) Dataset {
	wanted := make(map[string]struct{}, len(eras))
	for _, era := range eras {
		wanted[era] = struct{}{}
	}

	filtered := make([]int, 0, len(d.indices))

	for _, idx := range d.indices {
		if _, ok := wanted[d.eras[idx]]; ok {
			filtered = append(filtered, idx)
		}
	}

	return d.view(filtered)
}

// RegionIn implements Dataset.
func (d *InMemoryDataset) RegionIn(regions ...Region) Dataset {
	wanted := make(map[Region]struct{}, len(regions))
	for _, region := range regions {
		wanted[region] = struct{}{}
	}

	filtered := make([]int, 0, len(d.indices))

	for _, idx := range d.indices {
		if _, ok := wanted[d.regions[idx]]; ok {
			filtered = append(filtered, idx)
		}
	}

	return d.view(filtered)
}

// RowsIn implements Dataset.
func (d *InMemoryDataset) RowsIn(indices []int) Dataset {
	filtered := make([]int, 0, len(indices))

	for _, i := range indices {
		if i < 0 || i >= len(d.indices) {
			continue
		}

		filtered = append(filtered, d.indices[i])
	}

	return d.view(filtered)
}

// view creates a new dataset sharing the backing columns with a different
// row index mapping.
func (d *InMemoryDataset) view(indices []int) *InMemoryDataset {
	return &InMemoryDataset{
		eras:     d.eras,
		regions:  d.regions,
		labels:   d.labels,
		features: d.features,
		indices:  indices,
	}
}
