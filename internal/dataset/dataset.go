package dataset

// Region is a coarse row label assigned when the dataset is produced,
// independent of era. The set of regions is closed.
type Region string

const (
	RegionTrain      Region = "train"
	RegionValidation Region = "validation"
	RegionTest       Region = "test"
	RegionLive       Region = "live"
)

// TournamentRegions returns the regions that make up the tournament slice
// of a dataset: every row that is not part of the train region.
func TournamentRegions() []Region {
	return []Region{RegionValidation, RegionTest, RegionLive}
}

// Row is a single labeled observation used to build in-memory datasets.
type Row struct {
	Era      string
	Region   Region
	Label    float64
	Features []float64
}

// Dataset is a read-only view over labeled, era-grouped tabular data.
//
// Selection methods return new views over the same backing data; they never
// mutate the receiver. Views are cheap to create and safe for concurrent
// reads.
type Dataset interface {
	// NumRows returns the number of rows in this view.
	NumRows() int
	// Era returns the era identifier of row i.
	Era(i int) string
	// Region returns the region label of row i.
	Region(i int) Region
	// Label returns the label value of row i. Unlabeled rows carry NaN.
	Label(i int) float64
	// Features returns the feature vector of row i. Callers must not modify
	// the returned slice.
	Features(i int) []float64
	// EraIn returns the view of rows whose era is one of the given eras.
	// An empty era list yields a zero-row view.
	EraIn(eras ...string) Dataset
	// RegionIn returns the view of rows whose region is one of the given
	// regions. Multiple regions select their union.
	RegionIn(regions ...Region) Dataset
	// RowsIn returns the view of the rows at the given positions within this
	// view. Positions outside [0, NumRows) are ignored.
	RowsIn(indices []int) Dataset
}
