package dataset

import (
	"database/sql"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/erasplit/internal/logger"
	"github.com/rxtech-lab/erasplit/pkg/errors"
	"go.uber.org/zap"
)

// Columns every dataset file must carry. Remaining numeric columns are
// treated as features, in file order.
const (
	columnEra    = "era"
	columnRegion = "region"
)

// labelColumns are accepted names for the label column, in preference order.
var labelColumns = []string{"target", "label", "y"}

// DuckDBLoader loads tabular datasets from parquet or CSV files through
// DuckDB and materializes them as an InMemoryDataset.
type DuckDBLoader struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBLoader creates a new DuckDB-backed loader. The path parameter
// specifies the DuckDB database file location; use ":memory:" or an empty
// string for a transient in-memory database.
func NewDuckDBLoader(path string, log *logger.Logger) (*DuckDBLoader, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	if path == ":memory:" {
		path = ""
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	return &DuckDBLoader{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize creates a view over the dataset file. Supported formats are
// parquet and CSV, selected by file extension.
func (l *DuckDBLoader) Initialize(dataPath string) error {
	l.logger.Debug("initializing duckdb dataset view", zap.String("path", dataPath))

	var reader string

	switch strings.ToLower(filepath.Ext(dataPath)) {
	case ".parquet":
		reader = "read_parquet"
	case ".csv":
		reader = "read_csv_auto"
	default:
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"unsupported dataset file extension: %s", filepath.Ext(dataPath))
	}

	// First drop the view if it exists
	if _, err := l.db.Exec(`DROP VIEW IF EXISTS dataset_rows;`); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to drop existing view", err)
	}

	// Squirrel doesn't support CREATE VIEW, so this stays raw SQL
	query := fmt.Sprintf(`
		CREATE VIEW dataset_rows AS
		SELECT * FROM %s('%s');
	`, reader, dataPath)

	if _, err := l.db.Exec(query); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to create dataset view", err)
	}

	return nil
}

// Count returns the number of rows in the dataset file.
func (l *DuckDBLoader) Count() (int, error) {
	query, args, err := l.sq.Select("COUNT(*)").From("dataset_rows").ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build count query", err)
	}

	var count int
	if err := l.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count dataset rows", err)
	}

	return count, nil
}

// Load scans the full dataset into memory, ordered by era so that distinct
// era resolution and rolling windows see a stable row order.
func (l *DuckDBLoader) Load() (*InMemoryDataset, error) {
	labelColumn, featureColumns, err := l.resolveColumns()
	if err != nil {
		return nil, err
	}

	l.logger.Debug("loading dataset into memory",
		zap.String("label_column", labelColumn),
		zap.Int("feature_columns", len(featureColumns)))

	columns := append([]string{columnEra, columnRegion, labelColumn}, featureColumns...)

	query, args, err := l.sq.Select(columns...).
		From("dataset_rows").
		OrderBy(columnEra).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build load query", err)
	}

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query dataset rows", err)
	}
	defer rows.Close()

	var loaded []Row

	for rows.Next() {
		var (
			era    string
			region string
			label  sql.NullFloat64
		)

		featureValues := make([]sql.NullFloat64, len(featureColumns))
		scanTargets := make([]any, 0, len(columns))
		scanTargets = append(scanTargets, &era, &region, &label)

		for i := range featureValues {
			scanTargets = append(scanTargets, &featureValues[i])
		}

		if err := rows.Scan(scanTargets...); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan dataset row", err)
		}

		row := Row{
			Era:      era,
			Region:   Region(region),
			Label:    math.NaN(),
			Features: make([]float64, len(featureValues)),
		}

		// Unlabeled rows (tournament data) stay NaN
		if label.Valid {
			row.Label = label.Float64
		}

		for i, v := range featureValues {
			if v.Valid {
				row.Features[i] = v.Float64
			} else {
				row.Features[i] = math.NaN()
			}
		}

		loaded = append(loaded, row)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read dataset rows", err)
	}

	if len(loaded) == 0 {
		return nil, errors.New(errors.ErrCodeDataNotFound, "dataset file contains no rows")
	}

	return NewInMemoryDataset(loaded)
}

// Close closes the loader and releases the database handle.
func (l *DuckDBLoader) Close() error {
	return l.db.Close()
}

// resolveColumns inspects the dataset view and determines the label column
// and the ordered feature columns.
func (l *DuckDBLoader) resolveColumns() (string, []string, error) {
	rows, err := l.db.Query(`SELECT column_name FROM (DESCRIBE dataset_rows)`)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to describe dataset", err)
	}
	defer rows.Close()

	var columns []string

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return "", nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan column name", err)
		}

		columns = append(columns, name)
	}

	if err := rows.Err(); err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read dataset columns", err)
	}

	present := make(map[string]struct{}, len(columns))
	for _, name := range columns {
		present[name] = struct{}{}
	}

	for _, required := range []string{columnEra, columnRegion} {
		if _, ok := present[required]; !ok {
			return "", nil, errors.Newf(errors.ErrCodeUnknownColumn, "dataset is missing required column %s", required)
		}
	}

	labelColumn := ""

	for _, candidate := range labelColumns {
		if _, ok := present[candidate]; ok {
			labelColumn = candidate
			break
		}
	}

	if labelColumn == "" {
		return "", nil, errors.Newf(errors.ErrCodeUnknownColumn,
			"dataset is missing a label column (one of %s)", strings.Join(labelColumns, ", "))
	}

	var featureColumns []string

	for _, name := range columns {
		if name == columnEra || name == columnRegion || name == labelColumn {
			continue
		}

		featureColumns = append(featureColumns, name)
	}

	return labelColumn, featureColumns, nil
}
