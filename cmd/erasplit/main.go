package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	stderrors "errors"

	"github.com/google/uuid"
	"github.com/rxtech-lab/erasplit/internal/dataset"
	"github.com/rxtech-lab/erasplit/internal/logger"
	"github.com/rxtech-lab/erasplit/internal/splitter"
	"github.com/rxtech-lab/erasplit/internal/version"
	"github.com/rxtech-lab/erasplit/pkg/splitplan"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// splitRecord is one manifest entry describing a produced split.
type splitRecord struct {
	Iteration   int      `yaml:"iteration"`
	FitRows     int      `yaml:"fit_rows"`
	PredictRows int      `yaml:"predict_rows"`
	FitEras     []string `yaml:"fit_eras"`
	PredictEras []string `yaml:"predict_eras"`
}

// manifest is the YAML document written by the plan command.
type manifest struct {
	RunID    string        `yaml:"run_id"`
	Version  string        `yaml:"version"`
	Strategy string        `yaml:"strategy"`
	Splits   []splitRecord `yaml:"splits"`
}

// loadDataset opens the data file through DuckDB and materializes it.
func loadDataset(dataPath string, log *logger.Logger) (dataset.Dataset, error) {
	loader, err := dataset.NewDuckDBLoader(":memory:", log)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	defer loader.Close()

	if err := loader.Initialize(dataPath); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dataPath, err)
	}

	return loader.Load()
}

// buildFromFlags parses the plan file and binds it to the loaded dataset.
func buildFromFlags(cmd *cli.Command, log *logger.Logger) (*splitplan.Plan, splitter.Splitter, dataset.Dataset, error) {
	content, err := os.ReadFile(cmd.String("plan"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	plan, err := splitplan.Parse(content)
	if err != nil {
		return nil, nil, nil, err
	}

	data, err := loadDataset(cmd.String("data"), log)
	if err != nil {
		return nil, nil, nil, err
	}

	s, err := plan.Build(data)
	if err != nil {
		return nil, nil, nil, err
	}

	return plan, s, data, nil
}

// describeAction prints the splitter description and dataset stats.
func describeAction(_ context.Context, cmd *cli.Command, log *logger.Logger) error {
	_, s, data, err := buildFromFlags(cmd, log)
	if err != nil {
		return err
	}

	eras := splitter.DistinctEras(data)

	fmt.Println(s.Describe())
	fmt.Printf("rows: %d\n", data.NumRows())
	fmt.Printf("eras: %d\n", len(eras))

	if len(eras) > 0 {
		fmt.Printf("era range: %s .. %s\n", eras[0], eras[len(eras)-1])
	}

	return nil
}

// planAction runs every split the plan produces and writes a manifest.
func planAction(_ context.Context, cmd *cli.Command, log *logger.Logger) error {
	plan, s, _, err := buildFromFlags(cmd, log)
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	log.Info("running split plan",
		zap.String("run_id", runID),
		zap.String("strategy", string(plan.Strategy)),
	)

	bar := progressbar.NewOptions(-1, progressbar.OptionSetDescription("Splitting"), progressbar.OptionShowCount())

	out := manifest{
		RunID:    runID,
		Version:  version.GetVersion(),
		Strategy: string(plan.Strategy),
	}

	for iteration := 0; ; iteration++ {
		split, err := s.Next()
		if stderrors.Is(err, splitter.ErrDone) {
			break
		}

		if err != nil {
			return err
		}

		out.Splits = append(out.Splits, splitRecord{
			Iteration:   iteration,
			FitRows:     split.Fit.NumRows(),
			PredictRows: split.Predict.NumRows(),
			FitEras:     splitter.DistinctEras(split.Fit),
			PredictEras: splitter.DistinctEras(split.Predict),
		})

		//nolint:errcheck // progress display only
		bar.Add(1)
	}

	//nolint:errcheck // progress display only
	bar.Finish()
	fmt.Println()

	content, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	outputPath := cmd.String("output")
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(outputPath, content, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	log.Info("wrote split manifest",
		zap.String("path", outputPath),
		zap.Int("splits", len(out.Splits)),
	)

	return nil
}

// schemaAction prints the JSON schema for plan files.
func schemaAction(_ context.Context, _ *cli.Command) error {
	schema, err := splitplan.Schema()
	if err != nil {
		return err
	}

	fmt.Println(schema)

	return nil
}

func planFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "plan",
			Aliases:  []string{"p"},
			Usage:    "Path to the YAML split plan",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "data",
			Aliases:  []string{"d"},
			Usage:    "Path to the dataset file (parquet or csv)",
			Required: true,
		},
	}
}

func main() {
	log, err := logger.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cmd := &cli.Command{
		Name:    "erasplit",
		Usage:   "Partition era-grouped datasets into fit and predict sets",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "describe",
				Usage: "Describe the splitter a plan builds over a dataset",
				Flags: planFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return describeAction(ctx, cmd, log)
				},
			},
			{
				Name:  "plan",
				Usage: "Run every split in a plan and write a manifest",
				Flags: append(planFlags(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path of the manifest to write",
						Value:   "manifest.yaml",
					},
				),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return planAction(ctx, cmd, log)
				},
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema for plan files",
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
