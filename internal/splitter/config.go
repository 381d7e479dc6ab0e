package splitter

import (
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/erasplit/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FractionConfig configures a FractionSplitter.
type FractionConfig struct {
	// FitFraction is the fraction of distinct eras assigned to the fit
	// partition, strictly between 0 and 1.
	FitFraction float64 `json:"fitFraction" jsonschema:"title=Fit Fraction,description=Fraction of eras assigned to the fit partition,required" validate:"required,gt=0,lt=1" yaml:"fit_fraction"`
	// Seed drives the era shuffle. The same seed always reproduces the same
	// era assignment.
	Seed int64 `json:"seed" jsonschema:"title=Seed,description=Seed for the era shuffle" yaml:"seed"`
	// TrainOnly restricts the split to the train region before eras are
	// resolved. Defaults to true in plan files.
	TrainOnly bool `json:"trainOnly" jsonschema:"title=Train Only,description=Restrict the split to the train region,default=true" yaml:"train_only"`
}

// Validate validates the FractionConfig fields.
func (c *FractionConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFraction, "invalid fraction split config", err)
	}

	return nil
}

// UnmarshalYAML applies the train_only default before decoding.
func (c *FractionConfig) UnmarshalYAML(value *yaml.Node) error {
	type raw FractionConfig

	out := raw{TrainOnly: true}
	if err := value.Decode(&out); err != nil {
		return err
	}

	*c = FractionConfig(out)

	return nil
}

// CVConfig configures a GroupedCVSplitter or a StratifiedCVSplitter.
type CVConfig struct {
	// KFold is the number of folds, at least 2.
	KFold int `json:"kfold" jsonschema:"title=K Fold,description=Number of cross-validation folds,required" validate:"required,min=2" yaml:"kfold"`
	// Seed drives the fold shuffle.
	Seed int64 `json:"seed" jsonschema:"title=Seed,description=Seed for the fold shuffle" yaml:"seed"`
	// TrainOnly restricts the split to the train region. Defaults to true in
	// plan files.
	TrainOnly bool `json:"trainOnly" jsonschema:"title=Train Only,description=Restrict the split to the train region,default=true" yaml:"train_only"`
}

// Validate validates the CVConfig fields.
func (c *CVConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidKFold, "invalid cross-validation config", err)
	}

	return nil
}

// UnmarshalYAML applies the train_only default before decoding.
func (c *CVConfig) UnmarshalYAML(value *yaml.Node) error {
	type raw CVConfig

	out := raw{TrainOnly: true}
	if err := value.Decode(&out); err != nil {
		return err
	}

	*c = CVConfig(out)

	return nil
}

// RollingConfig configures a RollingWindowSplitter. The predict window
// always starts where the fit window ends, so positive window sizes cannot
// overlap; non-positive sizes are rejected at construction time.
type RollingConfig struct {
	// FitWindow is the number of consecutive eras in each fit partition.
	FitWindow int `json:"fitWindow" jsonschema:"title=Fit Window,description=Number of consecutive eras in the fit partition,required" validate:"required,min=1" yaml:"fit_window"`
	// PredictWindow is the number of consecutive eras in each predict
	// partition.
	PredictWindow int `json:"predictWindow" jsonschema:"title=Predict Window,description=Number of consecutive eras in the predict partition,required" validate:"required,min=1" yaml:"predict_window"`
	// Step is the number of eras the windows advance between iterations.
	Step int `json:"step" jsonschema:"title=Step,description=Number of eras the windows advance per iteration,required" validate:"required,min=1" yaml:"step"`
	// TrainOnly restricts the split to the train region. Defaults to true in
	// plan files.
	TrainOnly bool `json:"trainOnly" jsonschema:"title=Train Only,description=Restrict the split to the train region,default=true" yaml:"train_only"`
}

// Validate validates the RollingConfig fields.
func (c *RollingConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidWindow, "invalid rolling window config", err)
	}

	return nil
}

// UnmarshalYAML applies the train_only default before decoding.
func (c *RollingConfig) UnmarshalYAML(value *yaml.Node) error {
	type raw RollingConfig

	out := raw{TrainOnly: true}
	if err := value.Decode(&out); err != nil {
		return err
	}

	*c = RollingConfig(out)

	return nil
}
