// Package splitplan turns declarative YAML plan files into constructed
// splitters. A plan names one strategy and carries its configuration
// section; the plan is validated before any splitter is built.
package splitplan

import (
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/erasplit/internal/dataset"
	"github.com/rxtech-lab/erasplit/internal/splitter"
	"github.com/rxtech-lab/erasplit/internal/version"
	"github.com/rxtech-lab/erasplit/pkg/errors"
	"gopkg.in/yaml.v3"
)

// StrategyType identifies a splitter strategy in a plan file.
type StrategyType string

const (
	StrategyTournament   StrategyType = "tournament"
	StrategyValidation   StrategyType = "validation"
	StrategyCheat        StrategyType = "cheat"
	StrategyFraction     StrategyType = "fraction"
	StrategyCV           StrategyType = "cv"
	StrategyStratifiedCV StrategyType = "stratified_cv"
	StrategyRolling      StrategyType = "rolling"
)

// Plan is a parsed split plan. Exactly one configuration section matching
// the strategy must be present for the parameterized strategies; the fixed
// single-split strategies take no section.
type Plan struct {
	// Strategy selects the splitter to build.
	Strategy StrategyType `json:"strategy" jsonschema:"title=Strategy,description=Splitter strategy to run,required,enum=tournament,enum=validation,enum=cheat,enum=fraction,enum=cv,enum=stratified_cv,enum=rolling" validate:"required,oneof=tournament validation cheat fraction cv stratified_cv rolling" yaml:"strategy"`
	// MinVersion optionally pins the minimum erasplit library version this
	// plan requires.
	MinVersion string `json:"minVersion,omitempty" jsonschema:"title=Minimum Version,description=Minimum erasplit library version required by this plan" yaml:"min_version,omitempty"`

	Fraction     *splitter.FractionConfig `json:"fraction,omitempty"     jsonschema:"title=Fraction"      validate:"-" yaml:"fraction,omitempty"`
	CV           *splitter.CVConfig       `json:"cv,omitempty"           jsonschema:"title=CV"            validate:"-" yaml:"cv,omitempty"`
	StratifiedCV *splitter.CVConfig       `json:"stratifiedCv,omitempty" jsonschema:"title=Stratified CV" validate:"-" yaml:"stratified_cv,omitempty"`
	Rolling      *splitter.RollingConfig  `json:"rolling,omitempty"      jsonschema:"title=Rolling"       validate:"-" yaml:"rolling,omitempty"`
}

// Parse parses and validates a YAML plan document.
func Parse(content []byte) (*Plan, error) {
	var plan Plan

	if err := yaml.Unmarshal(content, &plan); err != nil {
		return nil, errors.Wrap(errors.ErrCodePlanParseFailed, "failed to parse plan file", err)
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}

	return &plan, nil
}

// Validate checks the plan shape, the library version pin, and the section
// matching the chosen strategy.
func (p *Plan) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return errors.Wrap(errors.ErrCodePlanInvalid, "invalid plan", err)
	}

	if err := version.CheckMinimumVersion(version.GetVersion(), p.MinVersion); err != nil {
		return errors.Wrap(errors.ErrCodePlanVersionMismatch, "plan is not compatible with this library", err)
	}

	section, err := p.section()
	if err != nil {
		return err
	}

	if section != nil {
		return section.Validate()
	}

	return nil
}

// Build constructs the splitter the plan describes, bound to the given
// dataset.
func (p *Plan) Build(data dataset.Dataset) (splitter.Splitter, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	switch p.Strategy {
	case StrategyTournament:
		return splitter.NewTournament(data), nil
	case StrategyValidation:
		return splitter.NewValidation(data), nil
	case StrategyCheat:
		return splitter.NewCheat(data), nil
	case StrategyFraction:
		return splitter.NewFraction(data, *p.Fraction)
	case StrategyCV:
		return splitter.NewGroupedCV(data, *p.CV)
	case StrategyStratifiedCV:
		return splitter.NewStratifiedCV(data, *p.StratifiedCV)
	case StrategyRolling:
		return splitter.NewRollingWindow(data, *p.Rolling)
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedStrategy, "unsupported strategy: %s", p.Strategy)
	}
}

// configSection is implemented by every strategy configuration struct.
type configSection interface {
	Validate() error
}

// section returns the configuration section required by the chosen
// strategy, or an error when it is missing. Single-split strategies return
// nil.
func (p *Plan) section() (configSection, error) {
	switch p.Strategy {
	case StrategyFraction:
		if p.Fraction == nil {
			return nil, errors.New(errors.ErrCodePlanInvalid, "fraction strategy requires a fraction section")
		}

		return p.Fraction, nil
	case StrategyCV:
		if p.CV == nil {
			return nil, errors.New(errors.ErrCodePlanInvalid, "cv strategy requires a cv section")
		}

		return p.CV, nil
	case StrategyStratifiedCV:
		if p.StratifiedCV == nil {
			return nil, errors.New(errors.ErrCodePlanInvalid, "stratified_cv strategy requires a stratified_cv section")
		}

		return p.StratifiedCV, nil
	case StrategyRolling:
		if p.Rolling == nil {
			return nil, errors.New(errors.ErrCodePlanInvalid, "rolling strategy requires a rolling section")
		}

		return p.Rolling, nil
	default:
		return nil, nil
	}
}
