// Package pipeline composes model stages into a single estimator. Each
// stage's output matrix becomes the next stage's input; every stage before
// the last must be a transformer or decomposer, and the last may be any
// model category. Stages must preserve row identity, so the pipeline checks
// after every stage that the row count is unchanged.
package pipeline

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/cran/mlapi/core/model"
	"github.com/cran/mlapi/pkg/errors"
	"github.com/cran/mlapi/pkg/log"
)

// Stage is one named model participating in a pipeline.
type Stage struct {
	Name  string
	Model interface{}
}

// NamedStage pairs a model with the name used in errors and DOT output.
func NamedStage(name string, m interface{}) Stage {
	return Stage{Name: name, Model: m}
}

// Pipeline is an ordered sequence of stages.
type Pipeline struct {
	stages []Stage
}

// A pipeline is itself a model: it predicts when its final stage does and
// transforms when every stage does.
var (
	_ model.Predictor   = (*Pipeline)(nil)
	_ model.Transformer = (*Pipeline)(nil)
)

// New validates the stage sequence and creates a pipeline. Every stage but
// the last must implement the transformer contract.
func New(stages ...Stage) (*Pipeline, error) {
	if len(stages) == 0 {
		return nil, errors.NewValueError("pipeline.New", "a pipeline needs at least one stage")
	}

	seen := make(map[string]struct{}, len(stages))
	for i, s := range stages {
		if s.Model == nil {
			return nil, errors.NewValueError("pipeline.New",
				fmt.Sprintf("stage %q has no model", s.Name))
		}
		if _, dup := seen[s.Name]; dup {
			return nil, errors.NewValueError("pipeline.New",
				fmt.Sprintf("duplicate stage name %q", s.Name))
		}
		seen[s.Name] = struct{}{}

		if i < len(stages)-1 {
			if _, ok := s.Model.(model.Transformer); !ok {
				return nil, errors.NewValueError("pipeline.New",
					fmt.Sprintf("intermediate stage %q must be a transformer", s.Name))
			}
		}
	}

	return &Pipeline{stages: stages}, nil
}

// Stages returns the stage sequence.
func (p *Pipeline) Stages() []Stage {
	return p.stages
}

// checkRows enforces the row-identity invariant after a stage runs.
func checkRows(stageName string, in, out mat.Matrix) error {
	rIn, _ := in.Dims()
	rOut, _ := out.Dims()
	if rIn != rOut {
		return errors.NewDimensionError("Pipeline."+stageName, rIn, rOut, 0)
	}
	return nil
}

// Fit trains every stage in order: intermediate stages are fitted and
// applied in one FitTransform call, and their output becomes the next
// stage's input; the final stage is fitted on the accumulated output.
func (p *Pipeline) Fit(X, y mat.Matrix) error {
	current := X
	for i, s := range p.stages {
		last := i == len(p.stages)-1

		if !last {
			t := s.Model.(model.Transformer)
			out, err := t.FitTransform(current)
			if err != nil {
				return errors.Wrapf(err, "pipeline: fitting stage %q", s.Name)
			}
			if err := checkRows(s.Name, current, out); err != nil {
				return err
			}
			current = out
			continue
		}

		switch m := s.Model.(type) {
		case model.Fitter:
			if err := m.Fit(current, y); err != nil {
				return errors.Wrapf(err, "pipeline: fitting stage %q", s.Name)
			}
		case model.Transformer:
			out, err := m.FitTransform(current)
			if err != nil {
				return errors.Wrapf(err, "pipeline: fitting stage %q", s.Name)
			}
			if err := checkRows(s.Name, current, out); err != nil {
				return err
			}
		default:
			return errors.NewValueError("Pipeline.Fit",
				fmt.Sprintf("final stage %q is neither fittable nor a transformer", s.Name))
		}
	}

	slog.Debug("pipeline fitted", slog.Int("stages", len(p.stages)),
		slog.String(log.OperationKey, "fit"))
	return nil
}

// Predict transforms X through the intermediate stages and predicts with
// the final stage, which must be a predictor.
func (p *Pipeline) Predict(X mat.Matrix) (mat.Matrix, error) {
	last := p.stages[len(p.stages)-1]
	predictor, ok := last.Model.(model.Predictor)
	if !ok {
		return nil, errors.NewValueError("Pipeline.Predict",
			fmt.Sprintf("final stage %q is not a predictor", last.Name))
	}

	current, err := p.transformThrough(X, len(p.stages)-1)
	if err != nil {
		return nil, err
	}

	out, err := predictor.Predict(current)
	if err != nil {
		return nil, errors.Wrapf(err, "pipeline: predicting with stage %q", last.Name)
	}
	if err := checkRows(last.Name, current, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Transform applies the fitted transformation of every stage in order.
// All stages must be transformers.
func (p *Pipeline) Transform(X mat.Matrix) (mat.Matrix, error) {
	return p.transformThrough(X, len(p.stages))
}

// FitTransform fits and applies every stage in order. All stages must be
// transformers.
func (p *Pipeline) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	current := X
	for _, s := range p.stages {
		t, ok := s.Model.(model.Transformer)
		if !ok {
			return nil, errors.NewValueError("Pipeline.FitTransform",
				fmt.Sprintf("stage %q is not a transformer", s.Name))
		}
		out, err := t.FitTransform(current)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline: fitting stage %q", s.Name)
		}
		if err := checkRows(s.Name, current, out); err != nil {
			return nil, err
		}
		current = out
	}
	return current, nil
}

// transformThrough runs Transform on stages [0, until).
func (p *Pipeline) transformThrough(X mat.Matrix, until int) (mat.Matrix, error) {
	current := X
	for _, s := range p.stages[:until] {
		t, ok := s.Model.(model.Transformer)
		if !ok {
			return nil, errors.NewValueError("Pipeline.Transform",
				fmt.Sprintf("stage %q is not a transformer", s.Name))
		}
		out, err := t.Transform(current)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline: transforming with stage %q", s.Name)
		}
		if err := checkRows(s.Name, current, out); err != nil {
			return nil, err
		}
		current = out
	}
	return current, nil
}

// IsFitted reports whether every state-reporting stage is fitted.
func (p *Pipeline) IsFitted() bool {
	for _, s := range p.stages {
		if sr, ok := s.Model.(model.StateReporter); ok && !sr.IsFitted() {
			return false
		}
	}
	return true
}
