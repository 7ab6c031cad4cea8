package model

import (
	"sync"

	"github.com/cran/mlapi/pkg/errors"
)

// State tracks the fitted-state lifecycle of a model by composition.
// Embed a *State (via NewState) in a concrete model and call SetFitted from
// Fit, Reset from re-fitting paths, and RequireFitted at the top of
// application-phase methods.
type State struct {
	Fitted bool // public for gob encoding
	mu     sync.RWMutex

	// Dimensions seen during fitting, public for gob encoding.
	NFeatures int
	NSamples  int
}

// NewState creates an unfitted State.
func NewState() *State {
	return &State{}
}

// IsFitted returns whether the model has been fitted.
func (s *State) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Fitted
}

// SetFitted marks the model as fitted.
func (s *State) SetFitted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fitted = true
}

// Reset returns the model to the unfitted state, clearing the seen
// dimensions. Re-fitting a model calls Reset first so learned state never
// leaks across fits.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fitted = false
	s.NFeatures = 0
	s.NSamples = 0
}

// SetDimensions records the number of features and samples seen at fit time.
func (s *State) SetDimensions(nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.NFeatures = nFeatures
	s.NSamples = nSamples
}

// GetDimensions returns the number of features and samples seen at fit time.
func (s *State) GetDimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.NFeatures, s.NSamples
}

// RequireFitted returns a NotFittedError naming the model and method if the
// model has not been fitted.
func (s *State) RequireFitted(modelName, method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}

// CheckFeatures returns a DimensionError if got differs from the feature
// count recorded at fit time.
func (s *State) CheckFeatures(op string, got int) error {
	nFeatures, _ := s.GetDimensions()
	if got != nFeatures {
		return errors.NewDimensionError(op, nFeatures, got, 1)
	}
	return nil
}
