package linear

// Option configures a Regression before fitting.
type Option func(*Regression)

// WithFitIntercept sets whether to learn an intercept term.
func WithFitIntercept(fit bool) Option {
	return func(r *Regression) {
		r.FitIntercept = fit
	}
}

// SGDOption configures an SGDRegressor before fitting.
type SGDOption func(*SGDRegressor)

// WithLearningRate sets the initial learning rate eta0.
func WithLearningRate(eta0 float64) SGDOption {
	return func(s *SGDRegressor) {
		s.Eta0 = eta0
	}
}

// WithPower sets the inverse-scaling exponent of the learning rate schedule.
func WithPower(power float64) SGDOption {
	return func(s *SGDRegressor) {
		s.Power = power
	}
}

// WithMaxIter sets the number of epochs Fit runs over the training data.
func WithMaxIter(n int) SGDOption {
	return func(s *SGDRegressor) {
		s.MaxIter = n
	}
}

// WithTol sets the loss-improvement tolerance used to detect convergence.
func WithTol(tol float64) SGDOption {
	return func(s *SGDRegressor) {
		s.Tol = tol
	}
}
