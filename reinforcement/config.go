package reinforcement

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// TrainingConfig holds the learning parameters kept outside of code: hyperparameters
// like learning rate, gamma and epsilon, and the stopping criteria.
type TrainingConfig struct {
	// HyperParams is a list of param names and their values.
	HyperParams []HyperParameter `yaml:"hyperparams"`
	// Algorithm is an algorithm selector, e.g. {"name": "qlearning"}.
	Algorithm map[string]string `yaml:"algorithm"`
	// TrainingDeadline is a duration after which training stops, e.g. {"duration": "30s"}.
	TrainingDeadline map[string]string `yaml:"trainingdeadline"`
	// MaxEpisodes stops training after this many episodes; zero means no limit.
	MaxEpisodes int `yaml:"maxepisodes"`
}

type HyperParameter struct {
	Key string  `yaml:"key"`
	Val float64 `yaml:"val"`
}

func (cfg *TrainingConfig) GetHyperParamOrDefault(param string, defaultVal float64) float64 {
	for _, kvp := range cfg.HyperParams {
		if kvp.Key == param {
			return kvp.Val
		}
	}
	return defaultVal
}

// WithTrainingDeadline returns a context extended by the training deadline, if one is specified.
func (cfg *TrainingConfig) WithTrainingDeadline(
	ctx context.Context,
) (context.Context, context.CancelFunc, error) {
	if val, ok := cfg.TrainingDeadline["duration"]; ok {
		duration, err := time.ParseDuration(val)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "training deadline %q", val)
		}
		innerCtx, cancel := context.WithTimeout(ctx, duration)
		return innerCtx, cancel, nil
	}
	defaultCtx, cancel := context.WithCancel(ctx)
	return defaultCtx, cancel, nil
}
