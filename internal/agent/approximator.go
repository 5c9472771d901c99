package agent

import (
	"fmt"

	"github.com/patrikeh/go-deep"
	"github.com/patrikeh/go-deep/training"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
)

// Approximator estimates the expected return of an encoded (state, action) pair.
type Approximator interface {
	Predict(features []float64) (float64, error)
	Fit(features []float64, target float64) error
}

// NetworkConfig defines the value network and how hard each Fit pushes it.
type NetworkConfig struct {
	HiddenUnits  int
	LearningRate float64
	FitPasses    int
}

func DefaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		HiddenUnits:  32,
		LearningRate: 0.01,
		FitPasses:    3,
	}
}

// NeuralApproximator is a FeatureSize -> HiddenUnits -> 1 feed-forward network
// with ReLU hidden units, trained on squared error one example at a time.
// It is not safe for concurrent use.
type NeuralApproximator struct {
	network *deep.Neural
	config  NetworkConfig
}

func NewNeuralApproximator(config NetworkConfig) *NeuralApproximator {
	config = withDefaults(config)

	network := deep.NewNeural(&deep.Config{
		Inputs:     FeatureSize,
		Layout:     []int{config.HiddenUnits, 1},
		Activation: deep.ActivationReLU,
		Mode:       deep.ModeRegression,
		Weight:     deep.NewNormal(0.1, 0.0), // stdDev, mean
		Bias:       true,
	})

	return &NeuralApproximator{
		network: network,
		config:  config,
	}
}

// LoadNeuralApproximator restores a network produced by Marshal. The stored
// layout wins over config.HiddenUnits; learning rate and passes come from config.
func LoadNeuralApproximator(data []byte, config NetworkConfig) (*NeuralApproximator, error) {
	network, err := deep.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal network: %w", err)
	}

	if network.Config.Inputs != FeatureSize {
		return nil, fmt.Errorf("%w: stored network takes %d inputs", apperror.ErrFeatureLength, network.Config.Inputs)
	}

	config = withDefaults(config)
	if layout := network.Config.Layout; len(layout) > 0 {
		config.HiddenUnits = layout[0]
	}

	return &NeuralApproximator{
		network: network,
		config:  config,
	}, nil
}

func (that *NeuralApproximator) Predict(features []float64) (float64, error) {
	if len(features) != FeatureSize {
		return 0, fmt.Errorf("%w: got %d, want %d", apperror.ErrFeatureLength, len(features), FeatureSize)
	}

	return that.network.Predict(features)[0], nil
}

// Fit runs FitPasses gradient steps on the single example.
func (that *NeuralApproximator) Fit(features []float64, target float64) error {
	if len(features) != FeatureSize {
		return fmt.Errorf("%w: got %d, want %d", apperror.ErrFeatureLength, len(features), FeatureSize)
	}

	examples := training.Examples{
		{Input: features, Response: []float64{target}},
	}

	// a fresh trainer per call keeps the stats printer from buffering forever
	trainer := training.NewTrainer(training.NewSGD(that.config.LearningRate, 0, 0, false), 0)
	trainer.Train(that.network, examples, nil, that.config.FitPasses)

	return nil
}

// Marshal serialises the network layout and weights as JSON.
func (that *NeuralApproximator) Marshal() ([]byte, error) {
	data, err := that.network.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal network: %w", err)
	}

	return data, nil
}

func (that *NeuralApproximator) Config() NetworkConfig {
	return that.config
}

func withDefaults(config NetworkConfig) NetworkConfig {
	defaults := DefaultNetworkConfig()

	if config.HiddenUnits <= 0 {
		config.HiddenUnits = defaults.HiddenUnits
	}
	if config.LearningRate <= 0 {
		config.LearningRate = defaults.LearningRate
	}
	if config.FitPasses <= 0 {
		config.FitPasses = defaults.FitPasses
	}

	return config
}
