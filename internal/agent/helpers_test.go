package agent

import (
	"errors"
	"io"
	"log/slog"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
)

var errBrokenModel = errors.New("broken model")

type fitCall struct {
	features []float64
	target   float64
}

// scoredApproximator returns a fixed value per action and records Fit calls.
type scoredApproximator struct {
	values   map[int]float64
	predicts int
	fits     []fitCall
	err      error
}

func (that *scoredApproximator) Predict(features []float64) (float64, error) {
	that.predicts++
	if that.err != nil {
		return 0, that.err
	}

	return that.values[actionOf(features)], nil
}

func (that *scoredApproximator) Fit(features []float64, target float64) error {
	that.fits = append(that.fits, fitCall{features: features, target: target})

	return that.err
}

func actionOf(features []float64) int {
	for i := 0; i < actionFeatures; i++ {
		if features[entity.BoardSize*cellFeatures+i] == 1 {
			return i
		}
	}

	return -1
}

func newTestAgent(approximator Approximator, epsilon float64, seed int64) *Agent {
	params := DefaultParams()
	params.Epsilon = epsilon

	return New(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		approximator,
		rand.New(rand.NewSource(seed)), //nolint: gosec // deterministic tests
		entity.PlayerX,
		params,
	)
}
