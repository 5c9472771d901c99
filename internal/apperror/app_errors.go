package apperror

import "errors"

var (
	ErrGameFinished   = errors.New("game is already finished")
	ErrCellOccupied   = errors.New("cell is already occupied")
	ErrInvalidCell    = errors.New("invalid cell index")
	ErrInvalidMark    = errors.New("invalid mark")
	ErrNoLegalActions = errors.New("no legal actions")
	ErrFeatureLength  = errors.New("unexpected feature vector length")
	ErrModelNotFound  = errors.New("model not found")
)
