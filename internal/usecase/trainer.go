package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rl/internal/tictactoe"
)

var ErrNoEpisodes = errors.New("episodes must be greater than 0")

type gamePlayer interface {
	Play(ctx context.Context) (*tictactoe.Result, error)
}

type modelRepo interface {
	Save(ctx context.Context, name string, data []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
}

type marshaler interface {
	Marshal() ([]byte, error)
}

// TrainerConfig specifies a training session.
type TrainerConfig struct {
	ModelName      string
	Episodes       int
	ReportInterval int // log progress every N episodes, 0 disables
	SaveInterval   int // save the model every N episodes, 0 saves only at the end
}

// Stats tracks outcomes from the learner's side.
type Stats struct {
	Episodes int
	Wins     int
	Losses   int
	Ties     int
	Moves    int

	StartTime time.Time
}

func (that *Stats) WinRate() float64 {
	if that.Episodes == 0 {
		return 0
	}

	return float64(that.Wins) / float64(that.Episodes) * 100
}

func (that *Stats) add(result *tictactoe.Result, learner entity.Mark) {
	that.Episodes++
	that.Moves += len(result.Moves)

	switch result.Outcome(learner) {
	case entity.OutcomeWin:
		that.Wins++
	case entity.OutcomeLose:
		that.Losses++
	case entity.OutcomeTie:
		that.Ties++
	}
}

// Trainer plays games strictly one after another against a shared learner
// and persists the learner's model along the way.
type Trainer struct {
	logger *slog.Logger

	controller gamePlayer
	learner    entity.Mark
	model      marshaler
	modelRepo  modelRepo

	config TrainerConfig
}

func NewTrainer(logger *slog.Logger, controller gamePlayer, learner entity.Mark, model marshaler, modelRepo modelRepo, config TrainerConfig) *Trainer {
	return &Trainer{
		logger:     logger.With("component", "trainer"),
		controller: controller,
		learner:    learner,
		model:      model,
		modelRepo:  modelRepo,
		config:     config,
	}
}

// Run plays the configured number of episodes. On cancellation the model is
// still saved and the partial stats are returned with the context error.
func (that *Trainer) Run(ctx context.Context) (*Stats, error) {
	if that.config.Episodes <= 0 {
		return nil, ErrNoEpisodes
	}

	log := that.logger.With("method", "Run")
	log.Info("starting training", "episodes", that.config.Episodes, "model", that.config.ModelName)

	stats := &Stats{StartTime: time.Now()}
	lastReport := time.Now()

	for episode := 1; episode <= that.config.Episodes; episode++ {
		if err := ctx.Err(); err != nil {
			log.Info("training interrupted", "episode", episode-1)
			return stats, errors.Join(err, that.save(ctx, stats))
		}

		result, err := that.controller.Play(ctx)
		if err != nil {
			return stats, fmt.Errorf("episode %d failed: %w", episode, err)
		}

		stats.add(result, that.learner)

		if that.config.ReportInterval > 0 && episode%that.config.ReportInterval == 0 {
			elapsed := time.Since(lastReport)
			lastReport = time.Now()

			log.Info("training progress",
				"episode", episode,
				"win_rate", fmt.Sprintf("%.1f%%", stats.WinRate()),
				"wins", stats.Wins,
				"losses", stats.Losses,
				"ties", stats.Ties,
				"games_per_sec", float64(that.config.ReportInterval)/elapsed.Seconds(),
			)
		}

		if that.config.SaveInterval > 0 && episode%that.config.SaveInterval == 0 && episode != that.config.Episodes {
			if err = that.save(ctx, stats); err != nil {
				return stats, err
			}
		}
	}

	if err := that.save(ctx, stats); err != nil {
		return stats, err
	}

	log.Info("training completed",
		"elapsed", time.Since(stats.StartTime).Round(time.Millisecond).String(),
		"win_rate", fmt.Sprintf("%.1f%%", stats.WinRate()),
		"avg_moves", float64(stats.Moves)/float64(stats.Episodes),
	)

	return stats, nil
}

func (that *Trainer) save(ctx context.Context, stats *Stats) error {
	data, err := that.model.Marshal()
	if err != nil {
		return fmt.Errorf("failed to snapshot model: %w", err)
	}

	// saving must survive an interrupted run
	saveCtx := context.WithoutCancel(ctx)
	if err = that.modelRepo.Save(saveCtx, that.config.ModelName, data); err != nil {
		return fmt.Errorf("failed to save model: %w", err)
	}

	that.logger.Info("model saved", "model", that.config.ModelName, "episode", stats.Episodes)

	return nil
}
