package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-rl/internal/agent"
	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rl/internal/config"
	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rl/internal/player"
	"github.com/rocketscienceinc/tictactoe-rl/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rl/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-rl/internal/server"
	"github.com/rocketscienceinc/tictactoe-rl/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-rl/internal/usecase"
)

const (
	OpponentRandom = "random"
	OpponentAgent  = "agent"
)

var (
	ErrAddrNotFound    = errors.New("redis address string is empty")
	ErrUnknownOpponent = errors.New("unknown opponent")
)

// TrainOptions carry command-line choices that are not part of the config file.
type TrainOptions struct {
	Fresh bool // delete the saved model and its scores before training
}

type PlayOptions struct {
	Learn bool // keep learning from the human and save the model afterwards
}

// RunTrain trains the agent named by conf.Model against the configured opponent.
func RunTrain(logger *slog.Logger, conf *config.Config, opts TrainOptions) error {
	log := logger.With("component", "app")

	ctx, cancel := signalContext(log)
	defer cancel()

	redisClient, err := connectRedis(ctx, conf)
	if err != nil {
		return err
	}
	defer closeRedis(log, redisClient)

	modelRepo := repository.NewModelRepository(redisClient)

	if opts.Fresh {
		if err = discardModel(ctx, log, modelRepo, repository.NewScoreRepository(redisClient), conf.Model.Name); err != nil {
			return err
		}
	}

	approximator, err := resumeOrCreate(ctx, log, modelRepo, conf, opts.Fresh)
	if err != nil {
		return err
	}

	rng := newRand(conf.Training.Seed)
	learner := agent.New(logger, approximator, rng, entity.PlayerX, agentParams(conf))

	opponent, err := newOpponent(logger, conf.Training.Opponent, approximator, rng, agentParams(conf))
	if err != nil {
		return err
	}

	controller, err := tictactoe.NewGameController(logger, learner, opponent, rng)
	if err != nil {
		return fmt.Errorf("could not create game controller: %w", err)
	}

	if conf.HTTPPort != "" {
		go func() {
			log.Info("Starting HTTP server", "port", conf.HTTPPort)
			if httpErr := server.Start(ctx, conf.HTTPPort); httpErr != nil {
				log.Error("HTTP server error", "error", httpErr)
			}
		}()
	}

	trainer := usecase.NewTrainer(logger, controller, learner.Mark(), approximator, modelRepo, usecase.TrainerConfig{
		ModelName:      conf.Model.Name,
		Episodes:       conf.Training.Episodes,
		ReportInterval: conf.Training.ReportInterval,
		SaveInterval:   conf.Training.SaveInterval,
	})

	if _, err = trainer.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("Training canceled, model saved")
			return nil
		}

		return fmt.Errorf("training failed: %w", err)
	}

	return nil
}

// RunPlay lets a human on stdin/stdout play the saved agent with exploration off.
func RunPlay(logger *slog.Logger, conf *config.Config, opts PlayOptions) error {
	log := logger.With("component", "app")

	ctx, cancel := signalContext(log)
	defer cancel()

	humanMark, err := entity.ParseMark(conf.Play.HumanMark)
	if err != nil {
		return fmt.Errorf("invalid human mark: %w", err)
	}

	redisClient, err := connectRedis(ctx, conf)
	if err != nil {
		return err
	}
	defer closeRedis(log, redisClient)

	modelRepo := repository.NewModelRepository(redisClient)
	scoreRepo := repository.NewScoreRepository(redisClient)

	approximator, err := loadApproximator(ctx, modelRepo, conf)
	if errors.Is(err, apperror.ErrModelNotFound) {
		return fmt.Errorf("%w: run the train command first", err)
	}

	if err != nil {
		return err
	}

	rng := newRand(0)
	ai := agent.New(logger, approximator, rng, humanMark.Opponent(), agentParams(conf))
	ai.SetEpsilon(0)
	ai.SetLearning(opts.Learn)

	human := player.NewHuman(humanMark, os.Stdin, os.Stdout)

	controller, err := tictactoe.NewGameController(logger, ai, human, rng,
		tictactoe.WithObserver(usecase.NewConsoleView(os.Stdout)))
	if err != nil {
		return fmt.Errorf("could not create game controller: %w", err)
	}

	session := usecase.NewSession(logger, controller, ai.Mark(), scoreRepo, conf.Model.Name, os.Stdout)
	if err = session.Run(ctx); err != nil {
		return fmt.Errorf("play session failed: %w", err)
	}

	if opts.Learn {
		data, err := approximator.Marshal()
		if err != nil {
			return fmt.Errorf("could not snapshot model: %w", err)
		}

		if err = modelRepo.Save(context.WithoutCancel(ctx), conf.Model.Name, data); err != nil {
			return fmt.Errorf("could not save model: %w", err)
		}

		log.Info("Model saved", "model", conf.Model.Name)
	}

	return nil
}

func signalContext(log *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigs)
	}()

	return ctx, cancel
}

func connectRedis(ctx context.Context, conf *config.Config) (*redis.Client, error) {
	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, ErrAddrNotFound
	}

	redisClient, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return redisClient, nil
}

func closeRedis(log *slog.Logger, client *redis.Client) {
	if err := client.Close(); err != nil {
		log.Error("could not close redis storage", "error", err)
	}
}

type modelLoader interface {
	Load(ctx context.Context, name string) ([]byte, error)
}

func networkConfig(conf *config.Config) agent.NetworkConfig {
	return agent.NetworkConfig{
		HiddenUnits:  conf.Agent.HiddenUnits,
		LearningRate: conf.Agent.LearningRate,
		FitPasses:    conf.Agent.FitPasses,
	}
}

// loadApproximator restores the model named in conf. A missing model yields
// apperror.ErrModelNotFound.
func loadApproximator(ctx context.Context, models modelLoader, conf *config.Config) (*agent.NeuralApproximator, error) {
	data, err := models.Load(ctx, conf.Model.Name)
	if err != nil {
		return nil, fmt.Errorf("could not load model %q: %w", conf.Model.Name, err)
	}

	approximator, err := agent.LoadNeuralApproximator(data, networkConfig(conf))
	if err != nil {
		return nil, fmt.Errorf("could not restore model %q: %w", conf.Model.Name, err)
	}

	return approximator, nil
}

type modelEraser interface {
	Delete(ctx context.Context, name string) error
}

type scoreResetter interface {
	Reset(ctx context.Context, name string) error
}

// discardModel removes a saved model and the scores recorded against it.
// Nothing saved yet is not an error.
func discardModel(ctx context.Context, log *slog.Logger, models modelEraser, scores scoreResetter, name string) error {
	err := models.Delete(ctx, name)
	switch {
	case errors.Is(err, apperror.ErrModelNotFound):
		log.Info("No saved model to discard", "model", name)
	case err != nil:
		return fmt.Errorf("could not delete model %q: %w", name, err)
	default:
		log.Info("Discarded saved model", "model", name)
	}

	if err = scores.Reset(ctx, name); err != nil {
		return fmt.Errorf("could not reset scores of %q: %w", name, err)
	}

	return nil
}

// resumeOrCreate continues training a saved model, or starts a new network
// when fresh is set or nothing was saved yet.
func resumeOrCreate(ctx context.Context, log *slog.Logger, models modelLoader, conf *config.Config, fresh bool) (*agent.NeuralApproximator, error) {
	if fresh {
		return agent.NewNeuralApproximator(networkConfig(conf)), nil
	}

	approximator, err := loadApproximator(ctx, models, conf)
	if errors.Is(err, apperror.ErrModelNotFound) {
		log.Info("No saved model, starting from scratch", "model", conf.Model.Name)
		return agent.NewNeuralApproximator(networkConfig(conf)), nil
	}

	if err != nil {
		return nil, err
	}

	log.Info("Resuming saved model", "model", conf.Model.Name)

	return approximator, nil
}

// newOpponent builds the second seat. A self-play opponent shares the learner's
// approximator, so both sides' experience lands in one model.
func newOpponent(logger *slog.Logger, kind string, approximator agent.Approximator, rng *rand.Rand, params agent.Params) (tictactoe.Participant, error) {
	switch kind {
	case OpponentRandom, "":
		return player.NewRandom(entity.PlayerO, rng), nil
	case OpponentAgent:
		return agent.New(logger, approximator, rng, entity.PlayerO, params), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOpponent, kind)
	}
}

func agentParams(conf *config.Config) agent.Params {
	return agent.Params{
		Epsilon: conf.Agent.Epsilon,
		Alpha:   conf.Agent.Alpha,
		Gamma:   conf.Agent.Gamma,
	}
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return rand.New(rand.NewSource(seed)) //nolint: gosec // game randomness, not security
}
