package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/tictactoe-rl/internal"
	"github.com/rocketscienceinc/tictactoe-rl/internal/config"
)

// main - is the entry point of the application. It builds the CLI and runs the selected command.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "tictactoe",
		Short:        "Tic-tac-toe against an agent that learns action values online",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yml", "path to the config file")

	root.AddCommand(newTrainCmd(&configPath), newPlayCmd(&configPath))

	return root
}

func newTrainCmd(configPath *string) *cobra.Command {
	var (
		episodes int
		opponent string
		model    string
		seed     int64
		opts     app.TrainOptions
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the agent through sequential games and save its model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := initConfig(*configPath)

			flags := cmd.Flags()
			if flags.Changed("episodes") {
				conf.Training.Episodes = episodes
			}
			if flags.Changed("opponent") {
				conf.Training.Opponent = opponent
			}
			if flags.Changed("model") {
				conf.Model.Name = model
			}
			if flags.Changed("seed") {
				conf.Training.Seed = seed
			}

			return app.RunTrain(initLogger(conf, os.Stdout), conf, opts)
		},
	}

	cmd.Flags().IntVarP(&episodes, "episodes", "n", 0, "number of games to play")
	cmd.Flags().StringVar(&opponent, "opponent", "", "opponent kind: random or agent")
	cmd.Flags().StringVarP(&model, "model", "m", "", "model name to resume and save")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 seeds from the clock")
	cmd.Flags().BoolVar(&opts.Fresh, "fresh", false, "delete the saved model and its scores before training")

	return cmd
}

func newPlayCmd(configPath *string) *cobra.Command {
	var (
		model     string
		humanMark string
		opts      app.PlayOptions
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the trained agent on the console",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := initConfig(*configPath)

			flags := cmd.Flags()
			if flags.Changed("model") {
				conf.Model.Name = model
			}
			if flags.Changed("mark") {
				conf.Play.HumanMark = humanMark
			}

			// the board owns stdout while playing
			return app.RunPlay(initLogger(conf, os.Stderr), conf, opts)
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "model name to load")
	cmd.Flags().StringVar(&humanMark, "mark", "", "your mark: X or O")
	cmd.Flags().BoolVar(&opts.Learn, "learn", false, "keep learning from your games and save the model")

	return cmd
}

// initialize config.
func initConfig(path string) *config.Config {
	if !filepath.IsAbs(path) {
		baseDir, err := os.Getwd()
		if err != nil {
			panic(fmt.Errorf("failed to get current directory: %w", err))
		}

		path = filepath.Join(baseDir, path)
	}

	return config.MustLoad(path)
}

// initialize logger.
func initLogger(conf *config.Config, w io.Writer) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
