package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is read from YAML, then the environment. Fields without env-default
// keep a zero value from the file: an empty http-port, a zero epsilon, interval
// or seed each mean something.
type Config struct {
	LogLevel string   `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string   `yaml:"http-port" env:"HTTP_PORT"`
	Redis    Redis    `yaml:"redis"`
	Agent    Agent    `yaml:"agent"`
	Model    Model    `yaml:"model"`
	Training Training `yaml:"training"`
	Play     Play     `yaml:"play"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Agent holds the learning hyperparameters.
type Agent struct {
	Epsilon      float64 `yaml:"epsilon"`
	Alpha        float64 `yaml:"alpha" env-default:"0.3"`
	Gamma        float64 `yaml:"gamma" env-default:"0.9"`
	HiddenUnits  int     `yaml:"hidden-units" env-default:"32"`
	FitPasses    int     `yaml:"fit-passes" env-default:"3"`
	LearningRate float64 `yaml:"learning-rate" env-default:"0.01"`
}

type Model struct {
	Name string `yaml:"name" env:"MODEL_NAME" env-default:"default"`
}

type Training struct {
	Episodes       int    `yaml:"episodes" env-default:"10000"`
	ReportInterval int    `yaml:"report-interval"`
	SaveInterval   int    `yaml:"save-interval"`
	Opponent       string `yaml:"opponent" env-default:"random"`
	Seed           int64  `yaml:"seed"`
}

type Play struct {
	HumanMark string `yaml:"human-mark" env-default:"O"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
