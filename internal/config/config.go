// Package config loads resumepage settings from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Registry modes select how the gate learns that the custom element exists.
const (
	// RegistryImmediate: the host has no custom element support, the page is
	// revealed as soon as it is produced.
	RegistryImmediate = "immediate"
	// RegistryNative: a browser decides, via customElements.whenDefined.
	RegistryNative = "native"
)

// cssClassRe matches the class names the page stylesheet can target.
var cssClassRe = regexp.MustCompile(`^-?[A-Za-z_][A-Za-z0-9_-]*$`)

// Config is the root configuration.
// Source priority:
//  1. explicit path passed to Load;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. environment only.
//
// A .env file in the working directory is loaded into the environment first.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Output  OutputConfig  `yaml:"output"`
	Gate    GateConfig    `yaml:"gate"`
	PDF     PDFConfig     `yaml:"pdf"`
	DB      DBConfig      `yaml:"db"`
	Publish PublishConfig `yaml:"publish"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	File  string `yaml:"file" env:"LOG_FILE"`
}

type OutputConfig struct {
	Dir string `yaml:"dir" env:"OUTPUT_DIR" env-default:"resume-data/generated"`
}

type GateConfig struct {
	Registry    string `yaml:"registry" env:"GATE_REGISTRY" env-default:"native"`
	Element     string `yaml:"element" env:"GATE_ELEMENT" env-default:"animatable-component"`
	HiddenClass string `yaml:"hidden_class" env:"GATE_HIDDEN_CLASS" env-default:"d-none"`
	// Zero keeps the page hidden for as long as the element is undefined.
	RevealTimeout time.Duration `yaml:"reveal_timeout" env:"GATE_REVEAL_TIMEOUT" env-default:"0s"`
}

type PDFConfig struct {
	Enabled    bool          `yaml:"enabled" env:"PDF_ENABLED" env-default:"false"`
	ChromePath string        `yaml:"chrome_path" env:"CHROME_PATH"`
	Attempts   int           `yaml:"attempts" env:"PDF_ATTEMPTS" env-default:"3"`
	Timeout    time.Duration `yaml:"timeout" env:"PDF_TIMEOUT" env-default:"60s"`
}

// DBConfig is only needed for db:<slug> record references.
type DBConfig struct {
	URL string `yaml:"url" env:"RECORDS_DATABASE_URL"`
}

type PublishConfig struct {
	Concurrency int `yaml:"concurrency" env:"PUBLISH_CONCURRENCY" env-default:"4"`
}

// Load reads configuration by priority:
// 1) explicit path; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
func Load(path string) (*Config, error) {
	// a missing .env is normal
	_ = godotenv.Load()

	var cfg Config

	read := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", p)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return &cfg, nil
	}

	var (
		c   *Config
		err error
	)
	switch {
	case path != "":
		c, err = read(path)
	case os.Getenv("CONFIG_PATH") != "":
		c, err = read(os.Getenv("CONFIG_PATH"))
	default:
		if _, statErr := os.Stat("local.yaml"); statErr == nil {
			c, err = read("local.yaml")
		} else {
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				return nil, fmt.Errorf("failed to read env config: %w", err)
			}
			c = &cfg
		}
	}
	if err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	switch c.Gate.Registry {
	case RegistryImmediate, RegistryNative:
	default:
		return fmt.Errorf("gate.registry must be %q or %q, got %q", RegistryImmediate, RegistryNative, c.Gate.Registry)
	}
	if c.Gate.Element == "" {
		return fmt.Errorf("gate.element is required")
	}
	if !cssClassRe.MatchString(c.Gate.HiddenClass) {
		return fmt.Errorf("gate.hidden_class must be a plain CSS class name, got %q", c.Gate.HiddenClass)
	}
	if c.Gate.RevealTimeout < 0 {
		return fmt.Errorf("gate.reveal_timeout must be >= 0")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	if c.PDF.Attempts < 1 {
		return fmt.Errorf("pdf.attempts must be >= 1")
	}
	if c.PDF.Timeout <= 0 {
		return fmt.Errorf("pdf.timeout must be > 0")
	}
	if c.Publish.Concurrency < 1 {
		return fmt.Errorf("publish.concurrency must be >= 1")
	}
	return nil
}
