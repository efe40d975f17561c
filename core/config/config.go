package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
)

type Configuration struct {
	configFs afero.Fs

	Prompt              string `json:"prompt" toml:"prompt" validate:"required"`
	ColorPrompt         bool   `json:"color_prompt" toml:"color_prompt"`
	ChunkSize           int    `json:"chunk_size" toml:"chunk_size" validate:"gte=1"`
	SearchPath          string `json:"search_path" toml:"search_path"`
	PropagateExitStatus bool   `json:"propagate_exit_status" toml:"propagate_exit_status"`

	History History `json:"history" toml:"history"`
}

type History struct {
	InitialCapacity int    `json:"initial_capacity" toml:"initial_capacity" validate:"gte=1"`
	JSONLFile       string `json:"jsonl_file" toml:"jsonl_file"`
	SQLiteFile      string `json:"sqlite_file" toml:"sqlite_file"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		return afero.NewOsFs()
	}
	return c.configFs
}

// Fs returns the filesystem the configuration was loaded from.
func (c *Configuration) Fs() afero.Fs {
	return c.fs()
}

// OpenHistoryLog opens the JSON lines history in an append only state. It
// returns nil if no history file is configured.
func (c *Configuration) OpenHistoryLog() (afero.File, error) {
	if c.History.JSONLFile == "" {
		return nil, nil
	}
	if dir := filepath.Dir(c.History.JSONLFile); dir != "." {
		if err := c.fs().MkdirAll(dir, 0700); err != nil {
			return nil, err
		}
	}
	return c.fs().OpenFile(c.History.JSONLFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// Default returns the built-in configuration backed by the OS filesystem.
func Default() *Configuration {
	return New(afero.NewOsFs())
}

// New returns the built-in configuration backed by fs.
func New(fs afero.Fs) *Configuration {
	out := defaultConfig()
	out.configFs = fs
	return out
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
