package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/babarot/dormant/internal/env"
	"github.com/go-playground/validator/v10"
	"github.com/k1LoW/duration"
	"github.com/muesli/reflow/indent"
	"gopkg.in/yaml.v2"
)

var validate *validator.Validate

type Config struct {
	Core    Core          `yaml:"core"`
	Scan    ScanConfig    `yaml:"scan"`
	Monitor MonitorConfig `yaml:"monitor"`
	Recover RecoverConfig `yaml:"recover"`
	UI      UI            `yaml:"ui"`
}

type Core struct {
	// TrashDir overrides the home trash location ($XDG_DATA_HOME/Trash)
	TrashDir string        `yaml:"trash_dir" validate:"omitempty,validDirPath"`
	Logging  LoggingConfig `yaml:"logging"`
}

type LoggingConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Level    string         `yaml:"level" validate:"required,oneof=debug info warn error"`
	Rotation RotationConfig `yaml:"rotation"`
}

type RotationConfig struct {
	MaxSize  string `yaml:"max_size" validate:"required,validSize"`
	MaxFiles int    `yaml:"max_files" validate:"gte=0"`
}

type ScanConfig struct {
	// UnusedAfter is how long a file must go without being accessed
	// before it is reported as unused, e.g. "180 days"
	UnusedAfter string        `yaml:"unused_after" validate:"required,validDuration"`
	Workers     int           `yaml:"workers" validate:"gte=0,lte=256"`
	DetectMIME  bool          `yaml:"detect_mime"`
	Exclude     ExcludeConfig `yaml:"exclude"`

	// Deprecated: use UnusedAfter
	ThresholdDays int `yaml:"threshold_days,omitempty" validate:"deprecated"`
}

type ExcludeConfig struct {
	Files    []string   `yaml:"files"`
	Patterns []string   `yaml:"patterns"`
	Globs    []string   `yaml:"globs"`
	Size     SizeConfig `yaml:"size"`
}

type SizeConfig struct {
	Min string `yaml:"min" validate:"omitempty,validSize"`
	Max string `yaml:"max" validate:"omitempty,validSize"`
}

type MonitorConfig struct {
	Backend string `yaml:"backend" validate:"required,oneof=auto fsnotify fsevents"`
}

type RecoverConfig struct {
	OnConflict string `yaml:"on_conflict" validate:"required,oneof=fail overwrite rename"`
	Verbose    bool   `yaml:"verbose"`
}

type UI struct {
	Progress string      `yaml:"progress" validate:"required,oneof=bar log none"`
	Style    StyleConfig `yaml:"style"`
}

type StyleConfig struct {
	Unused  string `yaml:"unused" validate:"omitempty,validColor"`
	Success string `yaml:"success" validate:"omitempty,validColor"`
	Failure string `yaml:"failure" validate:"omitempty,validColor"`
}

type configError struct {
	configPath string
	parser     parser
	err        error
}

type parser struct{}

func (p parser) getDefaultConfigContents() string {
	content, _ := yaml.Marshal(NewDefaultConfig())
	return string(content)
}

func (e configError) Error() string {
	return heredoc.Docf(`
		Couldn't find the "%s" config file.
		Please try again after creating it or specifying a valid config path.
		The recommended config path is %s (default).
		Example YAML file contents:
		---
		%s
		---
		Original error:
		%s
		`,
		e.configPath,
		env.DORMANT_CONFIG_PATH,
		e.parser.getDefaultConfigContents(),
		indent.String(e.err.Error(), 2),
	)
}

type parsingError struct {
	err error
}

func (e parsingError) Error() string {
	return fmt.Sprintf("failed to parse config: %v", e.err)
}

func (e parsingError) Unwrap() error {
	return e.err
}

func (p parser) ensureConfigFile(path string) error {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		slog.Warn("creating directory as it does not exist", "dir", dir)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	slog.Warn("creating config file as it does not exist", "config-file", path)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0666)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(p.getDefaultConfigContents())
	return err
}

func (p parser) readConfigFile(path string) (Config, error) {
	// Fields missing from the file keep their default values
	cfg := *NewDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, configError{
			configPath: path,
			parser:     p,
			err:        err,
		}
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return cfg, fmt.Errorf("validation error: Field %s, %q is invalid", verrs[0].Namespace(), verrs[0].Value())
		}
		return cfg, err
	}

	cfg.migrate()
	return cfg, nil
}

// migrate carries values of deprecated fields over to their replacements
func (c *Config) migrate() {
	if c.Scan.ThresholdDays > 0 {
		c.Scan.UnusedAfter = fmt.Sprintf("%d days", c.Scan.ThresholdDays)
		c.Scan.ThresholdDays = 0
	}
}

func initParser() parser {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.Split(fld.Tag.Get("yaml"), ",")[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("validSize", validateSize)
	_ = validate.RegisterValidation("validDuration", validateDuration)
	_ = validate.RegisterValidation("validColor", validateColorCode)
	_ = validate.RegisterValidation("validDirPath", validateDirPath)
	_ = validate.RegisterValidation("deprecated", validateDeprecated)

	return parser{}
}

// Parse loads the config file at path. An empty path means the default
// location, which is created with default contents when missing.
func Parse(path string) (Config, error) {
	parser := initParser()

	if path == "" {
		path = env.DORMANT_CONFIG_PATH
		if err := parser.ensureConfigFile(path); err != nil {
			return Config{}, parsingError{err: configError{
				configPath: path,
				parser:     parser,
				err:        err,
			}}
		}
	}
	slog.Debug("config file found", "config-file", path)

	cfg, err := parser.readConfigFile(path)
	if err != nil {
		return cfg, parsingError{err: err}
	}

	return cfg, nil
}

// Threshold returns UnusedAfter as a duration
func (s ScanConfig) Threshold() (time.Duration, error) {
	d, err := duration.Parse(s.UnusedAfter)
	if err != nil {
		return 0, fmt.Errorf("scan.unused_after: %w", err)
	}
	return d, nil
}
