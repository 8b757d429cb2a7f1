package runoff

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/fatih/structs"
	"github.com/koding/multiconfig"
	"github.com/rs/zerolog"
)

// Config uses the multiconfig loader and validators to store configuration
// values required to run and report counts. Configuration can be stored as a
// JSON, TOML, or YAML file in the current working directory as runoff.json, in
// the user's home directory as .runoff.json or in /etc/runoff.json (with the
// extension of the file format of choice). Configuration can also be added
// from the environment using environment variables prefixed with $RUNOFF_ and
// the all caps version of the configuration name.
type Config struct {
	Name      string `required:"false" json:"name"`                         // label of the count in logs and metrics
	Separator string `default:">" json:"separator"`                         // divides preferences when parsing and rendering ballots
	LogLevel  string `default:"info" validate:"level" json:"log_level"`     // zerolog level name, e.g. debug, info, warn
	Quiet     bool   `required:"false" json:"quiet"`                        // do not write the multi-round report
	Metrics   string `required:"false" json:"metrics"`                      // location to append count metrics to disk
	Runs      int    `default:"10" validate:"uint" json:"runs"`             // number of runs per benchmark
	Factor    int    `default:"200" validate:"uint" json:"factor"`          // scale of the benchmark scenario
	Scenario  string `default:"rounds" validate:"scenario" json:"scenario"` // benchmark scenario to run
}

// Load the configuration from default values, then from a configuration file,
// and finally from the environment. Validate the configuration when loaded.
func (c *Config) Load() error {
	loaders := []multiconfig.Loader{}

	// Read default values defined via tag fields "default"
	loaders = append(loaders, &multiconfig.TagLoader{})

	// Find the config path and the appropriate file loader
	if path, err := c.GetPath(); err == nil {
		if strings.HasSuffix(path, "toml") {
			loaders = append(loaders, &multiconfig.TOMLLoader{Path: path})
		}

		if strings.HasSuffix(path, "json") {
			loaders = append(loaders, &multiconfig.JSONLoader{Path: path})
		}

		if strings.HasSuffix(path, "yml") || strings.HasSuffix(path, "yaml") {
			loaders = append(loaders, &multiconfig.YAMLLoader{Path: path})
		}

	}

	// Load the environment variable loader
	env := &multiconfig.EnvironmentLoader{Prefix: "RUNOFF", CamelCase: true}
	loaders = append(loaders, env)

	loader := multiconfig.MultiLoader(loaders...)
	if err := loader.Load(c); err != nil {
		return err
	}

	return c.Validate()
}

// Validate the loaded configuration using the multiconfig multi validator.
func (c *Config) Validate() error {
	validators := multiconfig.MultiValidator(
		&multiconfig.RequiredValidator{},
		&ComplexValidator{},
	)

	return validators.Validate(c)
}

// Update the configuration from another configuration struct
func (c *Config) Update(o *Config) error {
	if o == nil {
		return nil
	}

	conf := structs.New(c)

	// Then update the current config with values from the other config
	for _, field := range structs.Fields(o) {
		if !field.IsZero() {
			updateField := conf.Field(field.Name())
			if err := updateField.Set(field.Value()); err != nil {
				return err
			}
		}
	}

	return c.Validate()
}

// GetName returns the label of the count defined by the configuration or a
// label derived from the hostname by default.
func (c *Config) GetName() string {
	if c.Name == "" {
		if hostname, err := os.Hostname(); err == nil {
			return hostname
		}
		return "runoff"
	}
	return c.Name
}

// GetSeparator returns the preference separator, the default if unset.
func (c *Config) GetSeparator() string {
	if c.Separator == "" {
		return DefaultSeparator
	}
	return c.Separator
}

// GetLogLevel parses the log level, returning info if it is not set.
func (c *Config) GetLogLevel() zerolog.Level {
	if c.LogLevel == "" {
		return zerolog.InfoLevel
	}

	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// GetPath searches possible configuration paths returning the first path it
// finds; this path is used when loading the configuration from disk. An
// error is returned if no configuration file exists.
func (c *Config) GetPath() (string, error) {
	// Prepare PATH list
	paths := make([]string, 0, 3)

	// Look in CWD directory first
	if path, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(path, "runoff"))
	}

	// Look in user's home directory next
	if user, err := user.Current(); err == nil {
		paths = append(paths, filepath.Join(user.HomeDir, ".runoff"))
	}

	// Finally look in etc for the global configuration
	paths = append(paths, "/etc/runoff")

	for _, path := range paths {
		for _, ext := range []string{".toml", ".json", ".yml", ".yaml"} {
			fpath := path + ext
			if _, err := os.Stat(fpath); !os.IsNotExist(err) {
				return fpath, nil
			}
		}
	}

	return "", errors.New("no configuration file found")
}

//===========================================================================
// Validators
//===========================================================================

// ComplexValidator validates complex types that multiconfig doesn't understand
type ComplexValidator struct {
	TagName string
}

// Validate implements the multiconfig.Validator interface.
func (v *ComplexValidator) Validate(s interface{}) error {
	if v.TagName == "" {
		v.TagName = "validate"
	}

	for _, field := range structs.Fields(s) {
		if err := v.processField("", field); err != nil {
			return err
		}
	}

	return nil
}

func (v *ComplexValidator) processField(fieldName string, field *structs.Field) error {
	fieldName += field.Name()
	switch field.Kind() {
	case reflect.Struct:
		fieldName += "."
		for _, f := range field.Fields() {
			if err := v.processField(fieldName, f); err != nil {
				return err
			}
		}
	default:
		if field.IsZero() {
			return nil
		}

		switch strings.ToLower(field.Tag(v.TagName)) {
		case "":
			return nil
		case "level":
			return v.processLevelField(fieldName, field)
		case "uint":
			return v.processUintField(fieldName, field)
		case "scenario":
			return v.processScenarioField(fieldName, field)
		default:
			return fmt.Errorf("cannot validate type '%s'", field.Tag(v.TagName))
		}

	}

	return nil
}

func (v *ComplexValidator) processLevelField(fieldName string, field *structs.Field) error {
	if _, err := zerolog.ParseLevel(field.Value().(string)); err != nil {
		return fmt.Errorf("could not validate %s: %s", fieldName, err.Error())
	}
	return nil
}

func (v *ComplexValidator) processUintField(fieldName string, field *structs.Field) error {
	val := field.Value().(int)
	if val < 0 {
		return fmt.Errorf("%s is less than zero", fieldName)
	}
	return nil
}

func (v *ComplexValidator) processScenarioField(fieldName string, field *structs.Field) error {
	switch field.Value().(string) {
	case RoundsScenario, OptionsScenario, ValidationScenario:
		return nil
	default:
		return fmt.Errorf("could not validate %s: unknown scenario %q", fieldName, field.Value())
	}
}
