// Package config loads and validates the engine's TOML configuration,
// adapted from the teacher's broker/gcfg. Unlike gcfg's panic-on-import
// singleton, Load is an explicit call: the engine is meant to be
// embedded as a library, not booted as a standalone process, so nothing
// here runs from an init function.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"

	"github.com/lybxkl/subengine/common/log"
	"github.com/lybxkl/subengine/engine"
)

//go:embed config.toml
var defaultCfgFile []byte

var (
	validate = validator.New()
	trans    ut.Translator
)

func init() {
	uni := ut.New(zh.New())
	trans, _ = uni.GetTranslator("zh")

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})

	if err := validate.RegisterValidation("default", defaultValidation); err != nil {
		panic(fmt.Errorf("config: register default validator: %w", err))
	}
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(fmt.Errorf("config: register translations: %w", err))
	}
}

// Config is the top-level document a config.toml unmarshals into. The
// engine table embeds engine.Config directly, so every tunable §4/§9
// names round-trips through the same validate tags the engine package
// already carries.
type Config struct {
	Version string        `toml:"version"`
	Engine  engine.Config `toml:"engine"`
	Log     Log           `toml:"log"`
}

// Log mirrors the teacher's gcfg.Log: a single validated level string
// converted through common/log.ToLevel.
type Log struct {
	Level string `toml:"level" validate:"default=info"`
}

func (l Log) LogLevel() log.Level { return log.ToLevel(l.Level) }

// Load reads path, falling back to the embedded default when path is
// empty, and validates the result. A validation failure is translated
// into Chinese via the zh translator, matching the teacher's
// Translate helper.
func Load(path string) (*Config, error) {
	data := defaultCfgFile
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		data = b
	}

	cfg := &Config{}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, Translate(err)
	}
	return cfg, nil
}

// Translate turns validator.ValidationErrors into a single joined,
// localized error, exactly as the teacher's gcfg.Translate does.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, e.Translate(trans))
	}
	return errors.New(strings.Join(msgs, "|"))
}

// defaultValidation implements the "default=<value>" tag carried over
// from the teacher's gcfg: a zero-valued string/int/uint/float field is
// filled in with the tag's parameter instead of failing validation.
func defaultValidation(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.String:
		if fl.Field().String() == "" {
			fl.Field().SetString(fl.Param())
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if fl.Field().Int() == 0 {
			if v, err := strconv.ParseInt(fl.Param(), 10, 64); err == nil {
				fl.Field().SetInt(v)
			}
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if fl.Field().Uint() == 0 {
			if v, err := strconv.ParseUint(fl.Param(), 10, 64); err == nil {
				fl.Field().SetUint(v)
			}
		}
	case reflect.Float32, reflect.Float64:
		if fl.Field().Float() == 0 {
			if v, err := strconv.ParseFloat(fl.Param(), 64); err == nil {
				fl.Field().SetFloat(v)
			}
		}
	}
	return true
}
