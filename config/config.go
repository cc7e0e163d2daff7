// config loads the application's yaml configuration: the environment, the level and
// the training parameters.
package config

import (
	"path/filepath"

	"gymtable/levels"
	"gymtable/reinforcement"
	"gymtable/table_env"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Kind is the only envelope kind understood by FromYaml.
const Kind = "tableConfig"

var ErrUnknownKind = errors.New("unknown config kind")

// OuterConfig is the envelope of every config file; Def is decoded according to Kind.
type OuterConfig struct {
	Kind string      `mapstructure:"kind"`
	Def  interface{} `mapstructure:"def"`
}

type AppConfig struct {
	Env      table_env.Config             `yaml:"env"`
	Level    levels.Spec                  `yaml:"level"`
	Training reinforcement.TrainingConfig `yaml:"training"`
}

// Default is used when no config file is given.
func Default() *AppConfig {
	return &AppConfig{
		Env:   table_env.Config{Size: 8},
		Level: levels.Spec{Name: "doorkey"},
		Training: reinforcement.TrainingConfig{
			TrainingDeadline: map[string]string{"duration": "60s"},
		},
	}
}

// FromYaml reads the config at path. Viper locates and parses the file; the def section
// is then re-encoded and decoded with yaml so the nested types only need yaml tags.
// Viper folds keys to lower case, hence the lower case tags throughout.
func FromYaml(path string) (*AppConfig, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	outerConfig := &OuterConfig{}
	if err := vp.Unmarshal(outerConfig); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s", path)
	}
	if outerConfig.Kind != Kind {
		return nil, errors.Wrapf(ErrUnknownKind, "%q", outerConfig.Kind)
	}

	spec, err := yaml.Marshal(outerConfig.Def)
	if err != nil {
		return nil, errors.Wrap(err, "re-encode def")
	}

	innerConfig := &AppConfig{Training: Default().Training}
	if err = yaml.Unmarshal(spec, innerConfig); err != nil {
		return nil, errors.Wrap(err, "decode def")
	}
	return innerConfig, nil
}
