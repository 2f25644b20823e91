package commands

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config keys honored in .expectgen.yaml. Flags win over config values.
const (
	cfgKeyVerify  = "verify"
	cfgKeyVerbose = "verbose"
)

// loadConfig reads an optional .expectgen.yaml from the working directory.
// A missing config file is not an error.
func loadConfig() (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyVerify, false)
	v.SetDefault(cfgKeyVerbose, false)
	v.SetConfigName(".expectgen")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}
