package config

import (
	"fmt"
	"os"

	"github.com/creasty/defaults"
)

type GlobalConfig struct {
	Server    Server    `mapstructure:",squash"`
	Log       Log       `mapstructure:",squash"`
	Trace     Trace     `mapstructure:",squash"`
	Database  Database  `mapstructure:",squash"`
	Redis     Redis     `mapstructure:",squash"`
	Inventory Inventory `mapstructure:",squash"`
	Status    Status    `mapstructure:",squash"`
	Seed      Seed      `mapstructure:",squash"`
	RPC       RPC       `mapstructure:",squash"`
}

var config = &GlobalConfig{}

func init() {
	if err := defaults.Set(config); err != nil {
		fmt.Printf("set default err: %+v", err)
		os.Exit(1)
	}
}

func Global() *GlobalConfig {
	return config
}
