package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Input    string  `yaml:"input"`
	Serial   string  `yaml:"serial"`
	Baud     int     `yaml:"baud"`
	Channels []uint8 `yaml:"channels"` // 0-15; empty means all
}

func LoadConfig(filename string) (Config, error) {
	var config Config
	if filename == "" {
		return config, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, err
	}
	return config, nil
}

func channelAllowed(channels []uint8, ch uint8) bool {
	if len(channels) == 0 {
		return true
	}
	for _, c := range channels {
		if c == ch {
			return true
		}
	}
	return false
}
