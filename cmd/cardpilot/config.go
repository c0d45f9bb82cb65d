// Copyright 2025 Finsight Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// appConfig is everything the CLI needs to build an Advisor. Values resolve
// in the usual precedence: command-line flags, then CARDPILOT_* environment
// variables, then the config file, then defaults.
type appConfig struct {
	CatalogPath    string        `mapstructure:"catalog"`
	DBPath         string        `mapstructure:"db"`
	EmbeddingHost  string        `mapstructure:"embedding-host"`
	ChatHost       string        `mapstructure:"chat-host"`
	EmbeddingModel string        `mapstructure:"embedding-model"`
	ChatModel      string        `mapstructure:"chat-model"`
	MaxResults     int           `mapstructure:"max-results"`
	CatalogTTL     time.Duration `mapstructure:"catalog-ttl"`
	LowFeeCeiling  float64       `mapstructure:"low-fee-ceiling"`
	MatchThreshold float64       `mapstructure:"match-threshold"`
	FeaturedLimit  int           `mapstructure:"featured-inject-limit"`
}

// loadConfig reads the config file at path, or searches the working directory
// for cardpilot.{yaml,toml,json} when path is empty. A missing file is only an
// error when one was named explicitly.
func loadConfig(path string) (*appConfig, error) {
	v := viper.New()

	// Keys without a real default still need registering, or AutomaticEnv
	// values never reach Unmarshal.
	v.SetDefault("catalog", "")
	v.SetDefault("db", "")
	v.SetDefault("embedding-host", "http://localhost:11434/v1")
	v.SetDefault("chat-host", "http://localhost:11434/v1")
	v.SetDefault("embedding-model", "embeddinggemma")
	v.SetDefault("chat-model", "qwen2.5:3b")
	v.SetDefault("max-results", 3)
	v.SetDefault("catalog-ttl", 15*time.Minute)
	v.SetDefault("low-fee-ceiling", 100.0)
	v.SetDefault("match-threshold", 0.5)
	v.SetDefault("featured-inject-limit", 3)

	v.SetEnvPrefix("CARDPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("cardpilot")
		v.AddConfigPath(".")
		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg appConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}
