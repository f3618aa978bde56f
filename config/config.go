// Copyright 2025 The chatting-with-docs authors
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

// Package config loads the application's config.yaml.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// Prompt is a named prompt template selectable in the chat UI.
type Prompt struct {
	Name     string `yaml:"name"`
	Template string `yaml:"template"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	K             int      `yaml:"k"`
	MinSimilarity float32  `yaml:"min_similarity"`
	ChatModel     string   `yaml:"chat_model"`
	EmbedModel    string   `yaml:"embedding_model"`
	Host          string   `yaml:"host"`
	DBPath        string   `yaml:"db_path"`
	Prompts       []Prompt `yaml:"prompts"`
}

// Load reads a config from the given path. A missing file yields
// defaults rather than an error.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when no config.yaml exists.
func Default() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

// Prompt returns the named prompt template, or ok=false when no prompt
// with that name is configured.
func (c *AppConfig) Prompt(name string) (string, bool) {
	for _, p := range c.Prompts {
		if p.Name == name {
			return p.Template, true
		}
	}
	return "", false
}

func applyDefaults(cfg *AppConfig) {
	if cfg.K <= 0 {
		cfg.K = 4
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = "gpt-3.5-turbo-16k"
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = "text-embedding-3-small"
	}
	if cfg.Host == "" {
		cfg.Host = "https://api.openai.com/v1"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "db"
	}
}
