// Package config provides the configuration system for mdinput.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment (MDINPUT_)  │
//	├─────────────────────────────┤
//	│  2. Config file             │  ← mdinput.toml or mdinput.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: TOML, YAML and environment loading, deep merge
//   - watcher: fsnotify-based live reload of the config file
//
// A Manager owns the current Config and publishes a notify.TopicConfig
// event whenever a reload produces a valid configuration.
package config
