// Package config holds the configuration surface for clonescan.
// It provides the flat Config struct with named defaults, validation
// with sentinel errors, XDG directory helpers, and the .clonescan
// YAML configuration file with per-target overrides.
package config
