// Package config manages user-level settings stored at ~/.rustpy/config.yaml.
// It resolves which copier executable to run, which template source to hand
// it, and how many documentation warnings the verification harness accepts.
// Every key can also be supplied through RUSTPY_* environment variables.
package config
