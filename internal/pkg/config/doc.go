// Package config provides functionality for loading and managing application configuration.
//
// Settings come from an optional YAML file and MANAGED_OPENSSL_* environment variables.
// Every settings struct validates itself, so a loaded Config is ready to hand to the
// logger, the native backend factory and the façade runtime.
package config
