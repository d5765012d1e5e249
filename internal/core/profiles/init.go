// Package profiles registers the built-in rule-set profiles with the core
// registry and loads additional profiles from YAML files.
//
// Import this package to ensure the built-in profiles are registered. Each
// built-in profile file registers itself from init().
package profiles
