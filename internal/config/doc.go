// Package config defines the format-agnostic run configuration, along with
// the Loader interface that fills it from a concrete source.
//
// The Model is the single source of truth for the app package. Concrete
// loaders, such as the HCL one, live in separate packages.
package config
