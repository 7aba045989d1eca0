// Package config defines the application's configuration structures and
// loading logic. Settings come from environment variables with the TASKHIVE_
// prefix, optionally seeded from a .env file, and are validated before use.
package config
