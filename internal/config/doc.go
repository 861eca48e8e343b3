// Package config loads the application configuration from the environment.
//
// Two credentials are required at runtime: the OpenAI API key (model and
// speech access) and the Google OAuth client token persisted by the auth
// command. Only the former is validated here; the Google token is checked
// lazily when the calendar client is first constructed.
package config
