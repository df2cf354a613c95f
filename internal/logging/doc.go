// Package logging assembles the slog loggers used by the lightdance CLI.
//
// It owns the console and JSON handlers, maps configuration onto levels and
// output destinations, and tags every line of a conversion run with a run id
// so that logs from repeated watch-mode conversions can be told apart.
package logging
