// Package main hosts the lightdance CLI entrypoint and command graph.
//
// The Cobra command tree converts show documents into the frame-data and
// timing files read by the costume controllers, reads those files back for
// inspection, and scaffolds configuration. Configuration resolution and
// logger setup live in commandContext so that subcommands only deal with
// flags and output.
package main
