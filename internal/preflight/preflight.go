package preflight

import (
	"lightdance/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every check for cfg: the input directory and documents must
// be readable and the output directory writable. A missing output directory
// passes when its nearest existing ancestor is writable, since convert
// creates it.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Input directory", cfg.Paths.InputDir, accessRead),
		CheckFileReadable("Control document", cfg.ControlPath()),
		CheckFileReadable("LED document", cfg.LEDPath()),
		CheckFileReadable("OF document", cfg.OFPath()),
		CheckCreatableDirectory("Output directory", cfg.Paths.OutputDir),
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckCreatableDirectory("Log directory", cfg.Paths.LogDir))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
