// Package logging builds the structured logger shared by the buffer
// manager and cmd/bufferctl.
package logging

import "go.uber.org/zap"

// New returns a development-mode logger when verbose is true (human
// readable, debug level) and a production-mode logger otherwise
// (JSON, info level and above) — matching the teacher's habit of
// being chatty by default during local work and quieter otherwise.
func New(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
