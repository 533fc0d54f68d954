package service

import "log/slog"

//go:generate go tool stringer -type=Stage -trimprefix=Stage

// Stage is a step of the mutation pipeline. A mutation moves forward
// through Validating, Resolving and Checking to Committed, or ends in
// Aborted from any earlier stage.
type Stage int

const (
	StageValidating Stage = iota
	StageResolving
	StageChecking
	StageCommitted
	StageAborted
)

// LogValue logs a stage by name.
func (s Stage) LogValue() slog.Value {
	return slog.StringValue(s.String())
}
