package flow

import "errors"

// Error categories. Callers classify failures with errors.Is.
var (
	// ErrConfig marks a malformed or self-contradictory module configuration.
	ErrConfig = errors.New("invalid configuration")
	// ErrMissingAsset marks a required file or directory that does not exist.
	ErrMissingAsset = errors.New("missing asset")
	// ErrToolchain marks an external tool run whose log reports errors.
	ErrToolchain = errors.New("toolchain failure")
	// ErrSubmoduleCycle marks a submodule that depends on itself.
	ErrSubmoduleCycle = errors.New("submodule cycle")
	// ErrStage marks a pipeline stage invoked out of order.
	ErrStage = errors.New("pipeline stage out of order")
)
