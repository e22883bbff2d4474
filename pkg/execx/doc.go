// Package execx wraps execution of external privileged commands (package
// manager, service manager, database CLIs) behind a narrow Runner interface.
// Callers receive a structured Result with the exit code and combined output
// instead of inspecting raw process semantics.
package execx
