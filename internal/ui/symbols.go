package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓" // Step completed successfully
	SymbolFail    = "✗" // Step failed
	SymbolPending = "○" // Step not yet started
	SymbolSkipped = "⊘" // Step skipped
	SymbolArrow   = "→" // Transition / destination
)
