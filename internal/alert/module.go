package alert

import "go.uber.org/fx"

// Module exposes the default alerter implementation to fx graphs.
var Module = fx.Provide(
	NewLogAlerter,
	func(a *LogAlerter) Alerter { return a },
)
