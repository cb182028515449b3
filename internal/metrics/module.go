package metrics

import "go.uber.org/fx"

// Module provides the metric set to the fx container.
var Module = fx.Provide(New)
