// Package lifecycle holds shared constants for component startup and
// shutdown behavior.
package lifecycle

import "time"

// DefaultTimeout bounds graceful startup and shutdown operations such as
// database pings and server drains.
const DefaultTimeout = 10 * time.Second
