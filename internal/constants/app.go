// Package constants centralizes tunable values shared across the application.
package constants

import "time"

// Event system
const (
	// EventBusDefaultBuffer - default buffer size for event channels
	EventBusDefaultBuffer = 1000

	// EventBusMaxBuffer - maximum buffer size for high-throughput scenarios
	EventBusMaxBuffer = 5000
)

// HTTP lookups
const (
	// LookupTimeout - request timeout applied to external registry and
	// SEFAZ lookups. Filesystem and store calls carry no timeout.
	LookupTimeout = 15 * time.Second

	// LookupRetryMax - maximum retries for transient HTTP errors
	LookupRetryMax = 3

	// LookupRetryWaitMin - initial delay before first retry
	LookupRetryWaitMin = 1 * time.Second

	// LookupRetryWaitMax - maximum delay between retries
	LookupRetryWaitMax = 10 * time.Second
)

// Clipboard history
const (
	// ClipboardPollInterval - default interval between clipboard polls
	ClipboardPollInterval = 2 * time.Second

	// ClipboardHistoryLimit - maximum persisted clipboard entries.
	// Older rows are pruned when the limit is exceeded.
	ClipboardHistoryLimit = 200

	// ClipboardEntryMaxBytes - entries larger than this are ignored
	ClipboardEntryMaxBytes = 64 * 1024
)

// Explorer
const (
	// WatcherDebounce - debounce interval for directory change events
	WatcherDebounce = 200 * time.Millisecond

	// ProgressThrottleInterval - minimum time between copy-in progress
	// events forwarded to the frontend
	ProgressThrottleInterval = 100 * time.Millisecond
)

// Permissions for created files and directories.
const (
	DirPermission  = 0o755
	FilePermission = 0o644
)

// Timers
const (
	// TimerTickInterval - resolution of countdown timer updates
	TimerTickInterval = 1 * time.Second
)
