package flow

import "time"

// DefaultScanMessages are cycled while the controller is Scanning.
var DefaultScanMessages = []string{
	"TRIANGULATING SIGNALS...",
	"ACCESSING LOCAL GRID...",
	"DETECTING AUTHENTICITY...",
	"FILTERING TOURIST TRAPS...",
	"LOCATING HIDDEN GEMS...",
	"COMPILING ARTIFACT DATA...",
}

// Config holds the choreography timings.
type Config struct {
	// PrepareDelay is the unfold time between Preparing and Searching.
	PrepareDelay time.Duration
	// SearchDwell is the minimum time, measured from Start, before the
	// controller may leave Searching.
	SearchDwell     time.Duration
	ResolveDelay    time.Duration
	LockDelay       time.Duration
	ZoomDelay       time.Duration
	ScanDuration    time.Duration
	MessageInterval time.Duration
	Messages        []string
	// ResolveTimeout bounds the resolver call. Zero means no timeout.
	ResolveTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		PrepareDelay:    900 * time.Millisecond,
		SearchDwell:     2500 * time.Millisecond,
		ResolveDelay:    1500 * time.Millisecond,
		LockDelay:       100 * time.Millisecond,
		ZoomDelay:       2000 * time.Millisecond,
		ScanDuration:    5000 * time.Millisecond,
		MessageInterval: 800 * time.Millisecond,
		Messages:        DefaultScanMessages,
	}
}
