package handlers

const (
	// Song listing page sizes
	defaultSongPageSize = 20
	maxSongPageSize     = 100

	// Timeout for the store check in /health
	healthCheckTimeoutSecs = 2
)
