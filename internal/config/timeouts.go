package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds the configurable delays and retry budgets of the workflow.
// These values can be customized via environment variables.
type Timeouts struct {
	PollInterval      time.Duration // Fixed delay between hosting provisioning polls
	PollMaxAttempts   int           // Attempt budget for the provisioning poll loop
	UploadMaxAttempts int           // Attempt budget per artifact upload
	UploadRetryDelay  time.Duration // Initial delay between upload retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - HOSTING_POLL_INTERVAL (default: 3m)
//   - HOSTING_POLL_MAX_ATTEMPTS (default: 20)
//   - HOSTING_UPLOAD_MAX_ATTEMPTS (default: 4)
//   - HOSTING_UPLOAD_RETRY_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		PollInterval:      parseDuration("HOSTING_POLL_INTERVAL", 3*time.Minute),
		PollMaxAttempts:   parseInt("HOSTING_POLL_MAX_ATTEMPTS", 20),
		UploadMaxAttempts: parseInt("HOSTING_UPLOAD_MAX_ATTEMPTS", 4),
		UploadRetryDelay:  parseDuration("HOSTING_UPLOAD_RETRY_DELAY", 1*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
