// File: utils/constants.go
package utils

import "time"

// AvailabilityCachePrefix is the prefix used for cached day-availability responses.
const AvailabilityCachePrefix = "availability:"

// AvailabilityCacheTTL is the time-to-live for cached day-availability responses.
// Kept short: every applied booking also invalidates the business's keys.
const AvailabilityCacheTTL = 2 * time.Minute
