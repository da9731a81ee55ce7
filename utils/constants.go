// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries. Entries
// slide on use, so this bounds idle sessions, not active ones.
const AuthCacheTTL = 72 * time.Hour
