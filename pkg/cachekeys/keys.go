package cachekeys

import (
	"fmt"
	"strings"
)

// ListKey generates the cache key holding the serialized list snapshot of a
// collection, e.g. "tasks:list". One key per listable collection.
func ListKey(collection string) string {
	return fmt.Sprintf("%s:list", collection)
}

// ResendCooldownKey generates the cooldown key gating confirmation-email
// resends for an email address. Presence of the key in the cache store means
// the action fired within the last TTL seconds.
func ResendCooldownKey(email string) string {
	return fmt.Sprintf("resend:%s", strings.ToLower(strings.TrimSpace(email)))
}
