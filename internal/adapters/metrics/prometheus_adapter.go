package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHitsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "letterbox_list_cache_hits_total",
			Help: "Number of list reads served from the cache store.",
		},
		[]string{"key"},
	)
	cacheMissesCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "letterbox_list_cache_misses_total",
			Help: "Number of list reads that fell through to the persistent store.",
		},
		[]string{"key"},
	)
	cooldownBlockedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "letterbox_cooldown_blocked_total",
			Help: "Number of rate-limited actions refused while their cooldown was active.",
		},
	)
	confirmationEmailCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "letterbox_confirmation_emails_published_total",
			Help: "Number of confirmation email events published to the mailer transport.",
		},
	)
)

// IncrementCacheHit records a list cache hit for the given key.
func IncrementCacheHit(key string) {
	cacheHitsCounter.WithLabelValues(key).Inc()
}

// IncrementCacheMiss records a list cache miss for the given key.
func IncrementCacheMiss(key string) {
	cacheMissesCounter.WithLabelValues(key).Inc()
}

// IncrementCooldownBlocked records a refused rate-limited action.
func IncrementCooldownBlocked() {
	cooldownBlockedCounter.Inc()
}

// IncrementConfirmationEmailPublished records a dispatched confirmation email event.
func IncrementConfirmationEmailPublished() {
	confirmationEmailCounter.Inc()
}
