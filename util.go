package ultradns

import (
	"time"
)

const defaultTTL = 300 * time.Second

// getTTL returns the smallest positive value or zero.
func getTTL(values ...time.Duration) time.Duration {
	var result time.Duration
	for _, value := range values {
		if value > 0 && (result == 0 || value < result) {
			result = value
		}
	}

	return result
}

func effectiveTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return defaultTTL
	}

	return max(ttl, time.Second)
}

func ttlSeconds(ttl time.Duration) int {
	return int(effectiveTTL(ttl) / time.Second)
}

type Set[T comparable] map[T]bool

func SetOf[T comparable](values ...T) Set[T] {
	set := make(Set[T], len(values))
	for _, value := range values {
		set[value] = true
	}

	return set
}

func (s Set[T]) Has(value T) bool {
	return s[value]
}
