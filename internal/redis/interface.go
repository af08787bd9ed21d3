package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client is the subset of go-redis the repositories rely on. It is satisfied
// by *redis.Client and by cluster clients.
type Client interface {
	redis.Cmdable
	Close() error
}

// Nil is returned by Get when a key does not exist
const Nil = redis.Nil
