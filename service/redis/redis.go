package redis

import (
	"errors"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/gameswap/goapi/base/ctx"
)

// Forever means the key is kept until it is deleted explicitly
const Forever = time.Duration(-1)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = redis.ErrNil

	// ErrGapTime is returned when no pool is available for the command
	ErrGapTime = errors.New("in gap time, no available pool")

	// ErrNoTTL is returned by TTL when the key has no associated expire
	ErrNoTTL = errors.New("no ttl on key")

	// ErrExpireNotExistOrTimeout is returned by Expire when the key does
	// not exist or the timeout could not be set
	ErrExpireNotExistOrTimeout = errors.New("key not exist or timeout could not be set")
)

// MVal is a multi-get value
type MVal struct {
	Valid bool
	Value []byte
}

// Service abstracts the redis layer
type Service interface {
	// Get gets value of key, returns ErrNotFound if key does not exist
	Get(context ctx.Ctx, key string) ([]byte, error)

	// Set sets key to value with an expire, use Forever to skip the expire
	Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error

	// SetNX sets key to value only if key does not exist
	SetNX(context ctx.Ctx, key string, val []byte, expire time.Duration) error

	// SetStruct flattens a struct into a redis hash
	SetStruct(context ctx.Ctx, key string, val interface{}, expire time.Duration) error

	// GetStruct reads a redis hash back into a struct
	GetStruct(context ctx.Ctx, key string, val interface{}) error

	// Del deletes keys, returns the number of removed keys
	Del(context ctx.Ctx, keys ...string) (int, error)

	// Exists checks whether key exists
	Exists(context ctx.Ctx, key string) (bool, error)

	// TTL returns remaining ttl in seconds
	TTL(context ctx.Ctx, key string) (int, error)

	// Expire overwrites the ttl of key
	Expire(context ctx.Ctx, key string, ttl time.Duration) error

	// Incr increases key by one
	Incr(context ctx.Ctx, key string) (int64, error)

	// Incrby increases key by val
	Incrby(context ctx.Ctx, key string, val int) (int64, error)

	// Name returns the cluster name
	Name() string
}

// ByteMap converts a reply of field value pairs into a map of bytes
func ByteMap(reply interface{}, err error) (map[string][]byte, error) {
	values, err := redis.Values(reply, err)
	if err != nil {
		return nil, err
	}
	if len(values)%2 != 0 {
		return nil, errors.New("ByteMap expects even number of values")
	}
	m := make(map[string][]byte, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].([]byte)
		if !ok {
			return nil, errors.New("ByteMap key not a bulk string")
		}
		value, ok := values[i+1].([]byte)
		if !ok {
			return nil, errors.New("ByteMap value not a bulk string")
		}
		m[string(key)] = value
	}
	return m, nil
}
