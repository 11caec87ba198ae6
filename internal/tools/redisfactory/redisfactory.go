package redisfactory

import (
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

type Factory struct {
	surchargeStore *redis.Client
}

// New connects to SURCHARGE_REDIS_URI. Without it the factory holds no client
// and callers fall back to in-process storage.
func New() *Factory {
	uri := os.Getenv("SURCHARGE_REDIS_URI")
	if uri == "" {
		return &Factory{}
	}

	opt, err := redis.ParseURL(uri)
	if err != nil {
		panic(err)
	}

	opt.DialTimeout = 4 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	return &Factory{
		surchargeStore: redis.NewClient(opt),
	}
}

// SurchargeStoreClient is nil when Redis is not configured.
func (f *Factory) SurchargeStoreClient() *redis.Client {
	return f.surchargeStore
}

func (f *Factory) Close() error {
	if f.surchargeStore == nil {
		return nil
	}

	return f.surchargeStore.Close()
}
