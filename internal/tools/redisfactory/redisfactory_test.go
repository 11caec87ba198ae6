package redisfactory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	t.Run("should hold no client without a uri", func(t *testing.T) {
		t.Setenv("SURCHARGE_REDIS_URI", "")

		factory := New()

		assert.Nil(t, factory.SurchargeStoreClient())
		assert.NoError(t, factory.Close())
	})

	t.Run("should build a client from the uri", func(t *testing.T) {
		t.Setenv("SURCHARGE_REDIS_URI", "redis://localhost:6379/3")

		factory := New()

		client := factory.SurchargeStoreClient()
		if assert.NotNil(t, client) {
			assert.Equal(t, 3, client.Options().DB)
		}
		assert.NoError(t, factory.Close())
	})

	t.Run("should panic on an invalid uri", func(t *testing.T) {
		t.Setenv("SURCHARGE_REDIS_URI", "http://localhost")

		assert.Panics(t, func() { New() })
	})
}
