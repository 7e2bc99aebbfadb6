package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	name string
}

func TestRegistry(t *testing.T) {
	t.Run("set and get round trip", func(t *testing.T) {
		r := New()
		key := Key[*fakeService]("test.service")

		Set(r, key, &fakeService{name: "svc"})

		got, ok := Get(r, key)
		assert.True(t, ok)
		assert.Equal(t, "svc", got.name)
	})

	t.Run("get of an unregistered key", func(t *testing.T) {
		r := New()
		got, ok := Get(r, Key[*fakeService]("missing"))
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("must get panics when missing", func(t *testing.T) {
		r := New()
		assert.Panics(t, func() {
			MustGet(r, Key[*fakeService]("missing"))
		})
	})

	t.Run("must get returns the registered service", func(t *testing.T) {
		r := New()
		key := Key[*fakeService]("test.service")
		Set(r, key, &fakeService{name: "svc"})
		assert.NotPanics(t, func() {
			got := MustGet(r, key)
			assert.Equal(t, "svc", got.name)
		})
	})
}
