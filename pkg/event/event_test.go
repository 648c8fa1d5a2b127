package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFireReachesAllListeners(t *testing.T) {
	Flush()
	t.Cleanup(Flush)

	var got []string
	Listen(CartUpdated, func(p interface{}) { got = append(got, "first") })
	Listen(CartUpdated, func(p interface{}) { got = append(got, "second") })

	Fire(CartUpdated, "user-1")
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestFireDeliversPayload(t *testing.T) {
	Flush()
	t.Cleanup(Flush)

	var payload interface{}
	Listen(OrderCreated, func(p interface{}) { payload = p })

	Fire(OrderCreated, 42)
	assert.Equal(t, 42, payload)
}

func TestFireUnknownEventIsNoop(t *testing.T) {
	Flush()
	t.Cleanup(Flush)

	assert.NotPanics(t, func() { Fire("nobody.listens", nil) })
}

func TestFireAsyncCompletes(t *testing.T) {
	Flush()
	t.Cleanup(Flush)

	var wg sync.WaitGroup
	wg.Add(2)
	Listen(OrderStatusChanged, func(p interface{}) { wg.Done() })
	Listen(OrderStatusChanged, func(p interface{}) { wg.Done() })

	FireAsync(OrderStatusChanged, nil)
	wg.Wait()
}
