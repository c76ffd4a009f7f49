package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishFillsDefaults(t *testing.T) {
	bus := NewBus(10)

	n := bus.Publish(Notice{Category: CategorySystem, Title: "Sincronización Completa"})

	assert.NotEmpty(t, n.ID)
	assert.False(t, n.Timestamp.IsZero())
	assert.False(t, n.Read)
}

func TestBus_ListNewestFirst(t *testing.T) {
	bus := NewBus(10)

	bus.Publish(Notice{Title: "primero"})
	bus.Publish(Notice{Title: "segundo"})
	bus.Publish(Notice{Title: "tercero"})

	list := bus.List()
	require.Len(t, list, 3)
	assert.Equal(t, "tercero", list[0].Title)
	assert.Equal(t, "primero", list[2].Title)
}

func TestBus_LimitEvictsOldest(t *testing.T) {
	bus := NewBus(2)

	bus.Publish(Notice{Title: "a"})
	bus.Publish(Notice{Title: "b"})
	bus.Publish(Notice{Title: "c"})

	list := bus.List()
	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0].Title)
	assert.Equal(t, "b", list[1].Title)
}

func TestBus_MarkRead(t *testing.T) {
	bus := NewBus(10)

	n := bus.Publish(Notice{Title: "Stock Bajo", Category: CategoryStock})

	assert.True(t, bus.MarkRead(n.ID))
	assert.False(t, bus.MarkRead("no-such-id"))
	assert.True(t, bus.List()[0].Read)

	bus.Publish(Notice{Title: "otra"})
	bus.MarkAllRead()
	for _, item := range bus.List() {
		assert.True(t, item.Read)
	}
}

func TestBus_SubscribeReceivesAndCancelStops(t *testing.T) {
	bus := NewBus(10)

	ch, cancel := bus.Subscribe()
	bus.Publish(Notice{Title: "evento"})

	select {
	case n := <-ch:
		assert.Equal(t, "evento", n.Title)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for notice")
	}

	cancel()
	// Publishing after cancel must not panic on the closed channel.
	bus.Publish(Notice{Title: "después"})

	_, open := <-ch
	assert.False(t, open)
}
