package notify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/voltdesk/internal/order"
)

func TestAddCapsFeed(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	for i := 0; i < MaxNotifications+10; i++ {
		require.NoError(t, svc.Add(ctx, Notification{
			Type:    TypeSystem,
			Title:   "t",
			Message: fmt.Sprintf("msg-%d", i),
		}))
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, MaxNotifications)
	// newest first
	assert.Equal(t, fmt.Sprintf("msg-%d", MaxNotifications+9), list[0].Message)
}

func TestMarkReadAndUnreadCount(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	require.NoError(t, svc.Add(ctx, Notification{Type: TypeSystem, Message: "a"}))
	require.NoError(t, svc.Add(ctx, Notification{Type: TypeSystem, Message: "b"}))

	count, err := svc.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	list, _ := svc.List(ctx)
	require.NoError(t, svc.MarkRead(ctx, list[0].ID))
	count, _ = svc.UnreadCount(ctx)
	assert.Equal(t, 1, count)

	require.NoError(t, svc.MarkAllRead(ctx))
	count, _ = svc.UnreadCount(ctx)
	assert.Zero(t, count)
}

func TestPurgeKeepsUnread(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	old := time.Now().Add(-48 * time.Hour).UnixMilli()
	require.NoError(t, svc.Add(ctx, Notification{Type: TypeSystem, Message: "old-read", CreatedAt: old}))
	require.NoError(t, svc.Add(ctx, Notification{Type: TypeSystem, Message: "old-unread", CreatedAt: old}))

	list, _ := svc.List(ctx)
	for _, n := range list {
		if n.Message == "old-read" {
			require.NoError(t, svc.MarkRead(ctx, n.ID))
		}
	}

	require.NoError(t, svc.Purge(ctx, 24*time.Hour))
	list, _ = svc.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "old-unread", list[0].Message)
}

func TestSubscribeBus(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())
	bus := EventBus.New()
	require.NoError(t, svc.SubscribeBus(bus))

	bus.Publish(order.EventOrderCreated, order.Event{
		OrderUID: "ORD-1",
		Title:    "Заявка создана",
		Message:  "Заявка #0000-1 успешно создана",
	})
	bus.Publish(order.EventOrderStatusChanged, order.Event{
		OrderUID: "ORD-1",
		Title:    "Статус заявки изменен",
		Message:  "Заявка #0000-1 завершена",
	})

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, TypeStatusChanged, list[0].Type)
	assert.Equal(t, TypeOrderCreated, list[1].Type)
	assert.Equal(t, "ORD-1", list[0].OrderUID)
}
