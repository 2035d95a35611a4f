package events

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/prospect/internal/common"
	"github.com/ternarybob/prospect/internal/interfaces"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	service := NewService(common.GetLogger())

	var calls int32
	handler := func(ctx context.Context, event interfaces.Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}

	require.NoError(t, service.Subscribe(interfaces.EventScanStarted, handler))
	require.NoError(t, service.Subscribe(interfaces.EventScanStarted, handler))

	require.NoError(t, service.Publish(context.Background(), interfaces.Event{Type: interfaces.EventScanStarted}))
	require.NoError(t, service.Close())

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestPublishIgnoresUnrelatedEventTypes(t *testing.T) {
	service := NewService(common.GetLogger())

	var calls int32
	service.Subscribe(interfaces.EventScanCompleted, func(ctx context.Context, event interfaces.Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	service.Publish(context.Background(), interfaces.Event{Type: interfaces.EventScanFailed})
	service.Close()

	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestPublishSyncWaitsForHandlers(t *testing.T) {
	service := NewService(common.GetLogger())

	var done int32
	service.Subscribe(interfaces.EventScanCompleted, func(ctx context.Context, event interfaces.Event) error {
		time.Sleep(10 * time.Millisecond)
		atomic.StoreInt32(&done, 1)
		return nil
	})

	require.NoError(t, service.PublishSync(context.Background(), interfaces.Event{Type: interfaces.EventScanCompleted}))
	assert.Equal(t, int32(1), atomic.LoadInt32(&done))
}

func TestPublishAfterCloseFails(t *testing.T) {
	service := NewService(common.GetLogger())
	require.NoError(t, service.Close())

	err := service.Publish(context.Background(), interfaces.Event{Type: interfaces.EventScanStarted})
	assert.Error(t, err)
}

func TestSubscribeRejectsNilHandler(t *testing.T) {
	service := NewService(common.GetLogger())

	assert.Error(t, service.Subscribe(interfaces.EventScanStarted, nil))
}

func TestHandlerErrorDoesNotAffectOtherSubscribers(t *testing.T) {
	service := NewService(common.GetLogger())

	var calls int32
	service.Subscribe(interfaces.EventScanFailed, func(ctx context.Context, event interfaces.Event) error {
		return fmt.Errorf("handler exploded")
	})
	service.Subscribe(interfaces.EventScanFailed, func(ctx context.Context, event interfaces.Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	require.NoError(t, service.Publish(context.Background(), interfaces.Event{Type: interfaces.EventScanFailed}))
	service.Close()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
