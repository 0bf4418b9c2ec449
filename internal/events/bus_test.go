package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "github.com/anorak1709/research-usecase-generator/internal/foundation/errors"
)

func TestBus_PublishSubscribe(t *testing.T) {
	b := NewBus()
	defer b.Close()

	ch, unsubscribe := b.Subscribe(Filter{}, 1)
	defer unsubscribe()

	require.NoError(t, b.Publish(context.Background(), Progress{ID: "a1", Percent: 10, Agent: "Ingestor"}))

	select {
	case got := <-ch:
		require.Equal(t, 10, got.(Progress).Percent)
	case <-time.After(250 * time.Millisecond):
		t.Fatal("timed out waiting for event")
	}
}

func TestBus_FilterByAnalysisAndType(t *testing.T) {
	b := NewBus()
	defer b.Close()

	ch, unsubscribe := b.Subscribe(Filter{AnalysisID: "a1", Types: []Type{TypeCompleted, TypeFailed}}, 4)
	defer unsubscribe()

	ctx := context.Background()
	require.NoError(t, b.Publish(ctx, Started{ID: "a1"}))
	require.NoError(t, b.Publish(ctx, Completed{ID: "other"}))
	require.NoError(t, b.Publish(ctx, Completed{ID: "a1"}))

	require.Equal(t, TypeCompleted, (<-ch).EventType())
	select {
	case evt := <-ch:
		t.Fatalf("unexpected event %v", evt)
	default:
	}
}

func TestBus_PublishBackpressure(t *testing.T) {
	b := NewBus()
	defer b.Close()

	_, unsubscribe := b.Subscribe(Filter{}, 0)
	defer unsubscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := b.Publish(ctx, Progress{ID: "a1"})
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryRuntime))
}

func TestBus_UnsubscribeReleasesBlockedPublish(t *testing.T) {
	b := NewBus()
	defer b.Close()

	_, unsubscribe := b.Subscribe(Filter{}, 0)
	done := make(chan error, 1)
	go func() { done <- b.Publish(context.Background(), Progress{ID: "a1"}) }()

	time.Sleep(20 * time.Millisecond)
	unsubscribe()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Publish stayed blocked after unsubscribe")
	}
}

func TestBus_ConcurrentUnsubscribeDuringPublish(t *testing.T) {
	b := NewBus()
	defer b.Close()

	for range 500 {
		_, unsubscribe := b.Subscribe(Filter{}, 0)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = b.Publish(ctx, Progress{ID: "a1", Percent: 50})
		}()
		go func() {
			defer wg.Done()
			unsubscribe()
		}()
		wg.Wait()
	}
	require.Equal(t, 0, b.SubscriberCount())
}

func TestBus_CloseAndUnsubscribe(t *testing.T) {
	b := NewBus()

	ch, unsubscribe := b.Subscribe(Filter{}, 1)
	require.Equal(t, 1, b.SubscriberCount())
	unsubscribe()
	unsubscribe()
	require.Equal(t, 0, b.SubscriberCount())
	_, ok := <-ch
	require.False(t, ok)

	ch2, _ := b.Subscribe(Filter{}, 1)
	b.Close()
	_, ok = <-ch2
	require.False(t, ok)

	require.Error(t, b.Publish(context.Background(), Progress{}))
	ch3, _ := b.Subscribe(Filter{}, 1)
	_, ok = <-ch3
	require.False(t, ok)
}

func TestBus_NilEvent(t *testing.T) {
	b := NewBus()
	defer b.Close()
	require.True(t, ferrors.HasCategory(b.Publish(context.Background(), nil), ferrors.CategoryValidation))
}
