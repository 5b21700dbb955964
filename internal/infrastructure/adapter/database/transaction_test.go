package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTag(name string) *entity.Tag {
	return &entity.Tag{Name: name, Color: "#ffffff"}
}

func TestTransactionalCommits(t *testing.T) {
	manager := NewTestManager(t)
	uow := manager.CreateUnitOfWork()
	ctx := context.Background()

	err := uow.Transactional(ctx, func(ctx context.Context) error {
		return uow.Tags(ctx).Save(ctx, newTag("rent"))
	})
	require.NoError(t, err)

	var tags []*entity.Tag
	require.NoError(t, uow.Exclusive(ctx, func(ctx context.Context) error {
		var err error
		tags, err = uow.Tags(ctx).List(ctx)
		return err
	}))
	require.Len(t, tags, 1)
	assert.Equal(t, "rent", tags[0].Name)
}

func TestTransactionalRollsBackOnError(t *testing.T) {
	manager := NewTestManager(t)
	uow := manager.CreateUnitOfWork()
	ctx := context.Background()
	boom := errors.New("boom")

	err := uow.Transactional(ctx, func(ctx context.Context) error {
		if err := uow.Tags(ctx).Save(ctx, newTag("groceries")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var tags []*entity.Tag
	require.NoError(t, uow.Exclusive(ctx, func(ctx context.Context) error {
		var err error
		tags, err = uow.Tags(ctx).List(ctx)
		return err
	}))
	assert.Empty(t, tags)
	assert.Equal(t, int64(1), manager.Stats().Failures)
}

func TestTransactionalRollsBackOnPanic(t *testing.T) {
	manager := NewTestManager(t)
	uow := manager.CreateUnitOfWork()
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = uow.Transactional(ctx, func(ctx context.Context) error {
			if err := uow.Tags(ctx).Save(ctx, newTag("salary")); err != nil {
				return err
			}
			panic("unexpected")
		})
	})

	// The lock must have been released by the panicking unit
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = uow.Exclusive(ctx, func(ctx context.Context) error {
			tags, err := uow.Tags(ctx).List(ctx)
			assert.NoError(t, err)
			assert.Empty(t, tags)
			return nil
		})
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("lock was not released after panic")
	}
}

func TestNestedUnitsAreReentrant(t *testing.T) {
	manager := NewTestManager(t)
	uow := manager.CreateUnitOfWork()
	ctx := context.Background()

	err := uow.Exclusive(ctx, func(ctx context.Context) error {
		return uow.Transactional(ctx, func(ctx context.Context) error {
			if err := uow.Tags(ctx).Save(ctx, newTag("outer")); err != nil {
				return err
			}
			return uow.Transactional(ctx, func(ctx context.Context) error {
				return uow.Tags(ctx).Save(ctx, newTag("inner"))
			})
		})
	})
	require.NoError(t, err)

	var tags []*entity.Tag
	require.NoError(t, uow.Exclusive(ctx, func(ctx context.Context) error {
		var err error
		tags, err = uow.Tags(ctx).List(ctx)
		return err
	}))
	assert.Len(t, tags, 2)
}

func TestNestedTransactionalJoinsOuterRollback(t *testing.T) {
	manager := NewTestManager(t)
	uow := manager.CreateUnitOfWork()
	ctx := context.Background()
	boom := errors.New("boom")

	err := uow.Transactional(ctx, func(ctx context.Context) error {
		if err := uow.Transactional(ctx, func(ctx context.Context) error {
			return uow.Tags(ctx).Save(ctx, newTag("inner"))
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var tags []*entity.Tag
	require.NoError(t, uow.Exclusive(ctx, func(ctx context.Context) error {
		var err error
		tags, err = uow.Tags(ctx).List(ctx)
		return err
	}))
	assert.Empty(t, tags)
}

func TestUnitsAreSerialized(t *testing.T) {
	manager := NewTestManager(t)
	uow := manager.CreateUnitOfWork()
	ctx := context.Background()

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = uow.Exclusive(ctx, func(ctx context.Context) error {
				mu.Lock()
				active++
				if active > maxSeen {
					maxSeen = active
				}
				mu.Unlock()

				time.Sleep(5 * time.Millisecond)

				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, int64(8), manager.Stats().Units)
}
