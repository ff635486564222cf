package tracker_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"purchase-tracker/internal/lock"
	"purchase-tracker/internal/logger"
	"purchase-tracker/internal/models"
	"purchase-tracker/internal/prompt"
	"purchase-tracker/internal/store"
	"purchase-tracker/internal/tracker"
)

// MockLocker is a mock implementation of the Locker interface
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) LockAll(ctx context.Context, paths []string, owner string) (bool, error) {
	args := m.Called(ctx, paths, owner)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocker) UnlockAll(ctx context.Context, paths []string, owner string) error {
	args := m.Called(ctx, paths, owner)
	return args.Error(0)
}

// MockPublisher is a mock implementation of the Publisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderRecorded(ctx context.Context, store string, index int, order models.Order) error {
	args := m.Called(ctx, store, index, order)
	return args.Error(0)
}

// widgetAnswers is typed input for one order of one plain product.
const widgetAnswers = `01/15/2024
01/17/2024
1999
2149
1
Widget
A widget
1999
1999
No
No
1999
gift
`

func widgetOrder() models.Order {
	return models.Order{
		DatePlaced:  models.NewDate(1, 15, 2024),
		DateShipped: models.NewDate(1, 17, 2024),
		Subtotal:    1999,
		Total:       2149,
		Products: []models.LineItem{{
			Product:    models.Product{Name: "Widget", Description: "A widget", BasePrice: 1999, StickerPrice: 1999},
			PaidAmount: 1999,
		}},
		Notes: "gift",
	}
}

func terminal(answers string) *prompt.Terminal {
	return prompt.NewTerminal(strings.NewReader(answers), &bytes.Buffer{})
}

func sameOrder(want models.Order) any {
	return mock.MatchedBy(func(o models.Order) bool { return o.Equal(want) })
}

func TestNewStore(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "orders.bin")

	locker := new(MockLocker)
	locker.On("LockAll", mock.Anything, []string{target}, mock.AnythingOfType("string")).Return(true, nil)
	locker.On("UnlockAll", mock.Anything, []string{target}, mock.AnythingOfType("string")).Return(nil)
	publisher := new(MockPublisher)
	publisher.On("PublishOrderRecorded", mock.Anything, target, 0, sameOrder(widgetOrder())).Return(nil)

	var out bytes.Buffer
	svc := tracker.NewService(locker, publisher, logger.Discard(), &out)

	err := svc.NewStore(context.Background(), target, terminal(widgetAnswers))
	require.NoError(t, err)

	orders, err := store.Load(target)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].Equal(widgetOrder()))
	assert.Contains(t, out.String(), "Saved 1 orders to "+target)

	locker.AssertExpectations(t)
	publisher.AssertExpectations(t)

	// The same owner token locks and unlocks.
	assert.Equal(t, locker.Calls[0].Arguments.String(2), locker.Calls[1].Arguments.String(2))
}

func TestNewStore_TargetExists(t *testing.T) {
	target := filepath.Join(t.TempDir(), "orders.bin")
	require.NoError(t, os.WriteFile(target, []byte("keep"), 0o644))

	publisher := new(MockPublisher)
	svc := tracker.NewService(nil, publisher, logger.Discard(), &bytes.Buffer{})

	err := svc.NewStore(context.Background(), target, terminal(widgetAnswers))
	assert.ErrorIs(t, err, store.ErrTargetExists)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
	publisher.AssertNotCalled(t, "PublishOrderRecorded", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNewStore_InputEndsEarly(t *testing.T) {
	target := filepath.Join(t.TempDir(), "orders.bin")
	svc := tracker.NewService(nil, nil, logger.Discard(), &bytes.Buffer{})

	err := svc.NewStore(context.Background(), target, terminal("01/15/2024\n"))
	assert.ErrorIs(t, err, prompt.ErrInputClosed)

	_, err = os.Stat(target)
	assert.True(t, os.IsNotExist(err), "nothing is written for an abandoned order")
}

func TestNewStore_Locked(t *testing.T) {
	target := filepath.Join(t.TempDir(), "orders.bin")

	locker := new(MockLocker)
	locker.On("LockAll", mock.Anything, []string{target}, mock.Anything).Return(false, nil)
	svc := tracker.NewService(locker, nil, logger.Discard(), &bytes.Buffer{})

	err := svc.NewStore(context.Background(), target, terminal(widgetAnswers))
	assert.ErrorIs(t, err, lock.ErrLocked)
	locker.AssertNotCalled(t, "UnlockAll", mock.Anything, mock.Anything, mock.Anything)

	_, err = os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}

func TestNewStore_LockError(t *testing.T) {
	target := filepath.Join(t.TempDir(), "orders.bin")
	boom := errors.New("redis down")

	locker := new(MockLocker)
	locker.On("LockAll", mock.Anything, mock.Anything, mock.Anything).Return(false, boom)
	svc := tracker.NewService(locker, nil, logger.Discard(), &bytes.Buffer{})

	err := svc.NewStore(context.Background(), target, terminal(widgetAnswers))
	assert.ErrorIs(t, err, boom)
}

func TestNewStore_PublishFailureDoesNotFailRun(t *testing.T) {
	target := filepath.Join(t.TempDir(), "orders.bin")

	publisher := new(MockPublisher)
	publisher.On("PublishOrderRecorded", mock.Anything, target, 0, mock.Anything).Return(errors.New("broker unreachable"))
	svc := tracker.NewService(nil, publisher, logger.Discard(), &bytes.Buffer{})

	require.NoError(t, svc.NewStore(context.Background(), target, terminal(widgetAnswers)))
	_, err := os.Stat(target)
	assert.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestUpdateStore(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "in.bin")
	target := filepath.Join(dir, "out.bin")

	existing := widgetOrder()
	existing.Notes = "first"
	require.NoError(t, store.Write(source, []models.Order{existing}))
	before, err := os.ReadFile(source)
	require.NoError(t, err)

	locker := new(MockLocker)
	locker.On("LockAll", mock.Anything, []string{source, target}, mock.Anything).Return(true, nil)
	locker.On("UnlockAll", mock.Anything, []string{source, target}, mock.Anything).Return(nil)
	publisher := new(MockPublisher)
	publisher.On("PublishOrderRecorded", mock.Anything, target, 1, sameOrder(widgetOrder())).Return(nil)

	var out bytes.Buffer
	svc := tracker.NewService(locker, publisher, logger.Discard(), &out)
	require.NoError(t, svc.UpdateStore(context.Background(), source, target, terminal(widgetAnswers)))

	orders, err := store.Load(target)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.True(t, orders[0].Equal(existing))
	assert.True(t, orders[1].Equal(widgetOrder()))

	after, err := os.ReadFile(source)
	require.NoError(t, err)
	assert.Equal(t, before, after, "source is never rewritten")

	assert.True(t, strings.HasPrefix(out.String(), "Your orders:\n0.\n"))
	assert.Contains(t, out.String(), "Notes: first")

	locker.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestUpdateStore_Preconditions(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "in.bin")
	require.NoError(t, store.Write(source, []models.Order{widgetOrder()}))
	svc := tracker.NewService(nil, nil, logger.Discard(), &bytes.Buffer{})
	ctx := context.Background()

	err := svc.UpdateStore(ctx, source, source, terminal(widgetAnswers))
	assert.ErrorIs(t, err, store.ErrSamePath)

	err = svc.UpdateStore(ctx, filepath.Join(dir, "missing.bin"), filepath.Join(dir, "out.bin"), terminal(widgetAnswers))
	assert.ErrorIs(t, err, store.ErrNotFound)

	garbage := filepath.Join(dir, "garbage.bin")
	require.NoError(t, os.WriteFile(garbage, []byte{1, 2, 3}, 0o644))
	err = svc.UpdateStore(ctx, garbage, filepath.Join(dir, "out2.bin"), terminal(widgetAnswers))
	assert.ErrorIs(t, err, store.ErrInvalid)

	_, err = os.Stat(filepath.Join(dir, "out.bin"))
	assert.True(t, os.IsNotExist(err))
}

func TestUpdateStore_HeldByAnotherRun(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	locker := lock.NewRedis(client, time.Minute, logger.Discard())
	ctx := context.Background()

	dir := t.TempDir()
	source := filepath.Join(dir, "in.bin")
	target := filepath.Join(dir, "out.bin")
	require.NoError(t, store.Write(source, []models.Order{widgetOrder()}))

	ok, err := locker.Lock(ctx, source, "other-run")
	require.NoError(t, err)
	require.True(t, ok)

	svc := tracker.NewService(locker, nil, logger.Discard(), &bytes.Buffer{})
	err = svc.UpdateStore(ctx, source, target, terminal(widgetAnswers))
	assert.ErrorIs(t, err, lock.ErrLocked)

	require.NoError(t, locker.Unlock(ctx, source, "other-run"))
	require.NoError(t, svc.UpdateStore(ctx, source, target, terminal(widgetAnswers)))

	key, err := lock.Key(target)
	require.NoError(t, err)
	assert.False(t, mr.Exists(key), "locks are released after the run")
}

func TestShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.bin")
	require.NoError(t, store.Write(path, []models.Order{widgetOrder()}))

	var out bytes.Buffer
	svc := tracker.NewService(nil, nil, logger.Discard(), &out)
	require.NoError(t, svc.Show(path))
	assert.Contains(t, out.String(), "Name: Widget")

	err := svc.Show(filepath.Join(t.TempDir(), "missing.bin"))
	assert.ErrorIs(t, err, store.ErrNotFound)
}
