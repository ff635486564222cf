// Package tracker runs the new-store and update-store workflows.
package tracker

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"purchase-tracker/internal/intake"
	"purchase-tracker/internal/lock"
	"purchase-tracker/internal/logger"
	"purchase-tracker/internal/models"
	"purchase-tracker/internal/render"
	"purchase-tracker/internal/store"
)

type Locker interface {
	LockAll(ctx context.Context, paths []string, owner string) (bool, error)
	UnlockAll(ctx context.Context, paths []string, owner string) error
}

type Publisher interface {
	PublishOrderRecorded(ctx context.Context, store string, index int, order models.Order) error
}

type Service struct {
	Locker    Locker
	Publisher Publisher
	Logger    *logger.Logger
	// Out receives the store listing and the closing message.
	Out io.Writer
}

// NewService wires a tracker. A nil locker disables locking and a nil
// publisher disables events.
func NewService(locker Locker, publisher Publisher, log *logger.Logger, out io.Writer) *Service {
	if locker == nil {
		locker = lock.Noop{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Service{Locker: locker, Publisher: publisher, Logger: log, Out: out}
}

// NewStore collects one order and saves it as a fresh store at target.
func (s *Service) NewStore(ctx context.Context, target string, in intake.Provider) error {
	return s.withLock(ctx, []string{target}, func() error {
		sess, err := store.CreateNew(target)
		if err != nil {
			return err
		}
		s.Logger.LogStore("new", target, "creating store")
		return s.record(ctx, sess, in)
	})
}

// UpdateStore shows the orders in source, collects one more and saves the
// lot to target. source is never written.
func (s *Service) UpdateStore(ctx context.Context, source, target string, in intake.Provider) error {
	return s.withLock(ctx, []string{source, target}, func() error {
		sess, err := store.OpenUpdate(source, target)
		if err != nil {
			return err
		}
		s.Logger.LogStore("update", source, fmt.Sprintf("loaded %d orders, writing to %s", sess.Len(), target))

		if _, err := fmt.Fprintln(s.Out, "Your orders:"); err != nil {
			return err
		}
		if err := render.Store(s.Out, sess.Orders()); err != nil {
			return fmt.Errorf("display %s: %w", source, err)
		}
		return s.record(ctx, sess, in)
	})
}

// Show prints every order in path.
func (s *Service) Show(path string) error {
	orders, err := store.Load(path)
	if err != nil {
		return err
	}
	s.Logger.LogStore("show", path, fmt.Sprintf("%d orders", len(orders)))
	return render.Store(s.Out, orders)
}

func (s *Service) record(ctx context.Context, sess *store.Session, in intake.Provider) error {
	order, err := intake.NewCollector(in).Order()
	if err != nil {
		return fmt.Errorf("collect order: %w", err)
	}
	sess.Append(order)
	if err := sess.Save(); err != nil {
		return err
	}

	index := sess.Len() - 1
	s.Logger.LogStore("save", sess.Target(), fmt.Sprintf("saved %d orders", sess.Len()))
	if _, err := fmt.Fprintf(s.Out, "Saved %d orders to %s. Pass it as the input of update-store to add more.\n", sess.Len(), sess.Target()); err != nil {
		return err
	}

	if s.Publisher != nil {
		// Best effort: the store is already saved.
		if err := s.Publisher.PublishOrderRecorded(ctx, sess.Target(), index, order); err != nil {
			s.Logger.Warn("KAFKA", fmt.Sprintf("Failed to publish order %d of %s: %v", index, sess.Target(), err))
		}
	}
	return nil
}

func (s *Service) withLock(ctx context.Context, paths []string, fn func() error) error {
	owner := uuid.NewString()
	ok, err := s.Locker.LockAll(ctx, paths, owner)
	if err != nil {
		return fmt.Errorf("lock stores: %w", err)
	}
	if !ok {
		return fmt.Errorf("%v: %w", paths, lock.ErrLocked)
	}
	defer func() {
		if err := s.Locker.UnlockAll(context.WithoutCancel(ctx), paths, owner); err != nil {
			s.Logger.Warn("LOCK", fmt.Sprintf("Failed to release %v: %v", paths, err))
		}
	}()
	return fn()
}
