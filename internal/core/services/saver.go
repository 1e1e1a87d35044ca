package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/lumen-reader/lumen/internal/core/domain"
	"github.com/lumen-reader/lumen/internal/core/ports/driving"
)

// saveFlushDelay bounds how long a coalesced position save may be deferred.
const saveFlushDelay = 500 * time.Millisecond

// positionSaver makes position persistence fire-and-forget for the
// location-change handler. Saves are coalesced latest-wins through a
// single-slot channel and rate limited, except that a resource href
// transition always writes immediately so every distinct transition is
// durably recorded.
type positionSaver struct {
	positions driving.PositionService
	bookID    uuid.UUID
	limiter   *rate.Limiter

	mu     sync.Mutex
	closed bool
	ch     chan domain.Locator
	done   chan struct{}

	lastHref string
}

func newPositionSaver(positions driving.PositionService, bookID uuid.UUID) *positionSaver {
	s := &positionSaver{
		positions: positions,
		bookID:    bookID,
		limiter:   rate.NewLimiter(rate.Every(saveFlushDelay), 1),
		ch:        make(chan domain.Locator, 1),
		done:      make(chan struct{}),
	}
	go s.run()
	return s
}

// enqueue hands a locator to the saver without ever blocking the caller.
// If a save is already queued, the newer locator replaces it.
func (s *positionSaver) enqueue(loc domain.Locator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- loc:
	default:
		// Slot occupied: drop the stale locator, keep the newest.
		select {
		case <-s.ch:
		default:
		}
		select {
		case s.ch <- loc:
		default:
		}
	}
}

// stop flushes any pending save and ends the saver goroutine.
func (s *positionSaver) stop() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.ch)
	s.mu.Unlock()
	<-s.done
}

func (s *positionSaver) run() {
	var pending *domain.Locator
	var flush <-chan time.Time

	for {
		select {
		case loc, ok := <-s.ch:
			if !ok {
				if pending != nil {
					s.save(*pending)
				}
				close(s.done)
				return
			}
			if loc.ResourceHref != s.lastHref || s.limiter.Allow() {
				s.save(loc)
				pending = nil
				flush = nil
				continue
			}
			l := loc
			pending = &l
			if flush == nil {
				flush = time.After(saveFlushDelay)
			}

		case <-flush:
			if pending != nil {
				s.save(*pending)
				pending = nil
			}
			flush = nil
		}
	}
}

func (s *positionSaver) save(loc domain.Locator) {
	s.lastHref = loc.ResourceHref
	// SavePosition logs its own persistence failures.
	_ = s.positions.SavePosition(s.bookID, loc)
}
