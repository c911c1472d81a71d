package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/apperrors"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/harvest"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/logging"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
)

type selectionSession struct {
	id          string
	portfolioID string
	selection   *harvest.Selection
	createdAt   time.Time
	lastAccess  time.Time
}

// SelectionService keeps the harvest selections users are building, one
// session per browser tab, in memory. Sessions idle for longer than the TTL
// are treated as gone and are removed by Sweep.
type SelectionService struct {
	harvestService *HarvestService
	ttl            time.Duration
	logger         *logging.Logger
	now            func() time.Time

	mu       sync.Mutex
	sessions map[string]*selectionSession
}

// NewSelectionService creates a new SelectionService.
func NewSelectionService(harvestService *HarvestService, ttl time.Duration, logger *logging.Logger) *SelectionService {
	return &SelectionService{
		harvestService: harvestService,
		ttl:            ttl,
		logger:         logger.WithComponent(logging.ComponentSelection),
		now:            time.Now,
		sessions:       make(map[string]*selectionSession),
	}
}

// SetClock replaces the time source. Used by tests.
func (s *SelectionService) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Create starts a selection session for a portfolio, optionally pre-selecting ids.
func (s *SelectionService) Create(ctx context.Context, portfolioID string, selected []string) (model.SelectionSession, error) {
	if _, err := s.harvestService.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return model.SelectionSession{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := &selectionSession{
		id:          uuid.New().String(),
		portfolioID: portfolioID,
		selection:   harvest.NewSelection(selected...),
		createdAt:   now,
		lastAccess:  now,
	}
	s.sessions[sess.id] = sess

	s.logger.DebugContext(ctx, "selection created",
		logging.FieldPortfolioID, portfolioID,
		logging.FieldSelectionID, sess.id,
	)
	return s.view(sess), nil
}

// Get returns a session and refreshes its idle timer.
func (s *SelectionService) Get(portfolioID, selectionID string) (model.SelectionSession, error) {
	return s.update(portfolioID, selectionID, nil)
}

// Selection returns a copy of the session's current selection.
func (s *SelectionService) Selection(portfolioID, selectionID string) (*harvest.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(portfolioID, selectionID)
	if err != nil {
		return nil, err
	}
	return sess.selection.Clone(), nil
}

// Toggle flips one holding id in or out of the selection.
func (s *SelectionService) Toggle(portfolioID, selectionID, holdingID string) (model.SelectionSession, error) {
	holdingID = strings.TrimSpace(holdingID)
	if holdingID == "" {
		return model.SelectionSession{}, apperrors.ErrInvalidHoldingID
	}
	return s.update(portfolioID, selectionID, func(sel *harvest.Selection) {
		sel.Toggle(holdingID)
	})
}

// SelectAll selects every holding currently stored for the portfolio.
func (s *SelectionService) SelectAll(ctx context.Context, portfolioID, selectionID string) (model.SelectionSession, error) {
	holdings, err := s.holdingsFor(ctx, portfolioID, selectionID)
	if err != nil {
		return model.SelectionSession{}, err
	}
	return s.update(portfolioID, selectionID, func(sel *harvest.Selection) {
		sel.SelectAll(holdings)
	})
}

// ToggleAll clears the selection when every holding is selected and selects all otherwise.
func (s *SelectionService) ToggleAll(ctx context.Context, portfolioID, selectionID string) (model.SelectionSession, error) {
	holdings, err := s.holdingsFor(ctx, portfolioID, selectionID)
	if err != nil {
		return model.SelectionSession{}, err
	}
	return s.update(portfolioID, selectionID, func(sel *harvest.Selection) {
		sel.ToggleAll(holdings)
	})
}

// Clear empties the selection.
func (s *SelectionService) Clear(portfolioID, selectionID string) (model.SelectionSession, error) {
	return s.update(portfolioID, selectionID, func(sel *harvest.Selection) {
		sel.Clear()
	})
}

// Delete ends a session.
func (s *SelectionService) Delete(portfolioID, selectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(portfolioID, selectionID); err != nil {
		return err
	}
	delete(s.sessions, selectionID)
	return nil
}

// Sweep removes sessions that have been idle for longer than the TTL and
// returns how many were removed.
func (s *SelectionService) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		s.logger.Info("evicted idle selections",
			logging.FieldEvicted, evicted,
			"remaining", len(s.sessions),
		)
	}
	return evicted
}

// Len returns the number of live sessions.
func (s *SelectionService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// holdingsFor checks the session exists before loading holdings, so an
// unknown session is reported as such rather than as a storage error.
func (s *SelectionService) holdingsFor(ctx context.Context, portfolioID, selectionID string) ([]model.Holding, error) {
	s.mu.Lock()
	_, err := s.lookup(portfolioID, selectionID)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.harvestService.Holdings(ctx, portfolioID)
}

func (s *SelectionService) update(portfolioID, selectionID string, mutate func(*harvest.Selection)) (model.SelectionSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(portfolioID, selectionID)
	if err != nil {
		return model.SelectionSession{}, err
	}
	if mutate != nil {
		mutate(sess.selection)
	}
	sess.lastAccess = s.now()
	return s.view(sess), nil
}

// lookup must be called with mu held.
func (s *SelectionService) lookup(portfolioID, selectionID string) (*selectionSession, error) {
	sess, ok := s.sessions[selectionID]
	if !ok || s.expired(sess, s.now()) {
		return nil, apperrors.ErrSelectionNotFound
	}
	if sess.portfolioID != portfolioID {
		return nil, apperrors.ErrSelectionPortfolioMismatch
	}
	return sess, nil
}

func (s *SelectionService) expired(sess *selectionSession, now time.Time) bool {
	return now.Sub(sess.lastAccess) > s.ttl
}

func (s *SelectionService) view(sess *selectionSession) model.SelectionSession {
	return model.SelectionSession{
		ID:          sess.id,
		PortfolioID: sess.portfolioID,
		Selected:    sess.selection.IDs(),
		CreatedAt:   sess.createdAt,
		ExpiresAt:   sess.lastAccess.Add(s.ttl),
	}
}
