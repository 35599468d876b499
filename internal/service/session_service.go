package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/yourorg/atlas-directory/internal/catalog"
	"github.com/yourorg/atlas-directory/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is a browsing session holding the user's filter criteria
type Session struct {
	ID        string         `json:"id"`
	Criteria  model.Criteria `json:"criteria"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CriteriaPatch carries the fields of a criteria update. Nil fields are left
// unchanged.
type CriteriaPatch struct {
	Query    *string `json:"query"`
	Category *string `json:"category"`
	Stage    *string `json:"stage"`
	Sort     *string `json:"sort"`
}

// SessionService owns the criteria of every session. Criteria values are
// replaced on each change, never edited in place.
type SessionService struct {
	datasets  DatasetProvider
	resources *ResourceService
	ttl       time.Duration
	now       func() time.Time
	logger    *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionService creates a new session service
func NewSessionService(datasets DatasetProvider, resources *ResourceService, ttl time.Duration, logger *zap.Logger) *SessionService {
	return &SessionService{
		datasets:  datasets,
		resources: resources,
		ttl:       ttl,
		now:       time.Now,
		logger:    logger,
		sessions:  make(map[string]*Session),
	}
}

// Create starts a session with criteria matching everything
func (s *SessionService) Create(ctx context.Context) Session {
	now := s.now()
	sess := &Session{
		ID:        uuid.New().String(),
		Criteria:  model.DefaultCriteria(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Debug("Session created", zap.String("session_id", sess.ID))
	return copySession(sess)
}

// Get returns a session
func (s *SessionService) Get(ctx context.Context, id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return copySession(sess), nil
}

// Patch applies several criteria changes at once. Either all changes apply or
// none does.
func (s *SessionService) Patch(ctx context.Context, id string, patch CriteriaPatch) (Session, error) {
	return s.update(id, func(c model.Criteria) (model.Criteria, error) {
		var err error
		if patch.Query != nil {
			c = withQuery(c, *patch.Query)
		}
		if patch.Category != nil {
			if c, err = s.withCategory(c, *patch.Category); err != nil {
				return c, err
			}
		}
		if patch.Stage != nil {
			if c, err = withStage(c, *patch.Stage); err != nil {
				return c, err
			}
		}
		if patch.Sort != nil {
			if c, err = withSort(c, *patch.Sort); err != nil {
				return c, err
			}
		}
		return c, nil
	})
}

// SetQuery replaces the free-text query
func (s *SessionService) SetQuery(ctx context.Context, id, query string) (Session, error) {
	return s.update(id, func(c model.Criteria) (model.Criteria, error) {
		return withQuery(c, query), nil
	})
}

// SetCategory selects a category id or "all"
func (s *SessionService) SetCategory(ctx context.Context, id, category string) (Session, error) {
	return s.update(id, func(c model.Criteria) (model.Criteria, error) {
		return s.withCategory(c, category)
	})
}

// SetStage selects a stage or "all"
func (s *SessionService) SetStage(ctx context.Context, id, stage string) (Session, error) {
	return s.update(id, func(c model.Criteria) (model.Criteria, error) {
		return withStage(c, stage)
	})
}

// SetSort selects the sort mode
func (s *SessionService) SetSort(ctx context.Context, id, mode string) (Session, error) {
	return s.update(id, func(c model.Criteria) (model.Criteria, error) {
		return withSort(c, mode)
	})
}

// ToggleTag adds or removes a tag from the selection
func (s *SessionService) ToggleTag(ctx context.Context, id, tag string) (Session, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return Session{}, fmt.Errorf("%w: empty tag", ErrInvalidCriteria)
	}
	return s.update(id, func(c model.Criteria) (model.Criteria, error) {
		c.Tags = catalog.ToggleTag(c.Tags, tag)
		return c, nil
	})
}

// Reset restores criteria matching everything
func (s *SessionService) Reset(ctx context.Context, id string) (Session, error) {
	return s.update(id, func(model.Criteria) (model.Criteria, error) {
		return model.DefaultCriteria(), nil
	})
}

// Delete ends a session
func (s *SessionService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(s.sessions, id)
	return nil
}

// Results runs the session's criteria against the catalog
func (s *SessionService) Results(ctx context.Context, id string, page, limit int) (*ListResult, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.resources.List(ctx, sess.Criteria, page, limit)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed
func (s *SessionService) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("Sessions expired", zap.Int("count", removed))
	}
	return removed
}

// RunSweeper sweeps expired sessions every interval until ctx is done
func (s *SessionService) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Len returns the number of live sessions
func (s *SessionService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionService) update(id string, change func(model.Criteria) (model.Criteria, error)) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	next, err := change(sess.Criteria.Normalize())
	if err != nil {
		return Session{}, err
	}

	// the stored session is replaced, so copies handed out earlier stay valid
	updated := &Session{
		ID:        sess.ID,
		Criteria:  next.Normalize(),
		CreatedAt: sess.CreatedAt,
		UpdatedAt: s.now(),
	}
	s.sessions[id] = updated
	return copySession(updated), nil
}

func (s *SessionService) withCategory(c model.Criteria, category string) (model.Criteria, error) {
	category = strings.TrimSpace(category)
	if category == "" || category == model.AllFilter {
		c.Category = model.AllFilter
		return c, nil
	}

	ds, err := s.datasets.Current()
	if err != nil {
		return c, err
	}
	if _, ok := ds.CategoryByID(category); !ok {
		return c, fmt.Errorf("%w: unknown category %q", ErrInvalidCriteria, category)
	}
	c.Category = category
	return c, nil
}

func withQuery(c model.Criteria, query string) model.Criteria {
	c.Query = query
	return c
}

func withStage(c model.Criteria, stage string) (model.Criteria, error) {
	stage = strings.TrimSpace(stage)
	if stage == "" || stage == model.AllFilter {
		c.Stage = model.AllFilter
		return c, nil
	}
	if !model.Stage(stage).Valid() {
		return c, fmt.Errorf("%w: unknown stage %q", ErrInvalidCriteria, stage)
	}
	c.Stage = stage
	return c, nil
}

func withSort(c model.Criteria, mode string) (model.Criteria, error) {
	sortMode, ok := model.ParseSortMode(mode)
	if !ok {
		return c, fmt.Errorf("%w: unknown sort %q", ErrInvalidCriteria, mode)
	}
	c.Sort = sortMode
	return c, nil
}

func copySession(sess *Session) Session {
	out := *sess
	out.Criteria = sess.Criteria.Normalize()
	return out
}
