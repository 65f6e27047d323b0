package artifacts

import (
	"context"
	"sync"
	"time"

	"placement-advisor/internal/common/logger"
)

// LoadFunc produces a bundle. Load satisfies it once bound to a source.
type LoadFunc func(ctx context.Context) (*Bundle, error)

// State holds the process-wide bundle. The load runs at most once; later
// calls return the first outcome.
type State struct {
	once   sync.Once
	mu     sync.RWMutex
	bundle *Bundle
	err    error
	load   LoadFunc
	logger logger.Logger
}

func NewState(src Source, opts LoadOptions, log logger.Logger) *State {
	return NewStateWithLoader(func(ctx context.Context) (*Bundle, error) {
		return Load(ctx, src, opts)
	}, log.WithFields(map[string]interface{}{"source": src.String()}))
}

func NewStateWithLoader(load LoadFunc, log logger.Logger) *State {
	return &State{load: load, logger: log}
}

// NewReadyState wraps an already-built bundle.
func NewReadyState(b *Bundle) *State {
	s := &State{bundle: b, logger: logger.NewNoOpLogger()}
	s.once.Do(func() {})
	return s
}

// Load blocks until the bundle is loaded or has failed.
func (s *State) Load(ctx context.Context) error {
	s.once.Do(func() {
		start := time.Now()
		b, err := s.load(ctx)

		s.mu.Lock()
		s.bundle, s.err = b, err
		s.mu.Unlock()

		if err != nil {
			s.logger.Error("Artifact load failed", map[string]interface{}{
				"error":    err.Error(),
				"duration": time.Since(start).String(),
			})
			return
		}
		s.logger.Info("Artifacts loaded", map[string]interface{}{
			"modelVersion": b.ModelVersion(),
			"columns":      len(b.Columns()),
			"duration":     time.Since(start).String(),
		})
	})
	return s.Err()
}

func (s *State) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle != nil
}

// Bundle returns the loaded bundle, or false before a successful load.
func (s *State) Bundle() (*Bundle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle, s.bundle != nil
}

// Err returns the recorded load failure, if any.
func (s *State) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}
