package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/reroute-fukuoka/reroute/pkg/transit"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

const (
	DefaultCacheTTL = 120 * time.Second
	MinimumCacheTTL = 30 * time.Second
)

// Manager overlays realtime patches on the static timetable edges.
// Patches are refetched at most once per TTL unless a refresh is forced.
type Manager struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	mutex       sync.Mutex
	static      []transit.TripEdge
	patches     map[segmentKey]Patch
	tripPatches map[string]Patch
	lastRefresh time.Time
}

// NewManager returns a manager. A nil source disables realtime updates.
func NewManager(source Source, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if ttl < MinimumCacheTTL {
		ttl = MinimumCacheTTL
	}

	return &Manager{
		source:      source,
		ttl:         ttl,
		now:         time.Now,
		patches:     map[segmentKey]Patch{},
		tripPatches: map[string]Patch{},
	}
}

func (m *Manager) Enabled() bool {
	return m != nil && m.source != nil
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) LastRefresh() time.Time {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.lastRefresh
}

// LoadStaticEdges replaces the static edges and forgets every patch.
func (m *Manager) LoadStaticEdges(edges []transit.TripEdge) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.static = append([]transit.TripEdge(nil), edges...)
	m.patches = map[segmentKey]Patch{}
	m.tripPatches = map[string]Patch{}
	m.lastRefresh = time.Time{}
}

// Refresh fetches patches for the trips of the given lines, or of every
// line when lines is empty. A soft refresh is skipped while the last one is
// younger than the TTL.
func (m *Manager) Refresh(ctx context.Context, lines []string, soft bool) error {
	if !m.Enabled() {
		return nil
	}

	now := m.now()

	m.mutex.Lock()
	if soft && !m.lastRefresh.IsZero() && now.Sub(m.lastRefresh) < m.ttl {
		m.mutex.Unlock()
		return nil
	}
	queries := m.tripQueries(lines)
	m.mutex.Unlock()

	if len(queries) == 0 {
		m.mutex.Lock()
		m.lastRefresh = now
		m.mutex.Unlock()
		return nil
	}

	patches, err := m.source.Fetch(ctx, queries)
	if err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, patch := range patches {
		if patch.TripID == "" {
			continue
		}
		if patch.TripWide() {
			m.tripPatches[patch.TripID] = patch
		} else {
			m.patches[segmentKey{tripID: patch.TripID, from: patch.FromCode, to: patch.ToCode}] = patch
		}
	}
	m.lastRefresh = now

	log.Debug().
		Str("source", m.source.Name()).
		Int("queries", len(queries)).
		Int("patches", len(patches)).
		Msg("Refreshed realtime patches")

	return nil
}

// tripQueries must be called with the mutex held.
func (m *Manager) tripQueries(lines []string) []TripQuery {
	seen := map[[2]string]bool{}
	var queries []TripQuery

	for _, edge := range m.static {
		if len(lines) > 0 && !slices.Contains(lines, edge.LineID) {
			continue
		}

		key := [2]string{edge.LineID, edge.TripID}
		if seen[key] {
			continue
		}
		seen[key] = true

		queries = append(queries, TripQuery{LineID: edge.LineID, TripID: edge.TripID, Direction: edge.Direction})
	}

	return queries
}

// EdgesForWindow returns the static edges overlapping [start, end] with
// realtime patches applied and cancelled segments removed. Realtime
// failures are logged and the static edges are used as they are.
func (m *Manager) EdgesForWindow(ctx context.Context, start int, end int, lines []string, force bool) []transit.TripEdge {
	if err := m.Refresh(ctx, lines, !force); err != nil {
		log.Warn().Err(err).Msg("Realtime refresh failed, using static timetable")
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	edges := make([]transit.TripEdge, 0, len(m.static))
	for _, edge := range m.static {
		if len(lines) > 0 && !slices.Contains(lines, edge.LineID) {
			continue
		}
		if edge.Arrive < start || edge.Depart > end {
			continue
		}

		if patch, exists := m.tripPatches[edge.TripID]; exists {
			var keep bool
			if edge, keep = patch.apply(edge); !keep {
				continue
			}
		}

		if patch, exists := m.patches[segmentKey{tripID: edge.TripID, from: edge.FromCode, to: edge.ToCode}]; exists {
			var keep bool
			if edge, keep = patch.apply(edge); !keep {
				continue
			}
		}

		edges = append(edges, edge)
	}

	return edges
}
