package services

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	"github.com/lumen-reader/lumen/internal/core/domain"
	"github.com/lumen-reader/lumen/internal/core/ports/driven"
	"github.com/lumen-reader/lumen/internal/logger"
)

// DecorationManager keeps the renderer's named overlay groups in sync with
// desired state computed by the coordinator. Every change replaces a
// group's entire member set; partial updates are never issued.
//
// A rejected apply is logged and the recorded state for the group is
// dropped, so the next recompute resends the full set.
type DecorationManager struct {
	mu      sync.Mutex
	pub     driven.Publication
	applied map[string][]byte
}

// NewDecorationManager creates a decoration manager for an open
// publication.
func NewDecorationManager(pub driven.Publication) *DecorationManager {
	return &DecorationManager{
		pub:     pub,
		applied: make(map[string][]byte),
	}
}

// Apply replaces the entire member set of the named group. A push that is
// byte-identical to the last successful one for the group is skipped.
func (m *DecorationManager) Apply(ctx context.Context, group string, decorations []domain.Decoration) {
	encoded, err := json.Marshal(decorations)
	if err != nil {
		logger.Warn("Encoding %q decorations: %v", group, err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.applied[group]; ok && bytes.Equal(prev, encoded) {
		logger.Debug("Decoration group %q unchanged, skipping push", group)
		return
	}

	if err := m.pub.ApplyDecorations(ctx, group, decorations); err != nil {
		logger.Warn("Applying %d decorations to %q: %v", len(decorations), group, err)
		delete(m.applied, group)
		return
	}

	m.applied[group] = encoded
	logger.Debug("Decoration group %q replaced with %d members", group, len(decorations))
}

// Clear empties the named group.
func (m *DecorationManager) Clear(ctx context.Context, group string) {
	m.Apply(ctx, group, []domain.Decoration{})
}

// ClearAll empties both well-known groups.
func (m *DecorationManager) ClearAll(ctx context.Context) {
	m.Clear(ctx, domain.DecorationGroupSearch)
	m.Clear(ctx, domain.DecorationGroupHighlights)
}
