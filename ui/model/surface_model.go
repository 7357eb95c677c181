package model

import "log/slog"

// Owner identifies the component currently drawing on the image surface.
type Owner int

const (
	OwnerNone Owner = iota
	OwnerSelection
	OwnerPlayback
)

func (o Owner) String() string {
	switch o {
	case OwnerSelection:
		return "Selection"
	case OwnerPlayback:
		return "Playback"
	default:
		return "None"
	}
}

// SurfaceModel arbitrates the single image surface between selection mode
// and playback. Claiming the surface releases the previous owner through the
// release hook it registered. The zero value is usable; all calls happen on
// the UI thread.
type SurfaceModel struct {
	owner    Owner
	releases map[Owner]func()
	logger   *slog.Logger
}

// NewSurfaceModel returns an unowned surface.
func NewSurfaceModel(logger *slog.Logger) *SurfaceModel {
	return &SurfaceModel{logger: logger}
}

// OnRelease registers the hook invoked when owner loses the surface.
func (m *SurfaceModel) OnRelease(owner Owner, fn func()) {
	if m == nil || owner == OwnerNone {
		return
	}
	if m.releases == nil {
		m.releases = make(map[Owner]func())
	}
	m.releases[owner] = fn
}

// Claim hands the surface to owner, releasing whoever held it. Claiming an
// already owned surface is a no-op.
func (m *SurfaceModel) Claim(owner Owner) {
	if m == nil || m.owner == owner {
		return
	}
	prev := m.owner
	m.owner = owner
	if m.logger != nil {
		m.logger.Debug("surface claimed", "owner", owner.String(), "previous", prev.String())
	}
	if fn := m.releases[prev]; fn != nil && prev != OwnerNone {
		fn()
	}
}

// Release gives up the surface if owner still holds it. The owner's own
// release hook is not called.
func (m *SurfaceModel) Release(owner Owner) {
	if m == nil || m.owner != owner {
		return
	}
	m.owner = OwnerNone
}

// Owner reports the current owner.
func (m *SurfaceModel) Owner() Owner {
	if m == nil {
		return OwnerNone
	}
	return m.owner
}
