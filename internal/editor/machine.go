// Package editor implements the editing state machine for a shop record: a
// single-writer session holding a frozen original snapshot and a mutable
// working copy, with per-field modification tracking and a
// confirm-then-submit lifecycle.
//
// All operations are safe to call in any state; a dispatch that is invalid
// for the current state is a silent no-op. The machine must stay resilient
// to stale or duplicate dispatches arriving after a cancel, so it never
// panics or errors on them.
package editor

import (
	"context"
	"fmt"
	"sync"

	"github.com/mapnote/shopedit/internal/diff"
	"github.com/mapnote/shopedit/internal/domain"
	"github.com/mapnote/shopedit/internal/form"
	"github.com/mapnote/shopedit/internal/images"
)

// State is the lifecycle phase of the editing session.
type State int

const (
	// StateIdle means no editing session is live. The panel may still be
	// showing an externally-selected record.
	StateIdle State = iota
	// StateEditorOn means a session is live and fields are directly mutable.
	StateEditorOn
	// StateConfirming means the editor is closed and the session awaits the
	// operator's confirmation (or re-edit, or cancel).
	StateConfirming
	// StateSubmitting means persistence is in flight.
	StateSubmitting
)

// String returns the wire name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEditorOn:
		return "editing"
	case StateConfirming:
		return "confirming"
	case StateSubmitting:
		return "submitting"
	}
	return "unknown"
}

// Submitter persists a working record. The service layer implements it:
// create when the record has no ID, update otherwise, image namespace
// promotion included.
type Submitter interface {
	Save(ctx context.Context, shop domain.Shop, sectionName string) (domain.Shop, error)
}

// Machine is the editing state machine. Exactly one editing session is live
// at a time; starting a new edit while one is active replaces it
// (last-writer-wins). Only Machine methods mutate the session.
type Machine struct {
	mu     sync.Mutex
	submit Submitter

	state      State
	original   *domain.Shop
	working    *domain.Shop
	projection form.Projection
	modified   map[domain.Field]bool
	hasChanges bool
	lastError  string

	// external is the record currently shown while idle (the selected map
	// pin). It only feeds the panel projection; StartEdit always receives
	// its source explicitly.
	external *domain.Shop

	imageOrder *images.OrderBuffer

	// generation increments whenever the session is created or destroyed.
	// An async submission resolution whose captured generation no longer
	// matches is stale and must be ignored.
	generation uint64

	// onCancel notifies external collaborators (map overlay management) to
	// discard in-progress drawing state. Optional.
	onCancel func()
}

// NewMachine constructs an idle Machine that submits through submit.
func NewMachine(submit Submitter) *Machine {
	return &Machine{
		submit:   submit,
		modified: make(map[domain.Field]bool),
	}
}

// OnCancel registers a callback invoked whenever an edit is cancelled.
func (m *Machine) OnCancel(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onCancel = fn
}

// Snapshot is a read-only view of the session for rendering.
type Snapshot struct {
	State          string          `json:"state"`
	Projection     form.Projection `json:"projection"`
	ModifiedFields []string        `json:"modifiedFields"`
	HasChanges     bool            `json:"hasChanges"`
	LastError      string          `json:"lastError,omitempty"`
	PanelVisible   bool            `json:"panelVisible"`
	ImageOrder     []string        `json:"imageOrder,omitempty"`
	Working        *domain.Shop    `json:"working,omitempty"`
}

// Snapshot returns the current session view. The working record is a clone;
// callers cannot mutate session state through it.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		State:          m.state.String(),
		Projection:     m.projection,
		ModifiedFields: m.modifiedFieldNames(),
		HasChanges:     m.hasChanges,
		LastError:      m.lastError,
		PanelVisible:   m.state != StateIdle || m.external != nil,
	}
	if m.working != nil {
		w := m.working.Clone()
		snap.Working = &w
	}
	if m.imageOrder != nil {
		snap.ImageOrder = m.imageOrder.Slots()
	}
	return snap
}

// State returns the current lifecycle state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// StartEdit begins an editing session on source, cloning it into both the
// frozen original and the working copy. A nil source starts the "create"
// path on the canonical empty record. Re-entrant: calling StartEdit while a
// session is live replaces the stale session.
func (m *Machine) StartEdit(source *domain.Shop) {
	m.mu.Lock()
	defer m.mu.Unlock()

	base := domain.Shop{}
	if source != nil {
		base = source.Clone()
	}
	orig := base.Clone()
	work := base.Clone()

	m.original = &orig
	m.working = &work
	m.projection = form.Project(m.working)
	m.modified = make(map[domain.Field]bool)
	m.hasChanges = false
	m.lastError = ""
	m.imageOrder = nil
	m.state = StateEditorOn
	m.generation++
}

// UpdateField writes value into the working copy and recomputes whether the
// field is modified relative to the original. Editing a field back to its
// original value removes it from the modified set ("revert by retyping").
// No-op outside StateEditorOn or for an invalid field/value type.
func (m *Machine) UpdateField(field domain.Field, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateEditorOn || m.working == nil {
		return
	}
	if err := m.working.Set(field, value); err != nil {
		return
	}
	m.projection = form.Project(m.working)

	if diff.Equal(m.original.Get(field), m.working.Get(field)) {
		delete(m.modified, field)
	} else {
		m.modified[field] = true
	}
}

// TrackField force-marks a field as modified regardless of value equality.
// It is the explicit escape hatch for flows whose UI representation cannot
// cheaply prove equality (map-drawn coordinates, image arrays); those flows
// mutate the working copy directly and then call TrackField.
func (m *Machine) TrackField(field domain.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateEditorOn || !field.Valid() {
		return
	}
	m.modified[field] = true
}

// CompleteEditor closes the editor and moves to confirming. The modified set
// is recomputed from scratch by diffing every field of the original against
// the working copy — the authoritative recheck, not a filter of previously
// tracked fields.
func (m *Machine) CompleteEditor() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateEditorOn {
		return
	}
	m.modified = diff.Fields(m.original, m.working)
	m.hasChanges = len(m.modified) > 0
	m.state = StateConfirming
}

// StartConfirm moves to confirming using the already-tracked modified set
// (the cheap path; CompleteEditor is the authoritative one).
func (m *Machine) StartConfirm() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateEditorOn {
		return
	}
	m.hasChanges = len(m.modified) > 0
	m.state = StateConfirming
}

// BeginEditor reopens the editor from confirming for iterative refinement.
// The working copy and modified set are kept as-is.
func (m *Machine) BeginEditor() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateConfirming {
		return
	}
	m.state = StateEditorOn
}

// CancelEdit discards the session: the working copy is dropped, the form
// projection reverts to the original (or the empty record), and the machine
// returns to idle. External collaborators are signalled to discard any
// in-progress drawing overlays.
func (m *Machine) CancelEdit() {
	m.mu.Lock()

	if m.state != StateEditorOn && m.state != StateConfirming {
		m.mu.Unlock()
		return
	}

	m.projection = form.Project(m.original)
	m.original = nil
	m.working = nil
	m.modified = make(map[domain.Field]bool)
	m.hasChanges = false
	m.lastError = ""
	m.imageOrder = nil
	m.state = StateIdle
	m.generation++
	notify := m.onCancel
	m.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// ConfirmAndSubmit persists the working copy through the Submitter. Valid
// only while confirming with changes present. On success the session clears
// and the machine returns to idle; on failure the error is surfaced on the
// session and the machine returns to confirming so the operator can retry or
// cancel.
//
// The submitter runs outside the lock. If the session is reset while the
// call is in flight (cancel, new StartEdit), its eventual resolution is
// ignored.
func (m *Machine) ConfirmAndSubmit(ctx context.Context) error {
	m.mu.Lock()

	if m.state != StateConfirming || m.working == nil {
		m.mu.Unlock()
		return nil
	}
	if !m.hasChanges {
		m.mu.Unlock()
		return nil
	}
	if m.working.SectionName == "" {
		m.lastError = "section name is required"
		m.mu.Unlock()
		return fmt.Errorf("%w: section name is required", domain.ErrValidation)
	}

	working := m.working.Clone()
	section := working.SectionName
	gen := m.generation
	m.state = StateSubmitting
	m.lastError = ""
	m.mu.Unlock()

	_, err := m.submit.Save(ctx, working, section)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generation != gen {
		// Session was reset mid-flight; this resolution is stale.
		return nil
	}

	if err != nil {
		m.lastError = err.Error()
		m.state = StateConfirming
		return fmt.Errorf("editor.Machine.ConfirmAndSubmit: %w", err)
	}

	m.original = nil
	m.working = nil
	m.projection = form.Projection{}
	m.modified = make(map[domain.Field]bool)
	m.hasChanges = false
	m.imageOrder = nil
	m.state = StateIdle
	m.generation++
	return nil
}

// SyncExternalShop updates the idle panel to reflect an externally-selected
// record (a different map pin, or a realtime update). Deliberately inert
// while an edit is in progress so a remote update can never clobber local
// edits.
func (m *Machine) SyncExternalShop(shop *domain.Shop) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateIdle {
		return
	}
	if shop == nil {
		m.external = nil
		m.projection = form.Projection{}
		return
	}
	s := shop.Clone()
	m.external = &s
	m.projection = form.Project(&s)
}

// SyncExternalShopDeleted clears the idle panel when the displayed record is
// the one that was deleted. A deletion of any other record leaves the panel
// untouched, and like SyncExternalShop it is inert during an edit.
func (m *Machine) SyncExternalShopDeleted(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateIdle || m.external == nil || m.external.ID != id {
		return
	}
	m.external = nil
	m.projection = form.Projection{}
}

// modifiedFieldNames returns the modified set as wire names, in the stable
// field declaration order.
func (m *Machine) modifiedFieldNames() []string {
	names := make([]string, 0, len(m.modified))
	for _, f := range domain.Fields() {
		if m.modified[f] {
			names = append(names, string(f))
		}
	}
	return names
}
