// Package compare implements the side-by-side comparison bridge: a
// read-mostly holder for an externally-sourced candidate record (a Google
// Places result or an existing catalog record) shown next to the record
// being edited, with selective field-by-field copy-in.
//
// The bridge never mutates the editing session on its own. Only explicit
// copy actions write, and they write through the editor's ordinary
// UpdateField+TrackField entry points so a copied field participates in the
// same dirty-tracking as a manual edit.
package compare

import (
	"sync"

	"github.com/mapnote/shopedit/internal/diff"
	"github.com/mapnote/shopedit/internal/domain"
)

// Editor is the write surface the bridge copies through. *editor.Machine
// satisfies it.
type Editor interface {
	UpdateField(field domain.Field, value any)
	TrackField(field domain.Field)
}

// Side is one labelled half of the comparison.
type Side struct {
	Label string      `json:"label"`
	Data  domain.Shop `json:"data"`
}

// Bridge stages a reference record against a target for comparison. A nil
// target means "compare against the live working copy".
type Bridge struct {
	mu         sync.Mutex
	editor     Editor
	reference  *Side
	target     *Side
	insertMode bool
}

// NewBridge constructs a Bridge that copies into editor.
func NewBridge(editor Editor) *Bridge {
	return &Bridge{editor: editor}
}

// Stage captures a reference record and an optional target. insertMode
// controls whether per-field copy affordances are offered. Staging replaces
// any previous comparison.
func (b *Bridge) Stage(reference Side, target *Side, insertMode bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ref := reference
	ref.Data = reference.Data.Clone()
	b.reference = &ref
	b.target = nil
	if target != nil {
		t := *target
		t.Data = target.Data.Clone()
		b.target = &t
	}
	b.insertMode = insertMode
}

// CopyField copies one field from the reference into the editing session.
// Returns false when no comparison is staged, insert mode is off, or the
// field is unknown. The bridge stays active so the operator can copy more
// fields.
func (b *Bridge) CopyField(field domain.Field) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.reference == nil || !b.insertMode || !field.Valid() {
		return false
	}
	b.editor.UpdateField(field, b.reference.Data.Get(field))
	b.editor.TrackField(field)
	return true
}

// CopyAll copies every field that is non-empty on the reference, then
// dismisses the comparison (the full-insert action completes it).
func (b *Bridge) CopyAll() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.reference == nil || !b.insertMode {
		return false
	}
	empty := domain.Shop{}
	for _, f := range domain.Fields() {
		v := b.reference.Data.Get(f)
		if diff.Equal(v, empty.Get(f)) {
			continue
		}
		b.editor.UpdateField(f, v)
		b.editor.TrackField(f)
	}
	b.reference = nil
	b.target = nil
	b.insertMode = false
	return true
}

// Dismiss drops the staged comparison without touching the editing session.
func (b *Bridge) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.reference = nil
	b.target = nil
	b.insertMode = false
}

// Snapshot is a read-only view of the staged comparison.
type Snapshot struct {
	Active     bool  `json:"active"`
	Reference  *Side `json:"reference,omitempty"`
	Target     *Side `json:"target,omitempty"`
	InsertMode bool  `json:"insertMode"`
}

// Snapshot returns the current comparison view.
func (b *Bridge) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := Snapshot{Active: b.reference != nil, InsertMode: b.insertMode}
	if b.reference != nil {
		ref := *b.reference
		ref.Data = b.reference.Data.Clone()
		snap.Reference = &ref
	}
	if b.target != nil {
		t := *b.target
		t.Data = b.target.Data.Clone()
		snap.Target = &t
	}
	return snap
}
