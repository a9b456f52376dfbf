package editor

import (
	"github.com/mapnote/shopedit/internal/domain"
	"github.com/mapnote/shopedit/internal/form"
	"github.com/mapnote/shopedit/internal/images"
)

// Image ordering runs inside the editing session: the machine owns the one
// live order buffer, and committing it writes the result back into the
// working copy. Image fields bypass UpdateField's equality diffing (an image
// array's UI representation cannot cheaply prove equality), so a commit
// force-tracks both fields instead.

// OpenImageOrder builds the order buffer from the working copy's current
// images. No-op outside StateEditorOn.
func (m *Machine) OpenImageOrder() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateEditorOn || m.working == nil {
		return
	}
	m.imageOrder = images.NewOrderBuffer(m.working.MainImage, m.working.SubImages)
}

// MoveImage relocates one buffer entry. No-op when no buffer is open.
func (m *Machine) MoveImage(from, to int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateEditorOn || m.imageOrder == nil {
		return
	}
	m.imageOrder.Move(from, to)
}

// RemoveImageAt deletes one buffer entry. No-op when no buffer is open.
func (m *Machine) RemoveImageAt(index int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateEditorOn || m.imageOrder == nil {
		return
	}
	m.imageOrder.RemoveAt(index)
}

// DropImageOntoMain promotes the buffer entry at from into the blank main
// slot. No-op when no buffer is open.
func (m *Machine) DropImageOntoMain(from int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateEditorOn || m.imageOrder == nil {
		return
	}
	m.imageOrder.DropOntoBlankMainSlot(from)
}

// CommitImageOrder resolves the buffer into the working copy's main/sub
// images, force-marks both fields modified, and closes the buffer.
func (m *Machine) CommitImageOrder() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateEditorOn || m.imageOrder == nil || m.working == nil {
		return
	}
	result := m.imageOrder.Commit()
	m.working.MainImage = result.MainImage
	m.working.SubImages = result.SubImages
	m.projection = form.Project(m.working)
	m.modified[domain.FieldMainImage] = true
	m.modified[domain.FieldSubImages] = true
	m.imageOrder = nil
}
