// Package images manages the image set attached to a shop record: the
// main+ordered-sub invariant during drag reordering, promotion of
// temp-namespaced uploads into the record's permanent namespace, and batched
// precaching against the image CDN.
package images

// BlankSlot is the placeholder occupying slot 0 of an order buffer when the
// record has sub images but no main image. It lets a client render an empty
// main-image drop target distinctly from "no images at all".
const BlankSlot = "blank"

// OrderBuffer is the transient sequence used while the operator drags images
// into a new main/sub order. Slot 0 is the main-image slot; everything after
// it is the sub-image order. The buffer never contains empty strings, and
// BlankSlot only ever appears at slot 0.
type OrderBuffer struct {
	slots []string
}

// CommitResult is the final image placement produced by Commit.
type CommitResult struct {
	MainImage    string   `json:"mainImage"`
	SubImages    []string `json:"subImages"`
	HasMainImage bool     `json:"hasMainImage"`
}

// NewOrderBuffer builds a buffer from the record's current images. When the
// record has sub images but no main image, BlankSlot takes slot 0. Empty
// string entries (the legacy [""] placeholder) are stripped.
func NewOrderBuffer(mainImage string, subImages []string) *OrderBuffer {
	var subs []string
	for _, img := range subImages {
		if img != "" {
			subs = append(subs, img)
		}
	}

	b := &OrderBuffer{}
	switch {
	case mainImage != "":
		b.slots = append([]string{mainImage}, subs...)
	case len(subs) > 0:
		b.slots = append([]string{BlankSlot}, subs...)
	}
	return b
}

// Slots returns a copy of the current buffer contents.
func (b *OrderBuffer) Slots() []string {
	return append([]string(nil), b.slots...)
}

// Move relocates the element at from to position to. Out-of-range or equal
// indices are a no-op.
func (b *OrderBuffer) Move(from, to int) {
	if from == to || from < 0 || to < 0 || from >= len(b.slots) || to >= len(b.slots) {
		return
	}
	moved := b.slots[from]
	rest := append(append([]string(nil), b.slots[:from]...), b.slots[from+1:]...)
	b.slots = append(append(append([]string(nil), rest[:to]...), moved), rest[to:]...)
}

// RemoveAt deletes the element at index. Removing a real main image from
// slot 0 leaves BlankSlot behind when other images remain, and empties the
// buffer entirely when it was the only image. A buffer reduced to just the
// blank placeholder also collapses to empty.
func (b *OrderBuffer) RemoveAt(index int) {
	if index < 0 || index >= len(b.slots) {
		return
	}
	if index == 0 && b.slots[0] != BlankSlot {
		if len(b.slots) == 1 {
			b.slots = nil
			return
		}
		b.slots[0] = BlankSlot
		return
	}
	b.slots = append(b.slots[:index], b.slots[index+1:]...)
	if len(b.slots) == 1 && b.slots[0] == BlankSlot {
		b.slots = nil
	}
}

// DropOntoBlankMainSlot promotes the image at from into the blank main slot.
// The remaining images keep their prior relative order. No-op unless slot 0
// currently holds BlankSlot and from points at a real image.
func (b *OrderBuffer) DropOntoBlankMainSlot(from int) {
	if len(b.slots) == 0 || b.slots[0] != BlankSlot {
		return
	}
	if from <= 0 || from >= len(b.slots) {
		return
	}
	promoted := b.slots[from]
	next := []string{promoted}
	for i, img := range b.slots {
		if i == 0 || i == from {
			continue
		}
		next = append(next, img)
	}
	b.slots = next
}

// Commit resolves the buffer into its final main/sub placement. Slot 0
// becomes the main image unless it is BlankSlot; every other non-blank entry
// becomes a sub image, in order. An empty buffer commits to no images.
func (b *OrderBuffer) Commit() CommitResult {
	if len(b.slots) == 0 {
		return CommitResult{SubImages: []string{}}
	}

	result := CommitResult{SubImages: []string{}}
	if b.slots[0] != BlankSlot {
		result.MainImage = b.slots[0]
		result.HasMainImage = true
	}
	for _, img := range b.slots[1:] {
		if img != BlankSlot && img != "" {
			result.SubImages = append(result.SubImages, img)
		}
	}
	return result
}
