package images_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mapnote/shopedit/internal/images"
)

func TestNewOrderBuffer_WithMainImage(t *testing.T) {
	b := images.NewOrderBuffer("main.jpg", []string{"a.jpg", "b.jpg"})
	assert.Equal(t, []string{"main.jpg", "a.jpg", "b.jpg"}, b.Slots())
}

func TestNewOrderBuffer_NoMainImageGetsBlankSlot(t *testing.T) {
	b := images.NewOrderBuffer("", []string{"a.jpg", "b.jpg"})
	assert.Equal(t, []string{images.BlankSlot, "a.jpg", "b.jpg"}, b.Slots())
}

func TestNewOrderBuffer_NoImagesAtAll(t *testing.T) {
	b := images.NewOrderBuffer("", nil)
	assert.Empty(t, b.Slots())
}

func TestNewOrderBuffer_StripsPlaceholderEntries(t *testing.T) {
	b := images.NewOrderBuffer("main.jpg", []string{""})
	assert.Equal(t, []string{"main.jpg"}, b.Slots())
}

func TestOrderBuffer_RoundTripWithoutEdits(t *testing.T) {
	b := images.NewOrderBuffer("main.jpg", []string{"a.jpg", "b.jpg"})

	got := b.Commit()

	assert.Equal(t, images.CommitResult{
		MainImage:    "main.jpg",
		SubImages:    []string{"a.jpg", "b.jpg"},
		HasMainImage: true,
	}, got)
}

func TestOrderBuffer_Move(t *testing.T) {
	b := images.NewOrderBuffer("main.jpg", []string{"a.jpg", "b.jpg", "c.jpg"})

	b.Move(3, 1)
	assert.Equal(t, []string{"main.jpg", "c.jpg", "a.jpg", "b.jpg"}, b.Slots())

	b.Move(0, 2)
	assert.Equal(t, []string{"c.jpg", "a.jpg", "main.jpg", "b.jpg"}, b.Slots())
}

func TestOrderBuffer_MoveOutOfRangeIsNoOp(t *testing.T) {
	b := images.NewOrderBuffer("main.jpg", []string{"a.jpg"})

	b.Move(-1, 1)
	b.Move(0, 5)
	b.Move(1, 1)

	assert.Equal(t, []string{"main.jpg", "a.jpg"}, b.Slots())
}

func TestOrderBuffer_RemoveMainLeavesBlankSlot(t *testing.T) {
	b := images.NewOrderBuffer("main.jpg", []string{"a.jpg", "b.jpg"})

	b.RemoveAt(0)

	assert.Equal(t, []string{images.BlankSlot, "a.jpg", "b.jpg"}, b.Slots())

	got := b.Commit()
	assert.False(t, got.HasMainImage)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, got.SubImages)
}

func TestOrderBuffer_RemoveOnlyImageEmptiesBuffer(t *testing.T) {
	b := images.NewOrderBuffer("main.jpg", nil)

	b.RemoveAt(0)

	assert.Empty(t, b.Slots())
	assert.Equal(t, images.CommitResult{SubImages: []string{}}, b.Commit())
}

func TestOrderBuffer_RemoveLastSubCollapsesLoneBlank(t *testing.T) {
	b := images.NewOrderBuffer("", []string{"a.jpg"})

	b.RemoveAt(1)

	assert.Empty(t, b.Slots(), "a buffer holding only the blank placeholder collapses to empty")
}

func TestOrderBuffer_DropOntoBlankMainSlot(t *testing.T) {
	b := images.NewOrderBuffer("", []string{"x.jpg", "y.jpg"})
	assert.Equal(t, []string{images.BlankSlot, "x.jpg", "y.jpg"}, b.Slots())

	b.DropOntoBlankMainSlot(2)

	assert.Equal(t, []string{"y.jpg", "x.jpg"}, b.Slots())
	assert.Equal(t, images.CommitResult{
		MainImage:    "y.jpg",
		SubImages:    []string{"x.jpg"},
		HasMainImage: true,
	}, b.Commit())
}

func TestOrderBuffer_DropIsNoOpWithoutBlankSlot(t *testing.T) {
	b := images.NewOrderBuffer("main.jpg", []string{"a.jpg"})

	b.DropOntoBlankMainSlot(1)

	assert.Equal(t, []string{"main.jpg", "a.jpg"}, b.Slots())
}

func TestOrderBuffer_DropOutOfRangeIsNoOp(t *testing.T) {
	b := images.NewOrderBuffer("", []string{"a.jpg"})

	b.DropOntoBlankMainSlot(0)
	b.DropOntoBlankMainSlot(5)

	assert.Equal(t, []string{images.BlankSlot, "a.jpg"}, b.Slots())
}
