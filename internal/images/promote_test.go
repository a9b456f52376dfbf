package images_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapnote/shopedit/internal/domain"
	"github.com/mapnote/shopedit/internal/images"
)

// mockRenamer is a hand-written mock of images.Renamer.
type mockRenamer struct {
	renameFunc func(ctx context.Context, fromID, toID string) error
	calls      [][2]string
}

var _ images.Renamer = (*mockRenamer)(nil)

func (m *mockRenamer) Rename(ctx context.Context, fromID, toID string) error {
	m.calls = append(m.calls, [2]string{fromID, toID})
	return m.renameFunc(ctx, fromID, toID)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPromote_MovesTempReferences(t *testing.T) {
	renamer := &mockRenamer{renameFunc: func(context.Context, string, string) error { return nil }}
	p := images.NewPromoter(renamer, discardLogger(), "tempsection", "")

	shop := domain.Shop{
		MainImage: "tempsection/upload-1.jpg",
		SubImages: []string{"tempsection/upload-2.jpg", "downtown/42/old.jpg"},
	}

	got := p.Promote(context.Background(), shop, "downtown", "42")

	assert.Equal(t, "downtown/42/upload-1.jpg", got.MainImage)
	assert.Equal(t, []string{"downtown/42/upload-2.jpg", "downtown/42/old.jpg"}, got.SubImages)
	require.Len(t, renamer.calls, 2, "permanent references are not renamed")
	assert.Equal(t, [2]string{"tempsection/upload-1.jpg", "downtown/42/upload-1.jpg"}, renamer.calls[0])
}

func TestPromote_RenameFailureKeepsTempReference(t *testing.T) {
	renamer := &mockRenamer{renameFunc: func(_ context.Context, fromID, _ string) error {
		if fromID == "tempsection/bad.jpg" {
			return errors.New("store unavailable")
		}
		return nil
	}}
	p := images.NewPromoter(renamer, discardLogger(), "tempsection", "")

	shop := domain.Shop{
		MainImage: "tempsection/bad.jpg",
		SubImages: []string{"tempsection/good.jpg"},
	}

	got := p.Promote(context.Background(), shop, "downtown", "42")

	assert.Equal(t, "tempsection/bad.jpg", got.MainImage,
		"a failed rename keeps the old reference instead of losing the image")
	assert.Equal(t, []string{"downtown/42/good.jpg"}, got.SubImages)
}

func TestPromote_StripsAssetRootFromPermanentRefs(t *testing.T) {
	renamer := &mockRenamer{renameFunc: func(context.Context, string, string) error { return nil }}
	p := images.NewPromoter(renamer, discardLogger(), "tempsection", "https://cdn.example.com/assets")

	shop := domain.Shop{MainImage: "https://cdn.example.com/assets/downtown/42/main.jpg"}

	got := p.Promote(context.Background(), shop, "downtown", "42")

	assert.Equal(t, "downtown/42/main.jpg", got.MainImage)
	assert.Empty(t, renamer.calls)
}

func TestPromote_DoesNotMutateInput(t *testing.T) {
	renamer := &mockRenamer{renameFunc: func(context.Context, string, string) error { return nil }}
	p := images.NewPromoter(renamer, discardLogger(), "tempsection", "")

	shop := domain.Shop{SubImages: []string{"tempsection/a.jpg"}}
	_ = p.Promote(context.Background(), shop, "downtown", "42")

	assert.Equal(t, []string{"tempsection/a.jpg"}, shop.SubImages)
}
