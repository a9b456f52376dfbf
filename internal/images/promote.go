package images

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mapnote/shopedit/internal/domain"
)

// Renamer moves an image to a new public ID in the image store. It is the
// one image-collaborator operation promotion needs; the full client in
// internal/imagestore satisfies it.
type Renamer interface {
	Rename(ctx context.Context, fromID, toID string) error
}

// Promoter rewrites temp-namespaced image references into a record's
// permanent namespace at save time. Images uploaded during editing land
// under tempSection/...; once the record has an ID they move to
// section/itemID/....
type Promoter struct {
	renamer     Renamer
	log         *slog.Logger
	tempSection string
	assetRoot   string
}

// NewPromoter constructs a Promoter. assetRoot is the internal CDN prefix
// stripped from references that are already permanent (may be empty).
func NewPromoter(renamer Renamer, log *slog.Logger, tempSection, assetRoot string) *Promoter {
	return &Promoter{renamer: renamer, log: log, tempSection: tempSection, assetRoot: assetRoot}
}

// Promote returns a copy of shop with every temp-namespaced image reference
// renamed into targetSection/itemID and rewritten in the record.
//
// Promotion failures are deliberately non-fatal: a failed rename is logged
// and the original reference kept, so the record still saves with whichever
// images succeeded.
func (p *Promoter) Promote(ctx context.Context, shop domain.Shop, targetSection, itemID string) domain.Shop {
	promoted := shop.Clone()
	promoted.MainImage = p.promoteRef(ctx, shop.MainImage, targetSection, itemID)
	for i, ref := range promoted.SubImages {
		promoted.SubImages[i] = p.promoteRef(ctx, ref, targetSection, itemID)
	}
	return promoted
}

// promoteRef processes a single image reference. References outside the temp
// namespace pass through unchanged apart from stripping the asset-root
// prefix.
func (p *Promoter) promoteRef(ctx context.Context, ref, targetSection, itemID string) string {
	if ref == "" {
		return ref
	}

	tempPrefix := p.tempSection + "/"
	if !strings.HasPrefix(ref, tempPrefix) {
		if p.assetRoot != "" {
			return strings.TrimPrefix(ref, p.assetRoot+"/")
		}
		return ref
	}

	base := ref[strings.LastIndex(ref, "/")+1:]
	newRef := targetSection + "/" + itemID + "/" + base
	if err := p.renamer.Rename(ctx, ref, newRef); err != nil {
		p.log.Warn("image promotion failed, keeping temp reference",
			"from", ref, "to", newRef, "error", err)
		return ref
	}
	return newRef
}
