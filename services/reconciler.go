package services

import (
	"context"
	"strings"

	"github.com/hazratullahh/eceomerce-jawad/models"
	"github.com/hazratullahh/eceomerce-jawad/translate"
)

// Reconciler decides the stored Arabic text of bilingual fields.
//
// For each field: a supplied Arabic text that differs from the stored one
// wins; otherwise a changed (or new) English text is machine translated;
// otherwise the stored Arabic text is kept. Whatever the path, a non-empty
// English text never ends up next to an empty Arabic one.
//
// Calls run one after another in the caller's order. Pacing is left to the
// translator.
type Reconciler struct {
	translator translate.Translator
	target     string
}

func NewReconciler(translator translate.Translator, target string) *Reconciler {
	if target == "" {
		target = "ar"
	}
	return &Reconciler{translator: translator, target: target}
}

func (r *Reconciler) Field(ctx context.Context, submitted models.BilingualText, existing *models.BilingualText) models.BilingualText {
	out := models.BilingualText{EN: submitted.EN}
	explicit := strings.TrimSpace(submitted.AR) != ""
	switch {
	case explicit && (existing == nil || submitted.AR != existing.AR):
		out.AR = submitted.AR
	case existing == nil || submitted.EN != existing.EN:
		out.AR = r.translate(ctx, submitted.EN)
	default:
		out.AR = existing.AR
	}
	if strings.TrimSpace(out.AR) == "" && strings.TrimSpace(out.EN) != "" {
		out.AR = r.translate(ctx, out.EN)
	}
	return out
}

// Optional reconciles a field that may be absent. A nil submission keeps the
// existing value; a submission with blank English clears the field.
func (r *Reconciler) Optional(ctx context.Context, submitted, existing *models.BilingualText) *models.BilingualText {
	if submitted == nil {
		if existing == nil {
			return nil
		}
		kept := *existing
		return &kept
	}
	if submitted.IsBlank() {
		return nil
	}
	out := r.Field(ctx, *submitted, existing)
	return &out
}

// Items reconciles a list positionally: submitted[i] against existing[i].
// Items past the end of existing are treated as new.
func (r *Reconciler) Items(ctx context.Context, submitted, existing []models.BilingualText) []models.BilingualText {
	out := make([]models.BilingualText, 0, len(submitted))
	for i, item := range submitted {
		var prev *models.BilingualText
		if i < len(existing) {
			prev = &existing[i]
		}
		out = append(out, r.Field(ctx, item, prev))
	}
	return out
}

// Dimensions reconciles size chart rows positionally. Size is copied as is.
func (r *Reconciler) Dimensions(ctx context.Context, submitted, existing []models.Dimension) []models.Dimension {
	out := make([]models.Dimension, 0, len(submitted))
	for i, item := range submitted {
		var prev *models.BilingualText
		if i < len(existing) {
			prev = &existing[i].BilingualText
		}
		out = append(out, models.Dimension{
			Size:          item.Size,
			BilingualText: r.Field(ctx, item.BilingualText, prev),
		})
	}
	return out
}

func (r *Reconciler) translate(ctx context.Context, text string) string {
	return r.translator.Translate(ctx, text, r.target)
}
