package services

import (
	"context"
	"testing"

	"github.com/hazratullahh/eceomerce-jawad/models"
	"github.com/stretchr/testify/assert"
)

func TestReconcilerField(t *testing.T) {
	ctx := context.Background()
	existing := &models.BilingualText{EN: "Red dress", AR: "فستان أحمر"}

	tests := []struct {
		name      string
		submitted models.BilingualText
		existing  *models.BilingualText
		want      models.BilingualText
		calls     int
	}{
		{
			name:      "new field translated",
			submitted: models.BilingualText{EN: "Shoes"},
			want:      models.BilingualText{EN: "Shoes", AR: "ar:Shoes"},
			calls:     1,
		},
		{
			name:      "explicit arabic on create",
			submitted: models.BilingualText{EN: "Shoes", AR: "أحذية"},
			want:      models.BilingualText{EN: "Shoes", AR: "أحذية"},
		},
		{
			name:      "identical resubmission",
			submitted: *existing,
			existing:  existing,
			want:      *existing,
		},
		{
			name:      "english only resubmission keeps arabic",
			submitted: models.BilingualText{EN: "Red dress"},
			existing:  existing,
			want:      *existing,
		},
		{
			name:      "changed english retranslates",
			submitted: models.BilingualText{EN: "Blue dress", AR: "فستان أحمر"},
			existing:  existing,
			want:      models.BilingualText{EN: "Blue dress", AR: "ar:Blue dress"},
			calls:     1,
		},
		{
			name:      "arabic override wins over english change",
			submitted: models.BilingualText{EN: "Blue dress", AR: "فستان أزرق"},
			existing:  existing,
			want:      models.BilingualText{EN: "Blue dress", AR: "فستان أزرق"},
		},
		{
			name:      "arabic override with same english",
			submitted: models.BilingualText{EN: "Red dress", AR: "ثوب أحمر"},
			existing:  existing,
			want:      models.BilingualText{EN: "Red dress", AR: "ثوب أحمر"},
		},
		{
			name:      "arabic kept verbatim",
			submitted: models.BilingualText{EN: "Shoes ", AR: "  أحذية "},
			want:      models.BilingualText{EN: "Shoes ", AR: "  أحذية "},
		},
		{
			name:      "blank arabic translated",
			submitted: models.BilingualText{EN: "Shoes", AR: "   "},
			want:      models.BilingualText{EN: "Shoes", AR: "ar:Shoes"},
			calls:     1,
		},
		{
			name:      "stored arabic empty is backfilled",
			submitted: models.BilingualText{EN: "Hat"},
			existing:  &models.BilingualText{EN: "Hat"},
			want:      models.BilingualText{EN: "Hat", AR: "ar:Hat"},
			calls:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &countingTranslator{}
			r := NewReconciler(tr, "")
			got := r.Field(ctx, tt.submitted, tt.existing)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.calls, tr.count())
		})
	}
}

func TestReconcilerOptional(t *testing.T) {
	ctx := context.Background()
	tr := &countingTranslator{}
	r := NewReconciler(tr, "ar")
	existing := &models.BilingualText{EN: "Soft", AR: "ناعم"}

	kept := r.Optional(ctx, nil, existing)
	assert.Equal(t, existing, kept)
	assert.NotSame(t, existing, kept)

	assert.Nil(t, r.Optional(ctx, nil, nil))
	assert.Nil(t, r.Optional(ctx, &models.BilingualText{EN: "  "}, existing))

	got := r.Optional(ctx, &models.BilingualText{EN: "Warm"}, nil)
	assert.Equal(t, &models.BilingualText{EN: "Warm", AR: "ar:Warm"}, got)
	assert.Equal(t, 1, tr.count())
}

func TestReconcilerListsArePositional(t *testing.T) {
	ctx := context.Background()
	tr := &countingTranslator{}
	r := NewReconciler(tr, "ar")

	existing := []models.BilingualText{{EN: "Wash cold", AR: "اغسل باردا"}, {EN: "No bleach", AR: "بدون مبيض"}}
	submitted := []models.BilingualText{{EN: "Wash cold"}, {EN: "Dry flat"}, {EN: "Iron low"}}

	got := r.Items(ctx, submitted, existing)
	assert.Equal(t, []models.BilingualText{
		{EN: "Wash cold", AR: "اغسل باردا"},
		{EN: "Dry flat", AR: "ar:Dry flat"},
		{EN: "Iron low", AR: "ar:Iron low"},
	}, got)
	assert.Equal(t, []string{"Dry flat", "Iron low"}, tr.calls)

	tr.reset()
	dims := r.Dimensions(ctx,
		[]models.Dimension{{Size: "M", BilingualText: models.BilingualText{EN: "Chest 96"}}},
		[]models.Dimension{{Size: "S", BilingualText: models.BilingualText{EN: "Chest 96", AR: "الصدر 96"}}},
	)
	assert.Equal(t, []models.Dimension{{Size: "M", BilingualText: models.BilingualText{EN: "Chest 96", AR: "الصدر 96"}}}, dims)
	assert.Zero(t, tr.count())
}
