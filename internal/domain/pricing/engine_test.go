//go:build unit

package pricing_test

import (
	"testing"

	"servicebay/internal/domain/pricing"
	"servicebay/internal/pkg/errs"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(m pricing.Money) *pricing.Money { return &m }

func liters(t *testing.T, v float64) pricing.Liters {
	t.Helper()
	l, err := pricing.LitersFromFloat(v)
	require.NoError(t, err)
	return l
}

func TestPrice(t *testing.T) {
	t.Run("25 liters of PETROL_92 at NORMAL urgency", func(t *testing.T) {
		q, err := pricing.Price(pricing.Request{
			Kind:     pricing.KindFuel,
			FuelType: pricing.FuelPetrol92,
			Liters:   liters(t, 25),
			Urgency:  pricing.UrgencyNormal,
		})
		require.NoError(t, err)

		want := pricing.Quote{Base: 747500, Subtotal: 747500, Tax: 112125, Total: 859625}
		if diff := cmp.Diff(want, q); diff != "" {
			t.Errorf("quote mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, "7475.00", q.Subtotal.String())
		assert.Equal(t, "1121.25", q.Tax.String())
		assert.Equal(t, "8596.25", q.Total.String())
	})

	cases := []struct {
		name string
		req  pricing.Request
		want pricing.Quote
	}{
		{
			name: "PETROL_95 urgent surcharge",
			req:  pricing.Request{Kind: pricing.KindFuel, FuelType: pricing.FuelPetrol95, Liters: 10000, Urgency: pricing.UrgencyUrgent},
			want: pricing.Quote{Base: 361000, Subtotal: 469300, Tax: 70395, Total: 539695},
		},
		{
			name: "AUTO_DIESEL low discount with milliliter precision",
			req:  pricing.Request{Kind: pricing.KindFuel, FuelType: pricing.FuelAutoDiesel, Liters: 1001, Urgency: pricing.UrgencyLow},
			want: pricing.Quote{Base: 28328, Subtotal: 25495, Tax: 3825, Total: 29320},
		},
		{
			name: "SUPER_DIESEL high",
			req:  pricing.Request{Kind: pricing.KindFuel, FuelType: pricing.FuelSuperDiesel, Liters: 2000, Urgency: pricing.UrgencyHigh},
			want: pricing.Quote{Base: 62600, Subtotal: 75120, Tax: 11268, Total: 86388},
		},
		{
			name: "service high",
			req:  pricing.Request{Kind: pricing.KindService, ServicePrice: money(10000), Urgency: pricing.UrgencyHigh},
			want: pricing.Quote{Base: 10000, Subtotal: 12000, Tax: 1800, Total: 13800},
		},
		{
			name: "total half cent rounds up",
			req:  pricing.Request{Kind: pricing.KindService, ServicePrice: money(30), Urgency: pricing.UrgencyNormal},
			want: pricing.Quote{Base: 30, Subtotal: 30, Tax: 5, Total: 35},
		},
		{
			name: "free service",
			req:  pricing.Request{Kind: pricing.KindService, ServicePrice: money(0), Urgency: pricing.UrgencyUrgent},
			want: pricing.Quote{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := pricing.Price(tc.req)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, q); diff != "" {
				t.Errorf("quote mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, q.Total, q.Subtotal+q.Tax)
		})
	}

	t.Run("invalid input", func(t *testing.T) {
		invalid := []struct {
			name  string
			req   pricing.Request
			field string
		}{
			{"zero liters", pricing.Request{Kind: pricing.KindFuel, FuelType: pricing.FuelPetrol92, Urgency: pricing.UrgencyNormal}, "litersRequested"},
			{"unknown fuel", pricing.Request{Kind: pricing.KindFuel, FuelType: "KEROSENE", Liters: 1000, Urgency: pricing.UrgencyNormal}, "fuelType"},
			{"missing service price", pricing.Request{Kind: pricing.KindService, Urgency: pricing.UrgencyNormal}, "serviceTypeId"},
			{"negative service price", pricing.Request{Kind: pricing.KindService, ServicePrice: money(-1), Urgency: pricing.UrgencyNormal}, "serviceTypeId"},
			{"unknown urgency", pricing.Request{Kind: pricing.KindService, ServicePrice: money(100), Urgency: "ASAP"}, "urgency"},
			{"unknown kind", pricing.Request{Kind: "WASH", Urgency: pricing.UrgencyNormal}, "kind"},
		}
		for _, tc := range invalid {
			t.Run(tc.name, func(t *testing.T) {
				_, err := pricing.Price(tc.req)
				require.Error(t, err)
				assert.ErrorIs(t, err, errs.ErrValidation)
				var ve *errs.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tc.field, ve.Field)
			})
		}
	})
}

func TestLitersFromFloat(t *testing.T) {
	l, err := pricing.LitersFromFloat(12.345)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), l.Milliliters())

	for _, v := range []float64{0, -1, 1.2345, 10000.001} {
		_, err := pricing.LitersFromFloat(v)
		assert.ErrorIs(t, err, errs.ErrValidation, "value %v", v)
	}
}

func TestMoneyFromFloat(t *testing.T) {
	m, err := pricing.MoneyFromFloat("amount", 8596.25)
	require.NoError(t, err)
	assert.Equal(t, pricing.Money(859625), m)

	for _, v := range []float64{0, -5, 10.001} {
		_, err := pricing.MoneyFromFloat("amount", v)
		assert.ErrorIs(t, err, errs.ErrValidation, "value %v", v)
	}
}
