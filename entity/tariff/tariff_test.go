package tariff

import (
	"testing"

	"ocpinode/types"

	"github.com/shopspring/decimal"
)

func testTariff() *Tariff {
	updated, _ := types.ParseDateTime("2020-01-01T00:00:00Z")
	return &Tariff{
		CountryCode: "DE",
		PartyId:     "EXC",
		Id:          "T1",
		Currency:    "EUR",
		Elements: []*Element{
			{PriceComponents: []*PriceComponent{
				{Type: Energy, Price: decimal.RequireFromString("0.30"), StepSize: 1},
				{Type: Flat, Price: decimal.RequireFromString("0.50"), StepSize: 1},
			}},
			{PriceComponents: []*PriceComponent{
				{Type: Energy, Price: decimal.RequireFromString("0.05"), StepSize: 1},
			}},
		},
		LastUpdated: updated,
	}
}

func TestPricePerKwhSumsEnergyComponents(t *testing.T) {
	total := testTariff().PricePerKwh()
	if !total.Equal(decimal.RequireFromString("0.35")) {
		t.Errorf("unexpected energy price: %s", total.String())
	}
}

func TestParseFillsIdentityFromContext(t *testing.T) {
	body := []byte(`{"id":"T1","currency":"EUR","elements":[{"price_components":[{"type":"ENERGY","price":0.3,"step_size":1}]}],"last_updated":"2020-01-01T00:00:00Z"}`)
	trf, err := Parse(body, "DE", "EXC")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if trf.CountryCode != "DE" || trf.PartyId != "EXC" {
		t.Errorf("context keys not applied: %s %s", trf.CountryCode, trf.PartyId)
	}
}

func TestParseRejectsBadCurrency(t *testing.T) {
	body := []byte(`{"id":"T1","currency":"EURO","elements":[{"price_components":[{"type":"ENERGY","price":0.3,"step_size":1}]}],"last_updated":"2020-01-01T00:00:00Z"}`)
	if _, err := Parse(body, "DE", "EXC"); err == nil {
		t.Error("four letter currency must be rejected")
	}
}

func TestParseRejectsUnknownComponentType(t *testing.T) {
	body := []byte(`{"id":"T1","currency":"EUR","elements":[{"price_components":[{"type":"GOLD","price":1,"step_size":1}]}],"last_updated":"2020-01-01T00:00:00Z"}`)
	if _, err := Parse(body, "DE", "EXC"); err == nil {
		t.Error("unknown price component type must be rejected")
	}
}

func TestCloneIsolatesComponents(t *testing.T) {
	original := testTariff()
	clone := original.Clone()
	clone.Elements[0].PriceComponents[0].Price = decimal.RequireFromString("9.99")
	if !original.Elements[0].PriceComponents[0].Price.Equal(decimal.RequireFromString("0.30")) {
		t.Error("mutating the clone must not touch the original")
	}
}

func TestTariffPatchIdentityRejected(t *testing.T) {
	trf := testTariff()
	result := trf.Patch([]byte(`{"id":"T2"}`))
	if result.ErrorResponse != "Patching the 'identification' of a tariff is not allowed!" {
		t.Errorf("unexpected response %q", result.ErrorResponse)
	}
}

func TestTariffPatchInvalidCurrency(t *testing.T) {
	trf := testTariff()
	result := trf.Patch([]byte(`{"currency":"EURO"}`))
	if result.ErrorResponse != "Invalid 'currency'!" {
		t.Errorf("unexpected response %q", result.ErrorResponse)
	}
}

func TestTariffPatchCurrencyAllowed(t *testing.T) {
	trf := testTariff()
	result := trf.Patch([]byte(`{"currency":"CHF"}`))
	if result.IsFailed() {
		t.Fatalf("unexpected failure: %s", result.ErrorResponse)
	}
	if result.PatchedData.Currency != "CHF" {
		t.Errorf("currency not patched: %s", result.PatchedData.Currency)
	}
	if !result.PatchedData.PricePerKwh().Equal(decimal.RequireFromString("0.35")) {
		t.Error("decimal prices must survive the merge untouched")
	}
}
