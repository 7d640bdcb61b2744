package cdr

import (
	"testing"

	"ocpinode/entity/common"
	"ocpinode/entity/location"
	"ocpinode/entity/session"
	"ocpinode/entity/tariff"
	"ocpinode/types"

	"github.com/shopspring/decimal"
)

func testCdr() *Cdr {
	started, _ := types.ParseDateTime("2020-06-01T10:00:00Z")
	stopped, _ := types.ParseDateTime("2020-06-01T11:00:00Z")
	return &Cdr{
		CountryCode:   "DE",
		PartyId:       "EXC",
		Id:            "CDR1",
		StartDateTime: started,
		StopDateTime:  stopped,
		SessionId:     "S1",
		AuthId:        "DE8ACC12E46L89",
		AuthMethod:    session.AuthMethodWhitelist,
		Location: &location.Location{
			CountryCode: "DE",
			PartyId:     "EXC",
			Id:          "LOC1",
			Address:     "Musterstrasse 1",
			City:        "Berlin",
			Country:     "DEU",
			Coordinates: &common.GeoLocation{Latitude: "52.5", Longitude: "13.4"},
			LastUpdated: started,
		},
		Currency: "EUR",
		ChargingPeriods: []*common.ChargingPeriod{
			{StartDateTime: started, Dimensions: []*common.CdrDimension{
				{Type: common.DimensionEnergy, Volume: decimal.RequireFromString("6.25")},
			}},
			{StartDateTime: stopped, Dimensions: []*common.CdrDimension{
				{Type: common.DimensionEnergy, Volume: decimal.RequireFromString("1.75")},
				{Type: common.DimensionParkingTime, Volume: decimal.RequireFromString("0.25")},
			}},
		},
		TotalCost:   decimal.RequireFromString("3.20"),
		TotalEnergy: decimal.RequireFromString("8"),
		TotalTime:   decimal.RequireFromString("1"),
		LastUpdated: stopped,
	}
}

func TestParseRoundTrip(t *testing.T) {
	data, err := testCdr().Serialize()
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}
	record, err := Parse(data, "", "")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if record.Id != "CDR1" || record.Location.Id != "LOC1" {
		t.Error("round trip lost fields")
	}
}

func TestParseRejectsMissingPeriods(t *testing.T) {
	record := testCdr()
	record.ChargingPeriods = nil
	data, _ := record.Serialize()
	if _, err := Parse(data, "DE", "EXC"); err == nil {
		t.Error("a CDR without charging periods must be rejected")
	}
}

func TestMeteredEnergySumsPeriods(t *testing.T) {
	metered := testCdr().MeteredEnergy()
	if !metered.Equal(decimal.RequireFromString("8")) {
		t.Errorf("unexpected metered energy: %s", metered.String())
	}
}

func TestEnergyConsistent(t *testing.T) {
	record := testCdr()
	if !record.EnergyConsistent() {
		t.Error("totals matching the metered sum must be consistent")
	}
	record.TotalEnergy = decimal.RequireFromString("8.01")
	if record.EnergyConsistent() {
		t.Error("a mismatching total must be inconsistent")
	}
}

func TestAttachTariffsSnapshots(t *testing.T) {
	record := testCdr()
	updated, _ := types.ParseDateTime("2020-01-01T00:00:00Z")
	trf := &tariff.Tariff{
		CountryCode: "DE",
		PartyId:     "EXC",
		Id:          "T1",
		Currency:    "EUR",
		Elements: []*tariff.Element{
			{PriceComponents: []*tariff.PriceComponent{
				{Type: tariff.Energy, Price: decimal.RequireFromString("0.30"), StepSize: 1},
			}},
		},
		LastUpdated: updated,
	}
	record.AttachTariffs([]*tariff.Tariff{trf})

	// a later change to the source tariff must not reach the billed record
	trf.Elements[0].PriceComponents[0].Price = decimal.RequireFromString("9.99")
	attached := record.Tariffs[0].Elements[0].PriceComponents[0].Price
	if !attached.Equal(decimal.RequireFromString("0.30")) {
		t.Errorf("billed tariff changed after the fact: %s", attached.String())
	}
}

func TestCdrPatchIdentityRejected(t *testing.T) {
	record := testCdr()
	result := record.Patch([]byte(`{"id":"CDR2"}`))
	if result.ErrorResponse != "Patching the 'identification' of a charge detail record is not allowed!" {
		t.Errorf("unexpected response %q", result.ErrorResponse)
	}
}

func TestCdrPatchRemarkAllowed(t *testing.T) {
	record := testCdr()
	result := record.Patch([]byte(`{"remark":"manual correction"}`))
	if result.IsFailed() {
		t.Fatalf("unexpected failure: %s", result.ErrorResponse)
	}
	if result.PatchedData.Remark != "manual correction" {
		t.Errorf("remark not patched: %s", result.PatchedData.Remark)
	}
	if !result.PatchedData.TotalCost.Equal(decimal.RequireFromString("3.20")) {
		t.Error("decimal totals must survive the merge untouched")
	}
}
