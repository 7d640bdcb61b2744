package location

import (
	"testing"

	"ocpinode/entity/common"
	"ocpinode/types"
)

func testEvse() *Evse {
	updated, _ := types.ParseDateTime("2020-01-01T00:00:00Z")
	return &Evse{
		UId:         "E1",
		EvseId:      "DE*EXC*E1",
		Status:      StatusAvailable,
		Connectors:  []*Connector{testConnector()},
		LastUpdated: updated,
	}
}

func testLocation() *Location {
	updated, _ := types.ParseDateTime("2020-01-01T00:00:00Z")
	return &Location{
		CountryCode: "DE",
		PartyId:     "EXC",
		Id:          "LOC1",
		Publish:     true,
		Address:     "Musterstrasse 1",
		City:        "Berlin",
		Country:     "DEU",
		Coordinates: &common.GeoLocation{Latitude: "52.520008", Longitude: "13.404954"},
		Evses:       []*Evse{testEvse()},
		LastUpdated: updated,
	}
}

func TestParseFillsIdentityFromContext(t *testing.T) {
	body := []byte(`{"id":"LOC1","publish":true,"address":"Musterstrasse 1","city":"Berlin","country":"DEU",` +
		`"coordinates":{"latitude":"52.520008","longitude":"13.404954"},"last_updated":"2020-01-01T00:00:00Z"}`)
	loc, err := Parse(body, "DE", "EXC")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if loc.CountryCode != "DE" || loc.PartyId != "EXC" {
		t.Errorf("context keys not applied: %s %s", loc.CountryCode, loc.PartyId)
	}
}

func TestParseBodyIdentityWins(t *testing.T) {
	body := []byte(`{"country_code":"NL","party_id":"OTH","id":"LOC1","publish":true,"address":"A 1","city":"B",` +
		`"country":"NLD","coordinates":{"latitude":"1","longitude":"2"},"last_updated":"2020-01-01T00:00:00Z"}`)
	loc, err := Parse(body, "DE", "EXC")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if loc.CountryCode != "NL" || loc.PartyId != "OTH" {
		t.Errorf("body identity must win over context: %s %s", loc.CountryCode, loc.PartyId)
	}
}

func TestParseRejectsMissingCoordinates(t *testing.T) {
	body := []byte(`{"id":"LOC1","address":"A 1","city":"B","country":"DEU","last_updated":"2020-01-01T00:00:00Z"}`)
	if _, err := Parse(body, "DE", "EXC"); err == nil {
		t.Error("missing coordinates must be rejected")
	}
}

func TestLocationRoundTrip(t *testing.T) {
	original := testLocation()
	data, err := original.Serialize()
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}
	parsed, err := Parse(data, "", "")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	again, err := parsed.Serialize()
	if err != nil {
		t.Fatalf("second serialize failed: %v", err)
	}
	if string(data) != string(again) {
		t.Errorf("round trip changed the wire form:\n%s\n%s", data, again)
	}
}

func TestReplaceEvseLiftsLastUpdated(t *testing.T) {
	loc := testLocation()
	evse := testEvse()
	newer, _ := types.ParseDateTime("2021-06-01T00:00:00Z")
	evse.Status = StatusCharging
	evse.LastUpdated = newer
	loc.ReplaceEvse(evse)
	if len(loc.Evses) != 1 {
		t.Fatalf("expected replacement, got %d evses", len(loc.Evses))
	}
	if loc.Evses[0].Status != StatusCharging {
		t.Error("EVSE was not replaced")
	}
	if !loc.LastUpdated.Equal(newer) {
		t.Errorf("location last_updated must lift: %s", loc.LastUpdated.String())
	}
}

func TestReplaceEvseAppendsUnknownUid(t *testing.T) {
	loc := testLocation()
	evse := testEvse()
	evse.UId = "E2"
	loc.ReplaceEvse(evse)
	if len(loc.Evses) != 2 {
		t.Fatalf("expected append, got %d evses", len(loc.Evses))
	}
	if loc.GetEvse("E2") == nil {
		t.Error("appended EVSE not found")
	}
}

func TestReplaceConnectorLiftsLastUpdated(t *testing.T) {
	evse := testEvse()
	connector := testConnector()
	newer, _ := types.ParseDateTime("2021-06-01T00:00:00Z")
	connector.Voltage = 230
	connector.LastUpdated = newer
	evse.ReplaceConnector(connector)
	if len(evse.Connectors) != 1 {
		t.Fatalf("expected replacement, got %d connectors", len(evse.Connectors))
	}
	if evse.Connectors[0].Voltage != 230 {
		t.Error("connector was not replaced")
	}
	if !evse.LastUpdated.Equal(newer) {
		t.Errorf("EVSE last_updated must lift: %s", evse.LastUpdated.String())
	}
}

func TestLocationPatchNameAllowed(t *testing.T) {
	loc := testLocation()
	result := loc.Patch([]byte(`{"name":"Hauptbahnhof"}`))
	if result.IsFailed() {
		t.Fatalf("unexpected failure: %s", result.ErrorResponse)
	}
	if result.PatchedData.Name != "Hauptbahnhof" {
		t.Errorf("name not patched: %s", result.PatchedData.Name)
	}
}

func TestLocationPatchIdentityRejected(t *testing.T) {
	loc := testLocation()
	cases := map[string]string{
		`{"country_code":"NL"}`: "Patching the 'country code' of a location is not allowed!",
		`{"party_id":"OTH"}`:    "Patching the 'party identification' of a location is not allowed!",
		`{"id":"LOC2"}`:         "Patching the 'identification' of a location is not allowed!",
	}
	for body, want := range cases {
		result := loc.Patch([]byte(body))
		if result.ErrorResponse != want {
			t.Errorf("%s: got %q, want %q", body, result.ErrorResponse, want)
		}
	}
}

func TestLocationPatchEvsesRejected(t *testing.T) {
	loc := testLocation()
	result := loc.Patch([]byte(`{"evses":[]}`))
	if result.ErrorResponse != "Patching the 'evses' of a location is not allowed!" {
		t.Errorf("unexpected response %q", result.ErrorResponse)
	}
	if len(result.PatchedData.Evses) != 1 {
		t.Error("failure must return the original state")
	}
}

func TestEvsePatchUidRejected(t *testing.T) {
	evse := testEvse()
	result := evse.Patch([]byte(`{"uid":"E2"}`))
	if result.ErrorResponse != "Patching the 'unique identification' of an EVSE is not allowed!" {
		t.Errorf("unexpected response %q", result.ErrorResponse)
	}
}

func TestEvsePatchInvalidStatus(t *testing.T) {
	evse := testEvse()
	result := evse.Patch([]byte(`{"status":"MELTED"}`))
	if result.ErrorResponse != "Invalid 'EVSE status'!" {
		t.Errorf("unexpected response %q", result.ErrorResponse)
	}
}

func TestEvsePatchStatusAllowed(t *testing.T) {
	evse := testEvse()
	result := evse.Patch([]byte(`{"status":"CHARGING"}`))
	if result.IsFailed() {
		t.Fatalf("unexpected failure: %s", result.ErrorResponse)
	}
	if result.PatchedData.Status != StatusCharging {
		t.Errorf("status not patched: %s", result.PatchedData.Status)
	}
}

func TestLocationViewForResolvesNestedTariffs(t *testing.T) {
	loc := testLocation()
	loc.Evses[0].Connectors[0].EmspTariffIds = map[string]string{"DE-EXM": "T-EXM"}

	view := loc.ViewFor("DE-EXM")
	if got := view.GetEvse("E1").GetConnector("1").TariffId; got != "T-EXM" {
		t.Errorf("per-EMSP tariff must resolve at location depth, got %q", got)
	}
	if loc.Evses[0].Connectors[0].TariffId != "T-STD" {
		t.Error("the view must not mutate the stored location")
	}

	other := loc.ViewFor("NL-OTH")
	if got := other.GetEvse("E1").GetConnector("1").TariffId; got != "T-STD" {
		t.Errorf("unknown EMSP falls back to the default, got %q", got)
	}
}

func TestEvseViewForResolvesConnectorTariffs(t *testing.T) {
	evse := testEvse()
	evse.Connectors[0].EmspTariffIds = map[string]string{"DE-EXM": "T-EXM"}

	view := evse.ViewFor("DE-EXM")
	if got := view.GetConnector("1").TariffId; got != "T-EXM" {
		t.Errorf("per-EMSP tariff must resolve at EVSE depth, got %q", got)
	}
	if evse.Connectors[0].TariffId != "T-STD" {
		t.Error("the view must not mutate the stored EVSE")
	}
}

func TestEvseValidateNormalizesDescriptiveEnums(t *testing.T) {
	evse := testEvse()
	evse.Status = Status("GLOWING")
	evse.Capabilities = []Capability{Capability("TELEPORT")}
	if err := evse.Validate(); err != nil {
		t.Fatalf("descriptive enums must not fail validation: %v", err)
	}
	if evse.Status != StatusUnknown {
		t.Errorf("status not normalized: %s", evse.Status)
	}
	if evse.Capabilities[0] != CapabilityUnknown {
		t.Errorf("capability not normalized: %s", evse.Capabilities[0])
	}
}
