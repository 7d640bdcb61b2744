package session

import (
	"testing"

	"ocpinode/entity/common"
	"ocpinode/types"

	"github.com/shopspring/decimal"
)

func testSession() *Session {
	started, _ := types.ParseDateTime("2020-06-01T10:00:00Z")
	updated, _ := types.ParseDateTime("2020-06-01T10:30:00Z")
	return &Session{
		CountryCode:   "DE",
		PartyId:       "EXC",
		Id:            "S1",
		StartDateTime: started,
		Kwh:           decimal.RequireFromString("7.5"),
		AuthId:        "DE8ACC12E46L89",
		AuthMethod:    AuthMethodWhitelist,
		LocationId:    "LOC1",
		Currency:      "EUR",
		ChargingPeriods: []*common.ChargingPeriod{
			{StartDateTime: started, Dimensions: []*common.CdrDimension{
				{Type: common.DimensionEnergy, Volume: decimal.RequireFromString("5.0")},
				{Type: common.DimensionTime, Volume: decimal.RequireFromString("0.5")},
			}},
			{StartDateTime: updated, Dimensions: []*common.CdrDimension{
				{Type: common.DimensionEnergy, Volume: decimal.RequireFromString("2.5")},
			}},
		},
		Status:      StatusActive,
		LastUpdated: updated,
	}
}

func TestParseFillsIdentityFromContext(t *testing.T) {
	data, err := testSession().Serialize()
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}
	ses, err := Parse(data, "NL", "OTH")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if ses.CountryCode != "DE" || ses.PartyId != "EXC" {
		t.Error("body identity must win over context")
	}
}

func TestParseRejectsUnknownStatus(t *testing.T) {
	body := []byte(`{"id":"S1","start_date_time":"2020-06-01T10:00:00Z","kwh":0,"auth_id":"A","auth_method":"WHITELIST",` +
		`"location_id":"LOC1","currency":"EUR","status":"PAUSED","last_updated":"2020-06-01T10:30:00Z"}`)
	if _, err := Parse(body, "DE", "EXC"); err == nil {
		t.Error("unknown session status must be rejected")
	}
}

func TestTotalEnergySumsPeriods(t *testing.T) {
	total := testSession().TotalEnergy()
	if !total.Equal(decimal.RequireFromString("7.5")) {
		t.Errorf("unexpected total energy: %s", total.String())
	}
}

func TestSessionPatchIdentityRejected(t *testing.T) {
	ses := testSession()
	result := ses.Patch([]byte(`{"id":"S2"}`))
	if result.ErrorResponse != "Patching the 'identification' of a session is not allowed!" {
		t.Errorf("unexpected response %q", result.ErrorResponse)
	}
}

func TestSessionPatchInvalidStatus(t *testing.T) {
	ses := testSession()
	result := ses.Patch([]byte(`{"status":"PAUSED"}`))
	if result.ErrorResponse != "Invalid 'session status'!" {
		t.Errorf("unexpected response %q", result.ErrorResponse)
	}
}

func TestSessionPatchInvalidAuthMethod(t *testing.T) {
	ses := testSession()
	result := ses.Patch([]byte(`{"auth_method":"TELEPATHY"}`))
	if result.ErrorResponse != "Invalid 'auth method'!" {
		t.Errorf("unexpected response %q", result.ErrorResponse)
	}
}

func TestSessionPatchCompletion(t *testing.T) {
	ses := testSession()
	result := ses.Patch([]byte(`{"status":"COMPLETED","end_date_time":"2020-06-01T11:00:00Z","kwh":9.1}`))
	if result.IsFailed() {
		t.Fatalf("unexpected failure: %s", result.ErrorResponse)
	}
	next := result.PatchedData
	if next.Status != StatusCompleted {
		t.Errorf("status not patched: %s", next.Status)
	}
	if next.EndDateTime == nil || next.EndDateTime.String() != "2020-06-01T11:00:00.000Z" {
		t.Error("end_date_time not patched")
	}
	if !next.Kwh.Equal(decimal.RequireFromString("9.1")) {
		t.Errorf("kwh not patched: %s", next.Kwh.String())
	}
	if ses.Status != StatusActive {
		t.Error("the original must never be mutated")
	}
}
