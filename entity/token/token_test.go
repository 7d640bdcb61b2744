package token

import (
	"testing"

	"ocpinode/types"
)

func testToken() *Token {
	updated, _ := types.ParseDateTime("2020-01-01T00:00:00Z")
	return &Token{
		CountryCode: "DE",
		PartyId:     "EXM",
		Uid:         "012345678",
		Type:        TypeRfid,
		AuthId:      "DE8ACC12E46L89",
		Issuer:      "Example Mobility",
		Valid:       true,
		Whitelist:   WhitelistAllowed,
		LastUpdated: updated,
	}
}

func TestParseNormalizesType(t *testing.T) {
	body := []byte(`{"uid":"012345678","type":"HOLOGRAM","auth_id":"A","issuer":"X","valid":true,` +
		`"whitelist":"ALWAYS","last_updated":"2020-01-01T00:00:00Z"}`)
	tok, err := Parse(body, "DE", "EXM")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if tok.Type != TypeOther {
		t.Errorf("unknown type must normalize to OTHER, got %s", tok.Type)
	}
}

func TestParseRejectsUnknownWhitelist(t *testing.T) {
	body := []byte(`{"uid":"012345678","type":"RFID","auth_id":"A","issuer":"X","valid":true,` +
		`"whitelist":"SOMETIMES","last_updated":"2020-01-01T00:00:00Z"}`)
	if _, err := Parse(body, "DE", "EXM"); err == nil {
		t.Error("unknown whitelist type must be rejected")
	}
}

func TestTokenPatchUidRejected(t *testing.T) {
	tok := testToken()
	result := tok.Patch([]byte(`{"uid":"999"}`))
	if result.ErrorResponse != "Patching the 'unique identification' of a token is not allowed!" {
		t.Errorf("unexpected response %q", result.ErrorResponse)
	}
}

func TestTokenPatchInvalidWhitelist(t *testing.T) {
	tok := testToken()
	result := tok.Patch([]byte(`{"whitelist":"SOMETIMES"}`))
	if result.ErrorResponse != "Invalid 'whitelist type'!" {
		t.Errorf("unexpected response %q", result.ErrorResponse)
	}
}

func TestTokenPatchInvalidation(t *testing.T) {
	tok := testToken()
	result := tok.Patch([]byte(`{"valid":false,"whitelist":"NEVER"}`))
	if result.IsFailed() {
		t.Fatalf("unexpected failure: %s", result.ErrorResponse)
	}
	if result.PatchedData.Valid {
		t.Error("valid flag not patched")
	}
	if result.PatchedData.Whitelist != WhitelistNever {
		t.Errorf("whitelist not patched: %s", result.PatchedData.Whitelist)
	}
	if !tok.Valid {
		t.Error("the original must never be mutated")
	}
}
