package common

import "ocpinode/types"

// EnergyMeter Meter hardware attached to an EVSE or charging location, together
// with the status of transparency software able to validate its signed values.
// Owned by exactly one parent; copies are taken when composing records.
type EnergyMeter struct {
	Id                    string                        `json:"id" bson:"id" validate:"required,max=36"`
	Model                 string                        `json:"model,omitempty" bson:"model,omitempty"`
	ModelUrl              string                        `json:"model_url,omitempty" bson:"model_url,omitempty" validate:"omitempty,url"`
	HardwareVersion       string                        `json:"hardware_version,omitempty" bson:"hardware_version,omitempty"`
	FirmwareVersion       string                        `json:"firmware_version,omitempty" bson:"firmware_version,omitempty"`
	Manufacturer          string                        `json:"manufacturer,omitempty" bson:"manufacturer,omitempty"`
	ManufacturerUrl       string                        `json:"manufacturer_url,omitempty" bson:"manufacturer_url,omitempty" validate:"omitempty,url"`
	TransparencySoftwares []*TransparencySoftwareStatus `json:"transparency_softwares,omitempty" bson:"transparency_softwares,omitempty"`
	LastUpdated           *types.DateTime               `json:"last_updated,omitempty" bson:"last_updated,omitempty"`
}

func (m *EnergyMeter) Clone() *EnergyMeter {
	if m == nil {
		return nil
	}
	clone := *m
	if m.TransparencySoftwares != nil {
		clone.TransparencySoftwares = make([]*TransparencySoftwareStatus, len(m.TransparencySoftwares))
		for i, ts := range m.TransparencySoftwares {
			status := *ts
			clone.TransparencySoftwares[i] = &status
		}
	}
	return &clone
}

// LegalStatus of a transparency software with respect to a national calibration law.
type LegalStatus string

const (
	LegalStatusGranted     LegalStatus = "GRANTED"
	LegalStatusMatching    LegalStatus = "MATCHING"
	LegalStatusNotMatching LegalStatus = "NOT_MATCHING"
	LegalStatusRevoked     LegalStatus = "REVOKED"
	LegalStatusUnknown     LegalStatus = "UNKNOWN"
)

type TransparencySoftwareStatus struct {
	TransparencySoftware TransparencySoftware `json:"transparency_software" bson:"transparency_software" validate:"required"`
	LegalStatus          LegalStatus          `json:"legal_status" bson:"legal_status" validate:"required"`
	Certificate          string               `json:"certificate,omitempty" bson:"certificate,omitempty"`
	CertificateIssuer    string               `json:"certificate_issuer,omitempty" bson:"certificate_issuer,omitempty"`
	NotBefore            *types.DateTime      `json:"not_before,omitempty" bson:"not_before,omitempty"`
	NotAfter             *types.DateTime      `json:"not_after,omitempty" bson:"not_after,omitempty"`
}

type TransparencySoftware struct {
	Name              string `json:"name" bson:"name" validate:"required"`
	Version           string `json:"version" bson:"version" validate:"required"`
	OpenSourceLicense string `json:"open_source_license,omitempty" bson:"open_source_license,omitempty"`
	Vendor            string `json:"vendor,omitempty" bson:"vendor,omitempty"`
	SourceCodeUrl     string `json:"source_code_url,omitempty" bson:"source_code_url,omitempty" validate:"omitempty,url"`
}

// NormalizeLegalStatus maps unknown wire values to the UNKNOWN sentinel;
// the field is descriptive, not identity-critical.
func NormalizeLegalStatus(s LegalStatus) LegalStatus {
	switch s {
	case LegalStatusGranted, LegalStatusMatching, LegalStatusNotMatching, LegalStatusRevoked:
		return s
	default:
		return LegalStatusUnknown
	}
}
