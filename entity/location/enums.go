package location

// LocationType General type of the charge point location.
type LocationType string

const (
	LocationOnStreet          LocationType = "ON_STREET"
	LocationParkingGarage     LocationType = "PARKING_GARAGE"
	LocationUndergroundGarage LocationType = "UNDERGROUND_GARAGE"
	LocationParkingLot        LocationType = "PARKING_LOT"
	LocationOther             LocationType = "OTHER"
	LocationUnknown           LocationType = "UNKNOWN"
)

// NormalizeLocationType Descriptive field: unknown wire values map to UNKNOWN.
func NormalizeLocationType(t LocationType) LocationType {
	switch t {
	case LocationOnStreet, LocationParkingGarage, LocationUndergroundGarage, LocationParkingLot, LocationOther:
		return t
	default:
		return LocationUnknown
	}
}

// Status of an EVSE.
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusBlocked     Status = "BLOCKED"
	StatusCharging    Status = "CHARGING"
	StatusInoperative Status = "INOPERATIVE"
	StatusOutOfOrder  Status = "OUTOFORDER"
	StatusPlanned     Status = "PLANNED"
	StatusRemoved     Status = "REMOVED"
	StatusReserved    Status = "RESERVED"
	StatusUnknown     Status = "UNKNOWN"
)

func IsValidStatus(s Status) bool {
	switch s {
	case StatusAvailable, StatusBlocked, StatusCharging, StatusInoperative,
		StatusOutOfOrder, StatusPlanned, StatusRemoved, StatusReserved, StatusUnknown:
		return true
	}
	return false
}

func NormalizeStatus(s Status) Status {
	if IsValidStatus(s) {
		return s
	}
	return StatusUnknown
}

// ConnectorType The socket or plug standard of a connector. Identity-critical:
// unknown wire values are rejected on parse and patch.
type ConnectorType string

const (
	Chademo            ConnectorType = "CHADEMO"
	DomesticA          ConnectorType = "DOMESTIC_A"
	DomesticB          ConnectorType = "DOMESTIC_B"
	DomesticC          ConnectorType = "DOMESTIC_C"
	DomesticD          ConnectorType = "DOMESTIC_D"
	DomesticE          ConnectorType = "DOMESTIC_E"
	DomesticF          ConnectorType = "DOMESTIC_F"
	DomesticG          ConnectorType = "DOMESTIC_G"
	DomesticH          ConnectorType = "DOMESTIC_H"
	DomesticI          ConnectorType = "DOMESTIC_I"
	DomesticJ          ConnectorType = "DOMESTIC_J"
	DomesticK          ConnectorType = "DOMESTIC_K"
	DomesticL          ConnectorType = "DOMESTIC_L"
	Iec603092Single16  ConnectorType = "IEC_60309_2_single_16"
	Iec603092Three16   ConnectorType = "IEC_60309_2_three_16"
	Iec603092Three32   ConnectorType = "IEC_60309_2_three_32"
	Iec603092Three64   ConnectorType = "IEC_60309_2_three_64"
	Iec62196T1         ConnectorType = "IEC_62196_T1"
	Iec62196T1Combo    ConnectorType = "IEC_62196_T1_COMBO"
	Iec62196T2         ConnectorType = "IEC_62196_T2"
	Iec62196T2Combo    ConnectorType = "IEC_62196_T2_COMBO"
	Iec62196T3A        ConnectorType = "IEC_62196_T3A"
	Iec62196T3C        ConnectorType = "IEC_62196_T3C"
	TeslaR             ConnectorType = "TESLA_R"
	TeslaS             ConnectorType = "TESLA_S"
)

func IsValidConnectorType(t ConnectorType) bool {
	switch t {
	case Chademo, DomesticA, DomesticB, DomesticC, DomesticD, DomesticE, DomesticF,
		DomesticG, DomesticH, DomesticI, DomesticJ, DomesticK, DomesticL,
		Iec603092Single16, Iec603092Three16, Iec603092Three32, Iec603092Three64,
		Iec62196T1, Iec62196T1Combo, Iec62196T2, Iec62196T2Combo,
		Iec62196T3A, Iec62196T3C, TeslaR, TeslaS:
		return true
	}
	return false
}

// ConnectorFormat Socket or attached cable.
type ConnectorFormat string

const (
	FormatSocket ConnectorFormat = "SOCKET"
	FormatCable  ConnectorFormat = "CABLE"
)

func IsValidConnectorFormat(f ConnectorFormat) bool {
	return f == FormatSocket || f == FormatCable
}

// PowerType Number of phases and current type.
type PowerType string

const (
	AC1Phase PowerType = "AC_1_PHASE"
	AC3Phase PowerType = "AC_3_PHASE"
	DC       PowerType = "DC"
)

func IsValidPowerType(p PowerType) bool {
	return p == AC1Phase || p == AC3Phase || p == DC
}

// Capability of an EVSE.
type Capability string

const (
	CapabilityChargingProfile   Capability = "CHARGING_PROFILE_CAPABLE"
	CapabilityCreditCardPayable Capability = "CREDIT_CARD_PAYABLE"
	CapabilityRemoteStartStop   Capability = "REMOTE_START_STOP_CAPABLE"
	CapabilityReservable        Capability = "RESERVABLE"
	CapabilityRfidReader        Capability = "RFID_READER"
	CapabilityUnlock            Capability = "UNLOCK_CAPABLE"
	CapabilityUnknown           Capability = "UNKNOWN"
)

func NormalizeCapability(c Capability) Capability {
	switch c {
	case CapabilityChargingProfile, CapabilityCreditCardPayable, CapabilityRemoteStartStop,
		CapabilityReservable, CapabilityRfidReader, CapabilityUnlock:
		return c
	default:
		return CapabilityUnknown
	}
}

// ParkingRestriction Who is allowed to park at the EVSE.
type ParkingRestriction string

const (
	ParkingEvOnly      ParkingRestriction = "EV_ONLY"
	ParkingPlugged     ParkingRestriction = "PLUGGED"
	ParkingDisabled    ParkingRestriction = "DISABLED"
	ParkingCustomers   ParkingRestriction = "CUSTOMERS"
	ParkingMotorcycles ParkingRestriction = "MOTORCYCLES"
)

// Facility close to the location.
type Facility string

const (
	FacilityHotel          Facility = "HOTEL"
	FacilityRestaurant     Facility = "RESTAURANT"
	FacilityCafe           Facility = "CAFE"
	FacilityMall           Facility = "MALL"
	FacilitySupermarket    Facility = "SUPERMARKET"
	FacilitySport          Facility = "SPORT"
	FacilityRecreationArea Facility = "RECREATION_AREA"
	FacilityNature         Facility = "NATURE"
	FacilityMuseum         Facility = "MUSEUM"
	FacilityBusStop        Facility = "BUS_STOP"
	FacilityTaxiStand      Facility = "TAXI_STAND"
	FacilityTrainStation   Facility = "TRAIN_STATION"
	FacilityAirport        Facility = "AIRPORT"
	FacilityCarpoolParking Facility = "CARPOOL_PARKING"
	FacilityFuelStation    Facility = "FUEL_STATION"
	FacilityWifi           Facility = "WIFI"
)
