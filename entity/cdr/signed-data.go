package cdr

// SignedData Metering values signed by the EVSE meter according to a
// transparency scheme, carried unaltered so an EMSP can verify them.
type SignedData struct {
	EncodingMethod        string         `json:"encoding_method" bson:"encoding_method"`
	EncodingMethodVersion int            `json:"encoding_method_version,omitempty" bson:"encoding_method_version,omitempty"`
	PublicKey             string         `json:"public_key,omitempty" bson:"public_key,omitempty"`
	SignedValues          []*SignedValue `json:"signed_values" bson:"signed_values"`
	Url                   string         `json:"url,omitempty" bson:"url,omitempty"`
}

type SignedValue struct {
	Nature     string `json:"nature" bson:"nature"`
	PlainData  string `json:"plain_data" bson:"plain_data"`
	SignedData string `json:"signed_data" bson:"signed_data"`
}
