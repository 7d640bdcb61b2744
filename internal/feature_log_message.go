package internal

import "time"

const FeatureLogMessageType = "FeatureLogMessage"

// FeatureLogMessage One audit line: which OCPI module produced it and which
// counterparty it concerns.
type FeatureLogMessage struct {
	Time       string    `json:"time" bson:"time"`
	TimeStamp  time.Time `json:"timestamp" bson:"timestamp"`
	Importance string    `json:"importance,omitempty" bson:"importance,omitempty"`
	Text       string    `json:"text" bson:"text"`
	Feature    string    `json:"feature" bson:"feature"`
	PartyId    string    `json:"party_id" bson:"party_id"`
}

func (m *FeatureLogMessage) DataType() string {
	return FeatureLogMessageType
}

func (m *FeatureLogMessage) MessageType() string {
	return FeatureLogMessageType
}
