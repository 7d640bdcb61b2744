package common

// GeoLocation Latitude and longitude of a location, in decimal degree notation.
// Transferred as strings to keep the exact precision the owning party supplied.
type GeoLocation struct {
	Latitude  string `json:"latitude" bson:"latitude" validate:"required,max=10"`
	Longitude string `json:"longitude" bson:"longitude" validate:"required,max=11"`
}

func (g *GeoLocation) IsSet() bool {
	return g != nil && g.Latitude != "" && g.Longitude != ""
}
