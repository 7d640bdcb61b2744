package common

// BusinessDetails Name and web presence of a party, shown to end users.
type BusinessDetails struct {
	Name    string `json:"name" bson:"name" validate:"required,max=100"`
	Website string `json:"website,omitempty" bson:"website,omitempty" validate:"omitempty,url"`
	Logo    *Image `json:"logo,omitempty" bson:"logo,omitempty" validate:"omitempty"`
}

type Image struct {
	Url       string `json:"url" bson:"url" validate:"required,url"`
	Thumbnail string `json:"thumbnail,omitempty" bson:"thumbnail,omitempty" validate:"omitempty,url"`
	Category  string `json:"category" bson:"category" validate:"required"`
	Type      string `json:"type" bson:"type" validate:"required,max=4"`
	Width     int    `json:"width,omitempty" bson:"width,omitempty" validate:"omitempty,max=99999"`
	Height    int    `json:"height,omitempty" bson:"height,omitempty" validate:"omitempty,max=99999"`
}
