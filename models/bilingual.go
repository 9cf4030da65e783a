package models

import "strings"

// BilingualText holds the same content in English and Arabic.
type BilingualText struct {
	EN string `bson:"en" json:"en"`
	AR string `bson:"ar" json:"ar"`
}

// Equal reports whether both language variants match.
func (b BilingualText) Equal(other BilingualText) bool {
	return b.EN == other.EN && b.AR == other.AR
}

// IsBlank reports whether the English variant is empty after trimming.
func (b BilingualText) IsBlank() bool {
	return strings.TrimSpace(b.EN) == ""
}

// Image is a reference to an object held by the image store.
type Image struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"public_id" json:"public_id"`
}

// Complete reports whether both the URL and the public id are set.
func (i Image) Complete() bool {
	return strings.TrimSpace(i.URL) != "" && strings.TrimSpace(i.PublicID) != ""
}
