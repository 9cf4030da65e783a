package dto

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hazratullahh/eceomerce-jawad/models"
)

// BilingualDTO is a bilingual field whose English text is mandatory.
type BilingualDTO struct {
	EN string `json:"en" binding:"required"`
	AR string `json:"ar"`
}

func (b BilingualDTO) Model() models.BilingualText {
	return models.BilingualText{EN: b.EN, AR: b.AR}
}

// OptionalBilingualDTO is a bilingual field that may be left blank.
// A blank en clears the stored value.
type OptionalBilingualDTO struct {
	EN string `json:"en"`
	AR string `json:"ar"`
}

func (b *OptionalBilingualDTO) Model() *models.BilingualText {
	if b == nil {
		return nil
	}
	return &models.BilingualText{EN: b.EN, AR: b.AR}
}

type ImageDTO struct {
	URL      string `json:"url" binding:"required"`
	PublicID string `json:"public_id" binding:"required"`
}

func (i ImageDTO) Model() models.Image {
	return models.Image{URL: strings.TrimSpace(i.URL), PublicID: strings.TrimSpace(i.PublicID)}
}

func ImagesModel(in []ImageDTO) []models.Image {
	if in == nil {
		return nil
	}
	out := make([]models.Image, 0, len(in))
	for _, img := range in {
		out = append(out, img.Model())
	}
	return out
}

func BilingualList(in []BilingualDTO) []models.BilingualText {
	if in == nil {
		return nil
	}
	out := make([]models.BilingualText, 0, len(in))
	for _, b := range in {
		out = append(out, b.Model())
	}
	return out
}

// NullableID distinguishes an absent JSON id from an explicit null.
//
//	absent        -> Set == false
//	null or ""    -> Set == true, Value == ""
//	"<hex>"       -> Set == true, Value == "<hex>"
type NullableID struct {
	Set   bool
	Value string
}

func (n *NullableID) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("id must be a string or null")
	}
	n.Value = strings.TrimSpace(s)
	return nil
}

func (n NullableID) MarshalJSON() ([]byte, error) {
	if !n.Set || n.Value == "" {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Cleared reports whether the id was explicitly emptied.
func (n NullableID) Cleared() bool {
	return n.Set && n.Value == ""
}
