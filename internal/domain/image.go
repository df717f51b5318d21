package domain

// UploadedImage is the result of storing one image.
type UploadedImage struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}
