package models

// UploadResult is returned after a successful image upload
type UploadResult struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"image_url"`
	Filename string `json:"filename"`
}
