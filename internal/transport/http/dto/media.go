package dto

type UploadResponse struct {
	Message          string `json:"message"`
	FilePath         string `json:"file_path"`
	OriginalFilename string `json:"original_filename"`
}
