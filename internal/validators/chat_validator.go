package validators

import (
	"path/filepath"
	"strings"

	"clientdesk/internal/errs"
	"clientdesk/internal/models"
)

func ValidateMessageRequest(request *models.MessageRequest) error {
	if request == nil || request.RecipientID == 0 {
		return errs.ErrInvalidRequestBody
	}
	if strings.TrimSpace(request.Content) == "" {
		return errs.ErrEmptyMessage
	}
	return nil
}

// ValidateUpload enforces the attachment rules in order: size first, then the
// case-insensitive extension allow-list.
func ValidateUpload(upload *models.FileUpload, maxBytes int64, allowedExtensions []string) error {
	if upload == nil || upload.OriginalName == "" {
		return errs.ErrNoFileUploaded
	}
	if upload.SizeBytes > maxBytes {
		return errs.ErrFileTooLarge
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(upload.OriginalName), "."))
	for _, allowed := range allowedExtensions {
		if extension == strings.ToLower(allowed) {
			return nil
		}
	}
	return errs.ErrUnsupportedFileType
}
