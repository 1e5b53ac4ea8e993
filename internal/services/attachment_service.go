package services

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"clientdesk/internal/enums"
	"clientdesk/internal/errs"
	"clientdesk/internal/interfaces"
	"clientdesk/internal/models"
	"clientdesk/internal/validators"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

type AttachmentService struct {
	chatService       *ChatService
	fileManager       interfaces.FileManager
	maxBytes          int64
	allowedExtensions []string
}

func NewAttachmentService(
	chatService *ChatService,
	fileManager interfaces.FileManager,
	maxBytes int64,
	allowedExtensions []string,
) *AttachmentService {
	return &AttachmentService{
		chatService:       chatService,
		fileManager:       fileManager,
		maxBytes:          maxBytes,
		allowedExtensions: allowedExtensions,
	}
}

// Upload validates the file (size, then extension, then recipient), stores
// the bytes under an opaque generated name and appends the resulting
// attachment message to the conversation. The original filename is kept only
// as display metadata, never as a storage path.
func (as *AttachmentService) Upload(principal models.Principal, recipientID uint, upload models.FileUpload, caption string) (*models.ChatMessage, error) {
	if err := validators.ValidateUpload(&upload, as.maxBytes, as.allowedExtensions); err != nil {
		return nil, err
	}

	resolvedRecipient, err := as.chatService.ResolveRecipient(principal, recipientID)
	if err != nil {
		return nil, err
	}

	kind := as.classify(&upload)

	objectName := uuid.NewString() + strings.ToLower(filepath.Ext(upload.OriginalName))
	contentType := upload.DeclaredMime
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := as.fileManager.UploadFile(objectName, upload.Reader, upload.SizeBytes, contentType, enums.FILE_BUCKET_CHAT_ATTACHMENTS)
	if err != nil {
		log.Println("Error uploading attachment:", err)
		return nil, errs.ErrUnableToUploadFile
	}

	content := strings.TrimSpace(caption)
	if content == "" {
		content = fmt.Sprintf("Shared %s: %s", kind, upload.OriginalName)
	}

	attachment := models.Attachment{
		URL:          url,
		OriginalName: upload.OriginalName,
		SizeBytes:    upload.SizeBytes,
		Kind:         kind,
	}
	return as.chatService.Send(principal, resolvedRecipient, content, &attachment)
}

// classify decides image vs. file from the declared MIME type, sniffing the
// content only when the declaration is missing or opaque.
func (as *AttachmentService) classify(upload *models.FileUpload) string {
	mime := upload.DeclaredMime
	if mime == "" || mime == "application/octet-stream" {
		if detected, err := mimetype.DetectReader(upload.Reader); err == nil {
			mime = detected.String()
		}
		if _, err := upload.Reader.Seek(0, io.SeekStart); err != nil {
			log.Println("Error rewinding upload after sniffing:", err)
		}
	}
	if strings.HasPrefix(mime, "image/") {
		return enums.ATTACHMENT_KIND_IMAGE
	}
	return enums.ATTACHMENT_KIND_FILE
}
