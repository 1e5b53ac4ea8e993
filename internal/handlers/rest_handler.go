package handlers

import (
	"log"
	"net/http"
	"strconv"

	"clientdesk/internal/errs"
	"clientdesk/internal/models"
	"clientdesk/internal/msgs"
	"clientdesk/internal/services"
	"clientdesk/internal/utils"
	"clientdesk/internal/validators"

	"github.com/gin-gonic/gin"
)

type RestHandler struct {
	chatService       *services.ChatService
	attachmentService *services.AttachmentService
}

func NewRestHandler(
	chatService *services.ChatService,
	attachmentService *services.AttachmentService,
) *RestHandler {
	return &RestHandler{
		chatService:       chatService,
		attachmentService: attachmentService,
	}
}

func (rh *RestHandler) abortWithError(ctx *gin.Context, err error) {
	ctx.AbortWithStatusJSON(errs.HttpStatus(err), models.Response{
		Success: false,
		Message: msgs.MsgOperationFailed,
		Errors:  models.ErrorList(err),
	})
}

func (rh *RestHandler) respond(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    data,
	})
}

func (rh *RestHandler) principal(ctx *gin.Context) (models.Principal, bool) {
	principal, ok := utils.GetPrincipalFromContext(ctx)
	if !ok {
		rh.abortWithError(ctx, errs.ErrUnauthorized)
		return models.Principal{}, false
	}
	return principal, true
}

// GetAdminInfo godoc
// @Summary      Admin identity
// @Description  Returns the display identity of the platform admin, a client's only counterpart
// @Produce      json
// @Success      200  {object}  models.Response
// @Router       /chat/admin-info [get]
func (rh *RestHandler) GetAdminInfo(ctx *gin.Context) {
	if _, ok := rh.principal(ctx); !ok {
		return
	}
	admin, err := rh.chatService.AdminInfo()
	if err != nil {
		rh.abortWithError(ctx, err)
		return
	}
	rh.respond(ctx, admin)
}

// SendMessage godoc
// @Summary      Send a chat message
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.Response
// @Failure      400  {object}  models.Response
// @Router       /chat/messages [post]
func (rh *RestHandler) SendMessage(ctx *gin.Context) {
	principal, ok := rh.principal(ctx)
	if !ok {
		return
	}

	var messageRequest models.MessageRequest
	if err := ctx.ShouldBindJSON(&messageRequest); err != nil {
		log.Println("Error message request json binding:", err)
		rh.abortWithError(ctx, errs.ErrInvalidRequestBody)
		return
	}
	if err := validators.ValidateMessageRequest(&messageRequest); err != nil {
		rh.abortWithError(ctx, err)
		return
	}

	message, err := rh.chatService.Send(principal, messageRequest.RecipientID, messageRequest.Content, nil)
	if err != nil {
		rh.abortWithError(ctx, err)
		return
	}
	rh.respond(ctx, message.ToMessageResponse())
}

func (rh *RestHandler) GetMessages(ctx *gin.Context) {
	principal, ok := rh.principal(ctx)
	if !ok {
		return
	}

	var counterpartID *uint
	if clientID := ctx.Query("client_id"); clientID != "" {
		clientIDInt, err := strconv.Atoi(clientID)
		if err != nil || clientIDInt < 1 {
			rh.abortWithError(ctx, errs.ErrInvalidParams)
			return
		}
		id := uint(clientIDInt)
		counterpartID = &id
	}

	limit := 0
	if rawLimit := ctx.Query("limit"); rawLimit != "" {
		limitInt, err := strconv.Atoi(rawLimit)
		if err == nil && limitInt > 0 {
			limit = limitInt
		}
	}

	messages, err := rh.chatService.List(principal, counterpartID, limit)
	if err != nil {
		rh.abortWithError(ctx, err)
		return
	}

	responses := make([]models.ChatMessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, messages[i].ToMessageResponse())
	}
	rh.respond(ctx, responses)
}

func (rh *RestHandler) UploadAttachment(ctx *gin.Context) {
	principal, ok := rh.principal(ctx)
	if !ok {
		return
	}

	recipientIDInt, err := strconv.Atoi(ctx.PostForm("recipient_id"))
	if err != nil || recipientIDInt < 1 {
		rh.abortWithError(ctx, errs.ErrInvalidParams)
		return
	}
	caption := ctx.PostForm("content")

	file, err := ctx.FormFile("file")
	if err != nil {
		rh.abortWithError(ctx, errs.ErrNoFileUploaded)
		return
	}

	src, err := file.Open()
	if err != nil {
		rh.abortWithError(ctx, errs.ErrUnableToOpenFile)
		return
	}
	defer src.Close()

	upload := models.FileUpload{
		OriginalName: file.Filename,
		SizeBytes:    file.Size,
		DeclaredMime: file.Header.Get("Content-Type"),
		Reader:       src,
	}

	message, err := rh.attachmentService.Upload(principal, uint(recipientIDInt), upload, caption)
	if err != nil {
		rh.abortWithError(ctx, err)
		return
	}
	rh.respond(ctx, message.ToMessageResponse())
}

func (rh *RestHandler) GetUnreadCount(ctx *gin.Context) {
	principal, ok := rh.principal(ctx)
	if !ok {
		return
	}

	count, err := rh.chatService.UnreadCount(principal)
	if err != nil {
		rh.abortWithError(ctx, err)
		return
	}
	rh.respond(ctx, gin.H{"unread_count": count})
}

func (rh *RestHandler) GetConversations(ctx *gin.Context) {
	principal, ok := rh.principal(ctx)
	if !ok {
		return
	}
	if !principal.IsAdmin() {
		rh.abortWithError(ctx, errs.ErrPermissionDenied)
		return
	}

	conversations, err := rh.chatService.ListConversations(principal)
	if err != nil {
		rh.abortWithError(ctx, err)
		return
	}
	rh.respond(ctx, conversations)
}

func (rh *RestHandler) DeleteMessage(ctx *gin.Context) {
	principal, ok := rh.principal(ctx)
	if !ok {
		return
	}

	messageIDInt, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || messageIDInt < 1 {
		rh.abortWithError(ctx, errs.ErrInvalidParams)
		return
	}

	if err := rh.chatService.DeleteMessage(principal, uint(messageIDInt)); err != nil {
		rh.abortWithError(ctx, err)
		return
	}
	rh.respond(ctx, nil)
}

func (rh *RestHandler) BulkDeleteMessages(ctx *gin.Context) {
	principal, ok := rh.principal(ctx)
	if !ok {
		return
	}

	var bulkRequest models.BulkDeleteRequest
	if err := ctx.ShouldBindJSON(&bulkRequest); err != nil {
		log.Println("Error bulk delete request json binding:", err)
		rh.abortWithError(ctx, errs.ErrInvalidRequestBody)
		return
	}

	result, err := rh.chatService.BulkDeleteMessages(principal, bulkRequest.MessageIDs)
	if err != nil {
		rh.abortWithError(ctx, err)
		return
	}
	rh.respond(ctx, result)
}

func (rh *RestHandler) DeleteConversation(ctx *gin.Context) {
	principal, ok := rh.principal(ctx)
	if !ok {
		return
	}

	clientIDInt, err := strconv.Atoi(ctx.Param("clientId"))
	if err != nil || clientIDInt < 1 {
		rh.abortWithError(ctx, errs.ErrInvalidParams)
		return
	}

	deleted, err := rh.chatService.DeleteConversation(principal, uint(clientIDInt))
	if err != nil {
		rh.abortWithError(ctx, err)
		return
	}
	rh.respond(ctx, gin.H{"deleted_count": deleted})
}

func (rh *RestHandler) ExportTranscript(ctx *gin.Context) {
	principal, ok := rh.principal(ctx)
	if !ok {
		return
	}

	clientIDInt, err := strconv.Atoi(ctx.Param("clientId"))
	if err != nil || clientIDInt < 1 {
		rh.abortWithError(ctx, errs.ErrInvalidParams)
		return
	}

	transcript, err := rh.chatService.ExportTranscript(principal, uint(clientIDInt))
	if err != nil {
		rh.abortWithError(ctx, err)
		return
	}
	rh.respond(ctx, transcript)
}
