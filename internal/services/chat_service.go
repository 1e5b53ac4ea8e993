package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"clientdesk/internal/enums"
	"clientdesk/internal/errs"
	"clientdesk/internal/interfaces"
	"clientdesk/internal/models"

	"github.com/samber/lo"
)

type ChatService struct {
	messages  interfaces.MessageStore
	users     interfaces.UserStore
	events    interfaces.EventPublisher
	adminID   uint
	listLimit int
}

func NewChatService(
	messages interfaces.MessageStore,
	users interfaces.UserStore,
	events interfaces.EventPublisher,
	adminID uint,
	listLimit int,
) *ChatService {
	return &ChatService{
		messages:  messages,
		users:     users,
		events:    events,
		adminID:   adminID,
		listLimit: listLimit,
	}
}

// conversationScope is the one place the star-topology rule is applied: a
// client's counterpart is always the admin, whatever id the request carried.
// A zero counterpart means every conversation the admin takes part in.
type conversationScope struct {
	principalID   uint
	counterpartID uint
}

func (scope conversationScope) senderFilter() *uint {
	if scope.counterpartID == 0 {
		return nil
	}
	counterpartID := scope.counterpartID
	return &counterpartID
}

func (cs *ChatService) resolveScope(principal models.Principal, counterpartID *uint) conversationScope {
	if !principal.IsAdmin() {
		return conversationScope{principalID: principal.ID, counterpartID: cs.adminID}
	}
	if counterpartID != nil && *counterpartID != 0 {
		return conversationScope{principalID: principal.ID, counterpartID: *counterpartID}
	}
	return conversationScope{principalID: principal.ID}
}

// ResolveRecipient applies the scope rule to an outbound message and checks
// that the effective recipient exists.
func (cs *ChatService) ResolveRecipient(principal models.Principal, recipientID uint) (uint, error) {
	scope := cs.resolveScope(principal, &recipientID)
	resolved := scope.counterpartID
	if resolved == 0 {
		return 0, errs.ErrInvalidParams
	}
	if resolved == principal.ID {
		return 0, errs.ErrSelfMessaging
	}
	if _, err := cs.users.FindByID(resolved); err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return 0, errs.ErrRecipientNotFound
		}
		return 0, err
	}
	return resolved, nil
}

// Send appends a message to the log. The sender identity is captured as an
// immutable snapshot so later renames never rewrite history.
func (cs *ChatService) Send(principal models.Principal, recipientID uint, content string, attachment *models.Attachment) (*models.ChatMessage, error) {
	resolved, err := cs.ResolveRecipient(principal, recipientID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" && attachment == nil {
		return nil, errs.ErrEmptyMessage
	}

	message := &models.ChatMessage{
		SenderID:    principal.ID,
		SenderName:  principal.FullName(),
		SenderRole:  principal.Role,
		RecipientID: resolved,
		Content:     content,
	}
	if attachment != nil {
		message.SetAttachment(*attachment)
	}

	if err := cs.messages.Save(message); err != nil {
		return nil, err
	}

	cs.publish(models.ChatEvent{
		Type:        enums.CHAT_EVENT_MESSAGE_SENT,
		MessageID:   message.ID,
		SenderID:    message.SenderID,
		RecipientID: message.RecipientID,
	})
	return message, nil
}

// List returns the most recent messages in the principal's scope in
// chronological order. Viewing the mailbox clears every matching unread
// inbound message, not just the page returned, through the same MarkRead
// primitive the notification counter relies on.
func (cs *ChatService) List(principal models.Principal, counterpartID *uint, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = cs.listLimit
	}
	scope := cs.resolveScope(principal, counterpartID)

	if err := cs.MarkRead(principal, scope.senderFilter()); err != nil {
		return nil, err
	}

	var (
		messages []models.ChatMessage
		err      error
	)
	if scope.counterpartID == 0 {
		messages, err = cs.messages.FindInvolving(scope.principalID, limit)
	} else {
		messages, err = cs.messages.FindBetween(scope.principalID, scope.counterpartID, limit)
	}
	if err != nil {
		return nil, err
	}

	reverseMessages(messages)
	return messages, nil
}

// MarkRead is idempotent; flipping an already-read message is a no-op and a
// miss is not an error.
func (cs *ChatService) MarkRead(principal models.Principal, senderID *uint) error {
	_, err := cs.messages.MarkRead(principal.ID, senderID)
	return err
}

func (cs *ChatService) UnreadCount(principal models.Principal) (int64, error) {
	return cs.messages.CountUnread(principal.ID, nil)
}

// ListConversations derives per-counterpart summaries on every call: one
// last-message and one unread-count query per known client, ordered by last
// activity, clients without history trailing in account-creation order.
func (cs *ChatService) ListConversations(principal models.Principal) ([]models.ConversationResponse, error) {
	if !principal.IsAdmin() {
		return cs.clientConversation(principal)
	}

	clients, err := cs.users.FindClients()
	if err != nil {
		return nil, err
	}

	conversations := make([]models.ConversationResponse, 0, len(clients))
	for _, client := range clients {
		last, err := cs.messages.LastBetween(cs.adminID, client.ID)
		if err != nil {
			return nil, err
		}
		clientID := client.ID
		unread, err := cs.messages.CountUnread(cs.adminID, &clientID)
		if err != nil {
			return nil, err
		}

		conversation := models.ConversationResponse{
			Counterpart: *client.ToUserResponse(),
			UnreadCount: unread,
		}
		if last != nil {
			lastResponse := last.ToMessageResponse()
			conversation.LastMessage = &lastResponse
		}
		conversations = append(conversations, conversation)
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		left, right := conversations[i].LastMessage, conversations[j].LastMessage
		if left == nil || right == nil {
			return left != nil && right == nil
		}
		return left.CreatedAt.After(right.CreatedAt)
	})
	return conversations, nil
}

func (cs *ChatService) clientConversation(principal models.Principal) ([]models.ConversationResponse, error) {
	last, err := cs.messages.LastBetween(principal.ID, cs.adminID)
	if err != nil {
		return nil, err
	}
	if last == nil {
		return []models.ConversationResponse{}, nil
	}

	admin, err := cs.users.FindByID(cs.adminID)
	if err != nil {
		return nil, err
	}
	adminID := cs.adminID
	unread, err := cs.messages.CountUnread(principal.ID, &adminID)
	if err != nil {
		return nil, err
	}

	lastResponse := last.ToMessageResponse()
	return []models.ConversationResponse{{
		Counterpart: *admin.ToUserResponse(),
		LastMessage: &lastResponse,
		UnreadCount: unread,
	}}, nil
}

func (cs *ChatService) DeleteMessage(principal models.Principal, messageID uint) error {
	if !principal.IsAdmin() {
		return errs.ErrPermissionDenied
	}
	affected, err := cs.messages.DeleteByID(messageID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errs.ErrMessageNotFound
	}
	cs.publish(models.ChatEvent{Type: enums.CHAT_EVENT_MESSAGE_DELETED, MessageID: messageID, Count: 1})
	return nil
}

// BulkDeleteMessages is fail-soft: every id is attempted, misses land in the
// errors list, and the call as a whole always succeeds. Duplicate ids are
// counted once. There is deliberately no wrapping transaction; partial
// completion is a documented outcome.
func (cs *ChatService) BulkDeleteMessages(principal models.Principal, messageIDs []uint) (*models.BulkDeleteResponse, error) {
	if !principal.IsAdmin() {
		return nil, errs.ErrPermissionDenied
	}

	response := &models.BulkDeleteResponse{Errors: []string{}}
	for _, messageID := range lo.Uniq(messageIDs) {
		affected, err := cs.messages.DeleteByID(messageID)
		if err != nil {
			response.Errors = append(response.Errors, fmt.Sprintf("message %d: %v", messageID, err))
			continue
		}
		if affected == 0 {
			response.Errors = append(response.Errors, fmt.Sprintf("message %d not found", messageID))
			continue
		}
		response.DeletedCount++
	}

	if response.DeletedCount > 0 {
		cs.publish(models.ChatEvent{Type: enums.CHAT_EVENT_MESSAGE_DELETED, Count: response.DeletedCount})
	}
	return response, nil
}

// DeleteConversation removes the full history between the admin and one
// client. Targeting an admin account is refused even though the star
// topology should make such a conversation impossible.
func (cs *ChatService) DeleteConversation(principal models.Principal, clientID uint) (int64, error) {
	if !principal.IsAdmin() {
		return 0, errs.ErrPermissionDenied
	}

	target, err := cs.users.FindByID(clientID)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return 0, errs.ErrClientNotFound
		}
		return 0, err
	}
	if target.Role == enums.ROLE_ADMIN {
		return 0, errs.ErrPermissionDenied
	}

	deleted, err := cs.messages.DeleteBetween(cs.adminID, clientID)
	if err != nil {
		return 0, err
	}

	cs.publish(models.ChatEvent{Type: enums.CHAT_EVENT_CONVERSATION_DELETED, UserID: clientID, Count: deleted})
	return deleted, nil
}

// CascadeOnUserDeletion is the integration hook the account-management
// subsystem invokes while deleting a user: every message the user sent or
// received is removed so no orphaned references remain. Not exposed to end
// clients.
func (cs *ChatService) CascadeOnUserDeletion(userID uint) (int64, error) {
	deleted, err := cs.messages.DeleteInvolving(userID)
	if err != nil {
		return 0, err
	}
	cs.publish(models.ChatEvent{Type: enums.CHAT_EVENT_USER_MESSAGES_PURGED, UserID: userID, Count: deleted})
	return deleted, nil
}

// ExportTranscript hands the exporting collaborator the complete ascending
// history between the admin and one client. Unlike List there is no limit.
func (cs *ChatService) ExportTranscript(principal models.Principal, clientID uint) (*models.TranscriptResponse, error) {
	if !principal.IsAdmin() {
		return nil, errs.ErrPermissionDenied
	}

	client, err := cs.users.FindByID(clientID)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return nil, errs.ErrClientNotFound
		}
		return nil, err
	}
	if client.Role == enums.ROLE_ADMIN {
		return nil, errs.ErrPermissionDenied
	}

	admin, err := cs.users.FindByID(cs.adminID)
	if err != nil {
		return nil, err
	}

	messages, err := cs.messages.FindBetween(cs.adminID, clientID, 0)
	if err != nil {
		return nil, err
	}
	reverseMessages(messages)

	transcript := &models.TranscriptResponse{
		Admin:    *admin.ToUserResponse(),
		Client:   *client.ToUserResponse(),
		Messages: make([]models.ChatMessageResponse, 0, len(messages)),
	}
	for i := range messages {
		transcript.Messages = append(transcript.Messages, messages[i].ToMessageResponse())
	}
	return transcript, nil
}

// AdminInfo tells clients who their counterpart is.
func (cs *ChatService) AdminInfo() (*models.UserResponse, error) {
	admin, err := cs.users.FindByID(cs.adminID)
	if err != nil {
		return nil, err
	}
	return admin.ToUserResponse(), nil
}

func (cs *ChatService) publish(event models.ChatEvent) {
	if err := cs.events.Publish(event); err != nil {
		log.Println("Error publishing chat event:", err)
	}
}

// stores return newest first; callers want natural reading order
func reverseMessages(messages []models.ChatMessage) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}
