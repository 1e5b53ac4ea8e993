package enums

const (
	ROLE_ADMIN  = "admin"
	ROLE_CLIENT = "client"

	ATTACHMENT_KIND_IMAGE = "image"
	ATTACHMENT_KIND_FILE  = "file"

	FILE_BUCKET_CHAT_ATTACHMENTS = "chat-attachments"

	CHAT_EVENT_MESSAGE_SENT         = "message_sent"
	CHAT_EVENT_MESSAGE_DELETED      = "message_deleted"
	CHAT_EVENT_CONVERSATION_DELETED = "conversation_deleted"
	CHAT_EVENT_USER_MESSAGES_PURGED = "user_messages_purged"
)
