package services

import (
	"sort"
	"testing"
	"time"

	"clientdesk/internal/enums"
	"clientdesk/internal/errs"
	"clientdesk/internal/models"

	"github.com/stretchr/testify/require"
)

type memoryMessageStore struct {
	nextID   uint
	clock    time.Time
	messages []models.ChatMessage
}

func newMemoryMessageStore() *memoryMessageStore {
	return &memoryMessageStore{clock: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (s *memoryMessageStore) Save(message *models.ChatMessage) error {
	s.nextID++
	s.clock = s.clock.Add(time.Second)
	message.ID = s.nextID
	message.CreatedAt = s.clock
	s.messages = append(s.messages, *message)
	return nil
}

func (s *memoryMessageStore) filter(keep func(models.ChatMessage) bool) []models.ChatMessage {
	var matched []models.ChatMessage
	for _, message := range s.messages {
		if keep(message) {
			matched = append(matched, message)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

func between(userA, userB uint) func(models.ChatMessage) bool {
	return func(m models.ChatMessage) bool {
		return (m.SenderID == userA && m.RecipientID == userB) ||
			(m.SenderID == userB && m.RecipientID == userA)
	}
}

func (s *memoryMessageStore) FindBetween(userA, userB uint, limit int) ([]models.ChatMessage, error) {
	matched := s.filter(between(userA, userB))
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *memoryMessageStore) FindInvolving(userID uint, limit int) ([]models.ChatMessage, error) {
	matched := s.filter(func(m models.ChatMessage) bool {
		return m.SenderID == userID || m.RecipientID == userID
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *memoryMessageStore) LastBetween(userA, userB uint) (*models.ChatMessage, error) {
	matched := s.filter(between(userA, userB))
	if len(matched) == 0 {
		return nil, nil
	}
	last := matched[0]
	return &last, nil
}

func (s *memoryMessageStore) CountUnread(recipientID uint, senderID *uint) (int64, error) {
	var count int64
	for _, message := range s.messages {
		if message.RecipientID != recipientID || message.IsRead {
			continue
		}
		if senderID != nil && message.SenderID != *senderID {
			continue
		}
		count++
	}
	return count, nil
}

func (s *memoryMessageStore) MarkRead(recipientID uint, senderID *uint) (int64, error) {
	var affected int64
	for i := range s.messages {
		message := &s.messages[i]
		if message.RecipientID != recipientID || message.IsRead {
			continue
		}
		if senderID != nil && message.SenderID != *senderID {
			continue
		}
		message.IsRead = true
		affected++
	}
	return affected, nil
}

func (s *memoryMessageStore) deleteWhere(keep func(models.ChatMessage) bool) int64 {
	var remaining []models.ChatMessage
	var deleted int64
	for _, message := range s.messages {
		if keep(message) {
			remaining = append(remaining, message)
		} else {
			deleted++
		}
	}
	s.messages = remaining
	return deleted
}

func (s *memoryMessageStore) DeleteByID(messageID uint) (int64, error) {
	return s.deleteWhere(func(m models.ChatMessage) bool { return m.ID != messageID }), nil
}

func (s *memoryMessageStore) DeleteBetween(userA, userB uint) (int64, error) {
	pair := between(userA, userB)
	return s.deleteWhere(func(m models.ChatMessage) bool { return !pair(m) }), nil
}

func (s *memoryMessageStore) DeleteInvolving(userID uint) (int64, error) {
	return s.deleteWhere(func(m models.ChatMessage) bool {
		return m.SenderID != userID && m.RecipientID != userID
	}), nil
}

type memoryUserStore struct {
	users []models.User
}

func (s *memoryUserStore) add(id uint, firstName, lastName, role string, createdAt time.Time) {
	user := models.User{FirstName: firstName, LastName: lastName, Role: role}
	user.ID = id
	user.CreatedAt = createdAt
	user.Email = firstName + "@example.com"
	s.users = append(s.users, user)
}

func (s *memoryUserStore) remove(id uint) {
	var remaining []models.User
	for _, user := range s.users {
		if user.ID != id {
			remaining = append(remaining, user)
		}
	}
	s.users = remaining
}

func (s *memoryUserStore) FindByID(userID uint) (*models.User, error) {
	for i := range s.users {
		if s.users[i].ID == userID {
			user := s.users[i]
			return &user, nil
		}
	}
	return nil, errs.ErrUserNotFound
}

func (s *memoryUserStore) FindSoleAdmin() (*models.User, error) {
	var admins []models.User
	for _, user := range s.users {
		if user.Role == enums.ROLE_ADMIN {
			admins = append(admins, user)
		}
	}
	switch len(admins) {
	case 0:
		return nil, errs.ErrNoAdminAccount
	case 1:
		admin := admins[0]
		return &admin, nil
	default:
		return nil, errs.ErrMultipleAdmins
	}
}

func (s *memoryUserStore) FindClients() ([]models.User, error) {
	var clients []models.User
	for _, user := range s.users {
		if user.Role == enums.ROLE_CLIENT {
			clients = append(clients, user)
		}
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].CreatedAt.Before(clients[j].CreatedAt)
	})
	return clients, nil
}

type fakeEventPublisher struct {
	events []models.ChatEvent
}

func (p *fakeEventPublisher) Publish(event models.ChatEvent) error {
	p.events = append(p.events, event)
	return nil
}

const (
	adminID   = uint(1)
	clientOne = uint(2)
	clientTwo = uint(3)
)

func newChatFixture() (*ChatService, *memoryMessageStore, *memoryUserStore, *fakeEventPublisher) {
	users := &memoryUserStore{}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	users.add(adminID, "Ada", "Admin", enums.ROLE_ADMIN, base)
	users.add(clientOne, "Cleo", "Client", enums.ROLE_CLIENT, base.Add(time.Hour))
	users.add(clientTwo, "Carl", "Client", enums.ROLE_CLIENT, base.Add(2*time.Hour))

	messages := newMemoryMessageStore()
	events := &fakeEventPublisher{}
	service := NewChatService(messages, users, events, adminID, 50)
	return service, messages, users, events
}

func admin() models.Principal {
	return models.Principal{ID: adminID, Role: enums.ROLE_ADMIN, FirstName: "Ada", LastName: "Admin"}
}

func client(id uint, firstName string) models.Principal {
	return models.Principal{ID: id, Role: enums.ROLE_CLIENT, FirstName: firstName, LastName: "Client"}
}

func Test_Send_Captures_Sender_Snapshot(t *testing.T) {
	req := require.New(t)
	service, _, _, events := newChatFixture()

	message, err := service.Send(admin(), clientOne, "Hello", nil)
	req.NoError(err)
	req.Equal(adminID, message.SenderID)
	req.Equal("Ada Admin", message.SenderName)
	req.Equal(enums.ROLE_ADMIN, message.SenderRole)
	req.Equal(clientOne, message.RecipientID)
	req.False(message.IsRead)
	req.Len(events.events, 1)
	req.Equal(enums.CHAT_EVENT_MESSAGE_SENT, events.events[0].Type)
}

func Test_Send_Validation(t *testing.T) {
	req := require.New(t)
	service, _, _, _ := newChatFixture()

	_, err := service.Send(admin(), clientOne, "   ", nil)
	req.ErrorIs(err, errs.ErrEmptyMessage)

	_, err = service.Send(admin(), 999, "Hello", nil)
	req.ErrorIs(err, errs.ErrRecipientNotFound)

	_, err = service.Send(admin(), adminID, "Hello me", nil)
	req.ErrorIs(err, errs.ErrSelfMessaging)
}

func Test_Client_Send_Is_Forced_To_Admin(t *testing.T) {
	req := require.New(t)
	service, _, _, _ := newChatFixture()

	// a client addressing another client still reaches only the admin
	message, err := service.Send(client(clientOne, "Cleo"), clientTwo, "Hi there", nil)
	req.NoError(err)
	req.Equal(adminID, message.RecipientID)
}

func Test_List_Read_On_Fetch(t *testing.T) {
	req := require.New(t)
	service, _, _, _ := newChatFixture()

	_, err := service.Send(admin(), clientOne, "Hello", nil)
	req.NoError(err)

	unread, err := service.UnreadCount(client(clientOne, "Cleo"))
	req.NoError(err)
	req.EqualValues(1, unread)

	// the sender's own fetch does not touch the flag
	fromSender, err := service.List(admin(), nil, 0)
	req.NoError(err)
	req.Len(fromSender, 1)
	req.False(fromSender[0].IsRead)

	// the recipient's fetch flips it and the returned page reflects that
	fromRecipient, err := service.List(client(clientOne, "Cleo"), nil, 0)
	req.NoError(err)
	req.Len(fromRecipient, 1)
	req.True(fromRecipient[0].IsRead)

	unread, err = service.UnreadCount(client(clientOne, "Cleo"))
	req.NoError(err)
	req.EqualValues(0, unread)
}

func Test_List_Marks_All_Unread_Not_Just_The_Page(t *testing.T) {
	req := require.New(t)
	service, messages, users, events := newChatFixture()
	service = NewChatService(messages, users, events, adminID, 2)

	for i := 0; i < 5; i++ {
		_, err := service.Send(admin(), clientOne, "Ping", nil)
		req.NoError(err)
	}

	page, err := service.List(client(clientOne, "Cleo"), nil, 0)
	req.NoError(err)
	req.Len(page, 2)

	unread, err := service.UnreadCount(client(clientOne, "Cleo"))
	req.NoError(err)
	req.EqualValues(0, unread)
}

func Test_List_Limit_And_Chronological_Order(t *testing.T) {
	req := require.New(t)
	service, _, _, _ := newChatFixture()

	contents := []string{"one", "two", "three", "four", "five"}
	for _, content := range contents {
		_, err := service.Send(admin(), clientOne, content, nil)
		req.NoError(err)
	}

	page, err := service.List(admin(), uintPtr(clientOne), 3)
	req.NoError(err)
	req.Len(page, 3)
	req.Equal("three", page[0].Content)
	req.Equal("four", page[1].Content)
	req.Equal("five", page[2].Content)
}

func Test_Client_Visibility_Is_Unconditional(t *testing.T) {
	req := require.New(t)
	service, _, _, _ := newChatFixture()

	_, err := service.Send(admin(), clientOne, "for Cleo", nil)
	req.NoError(err)
	_, err = service.Send(admin(), clientTwo, "for Carl", nil)
	req.NoError(err)
	_, err = service.Send(client(clientOne, "Cleo"), adminID, "from Cleo", nil)
	req.NoError(err)

	// Cleo asking for Carl's conversation still sees only her own
	page, err := service.List(client(clientOne, "Cleo"), uintPtr(clientTwo), 0)
	req.NoError(err)
	req.Len(page, 2)
	for _, message := range page {
		req.True(message.SenderID == clientOne || message.RecipientID == clientOne)
	}
}

func Test_Admin_List_Without_Counterpart_Spans_All_Clients(t *testing.T) {
	req := require.New(t)
	service, _, _, _ := newChatFixture()

	_, err := service.Send(client(clientOne, "Cleo"), adminID, "from Cleo", nil)
	req.NoError(err)
	_, err = service.Send(client(clientTwo, "Carl"), adminID, "from Carl", nil)
	req.NoError(err)

	page, err := service.List(admin(), nil, 0)
	req.NoError(err)
	req.Len(page, 2)

	// the union fetch cleared the admin's whole mailbox
	unread, err := service.UnreadCount(admin())
	req.NoError(err)
	req.EqualValues(0, unread)
}

func Test_UnreadCount_Matches_Live_State(t *testing.T) {
	req := require.New(t)
	service, messages, _, _ := newChatFixture()

	_, err := service.Send(client(clientOne, "Cleo"), adminID, "one", nil)
	req.NoError(err)
	_, err = service.Send(client(clientTwo, "Carl"), adminID, "two", nil)
	req.NoError(err)

	count, err := service.UnreadCount(admin())
	req.NoError(err)
	live, err := messages.CountUnread(adminID, nil)
	req.NoError(err)
	req.Equal(live, count)
	req.EqualValues(2, count)

	// scoped list clears only that sender's messages
	_, err = service.List(admin(), uintPtr(clientOne), 0)
	req.NoError(err)

	count, err = service.UnreadCount(admin())
	req.NoError(err)
	req.EqualValues(1, count)
}

func Test_MarkRead_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	service, _, _, _ := newChatFixture()

	_, err := service.Send(admin(), clientOne, "Hello", nil)
	req.NoError(err)

	cleo := client(clientOne, "Cleo")
	req.NoError(service.MarkRead(cleo, nil))
	req.NoError(service.MarkRead(cleo, nil))
	req.NoError(service.MarkRead(cleo, uintPtr(adminID)))

	unread, err := service.UnreadCount(cleo)
	req.NoError(err)
	req.EqualValues(0, unread)
}

func Test_ListConversations_Ordering_And_Unread(t *testing.T) {
	req := require.New(t)
	service, _, users, _ := newChatFixture()
	// a third client with no history, created last
	users.add(4, "Cara", "Client", enums.ROLE_CLIENT, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))

	_, err := service.Send(client(clientOne, "Cleo"), adminID, "first", nil)
	req.NoError(err)
	_, err = service.Send(client(clientTwo, "Carl"), adminID, "second", nil)
	req.NoError(err)

	conversations, err := service.ListConversations(admin())
	req.NoError(err)
	req.Len(conversations, 3)

	// most recent activity first, the silent client last
	req.Equal(clientTwo, conversations[0].Counterpart.ID)
	req.Equal("second", conversations[0].LastMessage.Content)
	req.EqualValues(1, conversations[0].UnreadCount)

	req.Equal(clientOne, conversations[1].Counterpart.ID)
	req.EqualValues(1, conversations[1].UnreadCount)

	req.Equal(uint(4), conversations[2].Counterpart.ID)
	req.Nil(conversations[2].LastMessage)
	req.EqualValues(0, conversations[2].UnreadCount)
}

func Test_ListConversations_For_Client_Is_Synthetic(t *testing.T) {
	req := require.New(t)
	service, _, _, _ := newChatFixture()

	cleo := client(clientOne, "Cleo")
	conversations, err := service.ListConversations(cleo)
	req.NoError(err)
	req.Empty(conversations)

	_, err = service.Send(admin(), clientOne, "Hello", nil)
	req.NoError(err)

	conversations, err = service.ListConversations(cleo)
	req.NoError(err)
	req.Len(conversations, 1)
	req.Equal(adminID, conversations[0].Counterpart.ID)
	req.EqualValues(1, conversations[0].UnreadCount)
}

func Test_DeleteMessage(t *testing.T) {
	req := require.New(t)
	service, _, _, _ := newChatFixture()

	message, err := service.Send(admin(), clientOne, "Hello", nil)
	req.NoError(err)

	err = service.DeleteMessage(client(clientOne, "Cleo"), message.ID)
	req.ErrorIs(err, errs.ErrPermissionDenied)

	req.NoError(service.DeleteMessage(admin(), message.ID))

	err = service.DeleteMessage(admin(), message.ID)
	req.ErrorIs(err, errs.ErrMessageNotFound)
}

func Test_BulkDelete_Is_Fail_Soft(t *testing.T) {
	req := require.New(t)
	service, _, _, _ := newChatFixture()

	message, err := service.Send(admin(), clientOne, "Hello", nil)
	req.NoError(err)

	// duplicates count once, misses go to the error list, the call succeeds
	result, err := service.BulkDeleteMessages(admin(), []uint{message.ID, message.ID, 999})
	req.NoError(err)
	req.EqualValues(1, result.DeletedCount)
	req.Equal([]string{"message 999 not found"}, result.Errors)

	_, err = service.BulkDeleteMessages(client(clientOne, "Cleo"), []uint{1})
	req.ErrorIs(err, errs.ErrPermissionDenied)
}

func Test_BulkDelete_All_Misses_Still_Succeeds(t *testing.T) {
	req := require.New(t)
	service, _, _, _ := newChatFixture()

	result, err := service.BulkDeleteMessages(admin(), []uint{41, 42})
	req.NoError(err)
	req.EqualValues(0, result.DeletedCount)
	req.Len(result.Errors, 2)
}

func Test_DeleteConversation(t *testing.T) {
	req := require.New(t)
	service, _, users, _ := newChatFixture()

	_, err := service.Send(admin(), clientOne, "one", nil)
	req.NoError(err)
	_, err = service.Send(client(clientOne, "Cleo"), adminID, "two", nil)
	req.NoError(err)
	_, err = service.Send(admin(), clientTwo, "other pair", nil)
	req.NoError(err)

	deleted, err := service.DeleteConversation(admin(), clientOne)
	req.NoError(err)
	req.EqualValues(2, deleted)

	page, err := service.List(admin(), uintPtr(clientOne), 0)
	req.NoError(err)
	req.Empty(page)

	// the other conversation is untouched
	page, err = service.List(admin(), uintPtr(clientTwo), 0)
	req.NoError(err)
	req.Len(page, 1)

	_, err = service.DeleteConversation(admin(), 999)
	req.ErrorIs(err, errs.ErrClientNotFound)

	_, err = service.DeleteConversation(client(clientOne, "Cleo"), clientTwo)
	req.ErrorIs(err, errs.ErrPermissionDenied)

	// targeting an admin account is refused outright
	users.add(9, "Alt", "Admin", enums.ROLE_ADMIN, time.Now())
	_, err = service.DeleteConversation(admin(), 9)
	req.ErrorIs(err, errs.ErrPermissionDenied)
}

func Test_Cascade_On_User_Deletion(t *testing.T) {
	req := require.New(t)
	service, messages, users, _ := newChatFixture()

	_, err := service.Send(admin(), clientOne, "to Cleo", nil)
	req.NoError(err)
	_, err = service.Send(client(clientOne, "Cleo"), adminID, "from Cleo", nil)
	req.NoError(err)
	_, err = service.Send(admin(), clientTwo, "to Carl", nil)
	req.NoError(err)

	deleted, err := service.CascadeOnUserDeletion(clientOne)
	req.NoError(err)
	req.EqualValues(2, deleted)
	req.Len(messages.messages, 1)

	// the account subsystem removes the user row; the client disappears
	// from the admin's conversation list
	users.remove(clientOne)
	conversations, err := service.ListConversations(admin())
	req.NoError(err)
	req.Len(conversations, 1)
	req.Equal(clientTwo, conversations[0].Counterpart.ID)
}

func Test_ExportTranscript_Is_Complete_And_Ascending(t *testing.T) {
	req := require.New(t)
	service, messages, users, events := newChatFixture()
	// a list limit far below the history size must not truncate the export
	service = NewChatService(messages, users, events, adminID, 2)

	contents := []string{"a", "b", "c", "d", "e"}
	for i, content := range contents {
		var err error
		if i%2 == 0 {
			_, err = service.Send(admin(), clientOne, content, nil)
		} else {
			_, err = service.Send(client(clientOne, "Cleo"), adminID, content, nil)
		}
		req.NoError(err)
	}

	transcript, err := service.ExportTranscript(admin(), clientOne)
	req.NoError(err)
	req.Equal(adminID, transcript.Admin.ID)
	req.Equal(clientOne, transcript.Client.ID)
	req.Len(transcript.Messages, len(contents))
	for i, content := range contents {
		req.Equal(content, transcript.Messages[i].Content)
	}

	_, err = service.ExportTranscript(client(clientOne, "Cleo"), clientOne)
	req.ErrorIs(err, errs.ErrPermissionDenied)

	_, err = service.ExportTranscript(admin(), 999)
	req.ErrorIs(err, errs.ErrClientNotFound)
}

func Test_End_To_End_Conversation_Flow(t *testing.T) {
	req := require.New(t)
	service, _, _, _ := newChatFixture()
	cleo := client(clientOne, "Cleo")

	_, err := service.Send(admin(), clientOne, "Hello", nil)
	req.NoError(err)

	page, err := service.List(cleo, nil, 0)
	req.NoError(err)
	req.Len(page, 1)
	req.Equal(adminID, page[0].SenderID)
	req.Equal("Hello", page[0].Content)
	req.True(page[0].IsRead)

	_, err = service.Send(cleo, adminID, "Hi", nil)
	req.NoError(err)

	conversations, err := service.ListConversations(admin())
	req.NoError(err)
	req.Equal(clientOne, conversations[0].Counterpart.ID)
	req.Equal("Hi", conversations[0].LastMessage.Content)
	req.EqualValues(1, conversations[0].UnreadCount)

	before, err := service.UnreadCount(admin())
	req.NoError(err)

	_, err = service.List(admin(), uintPtr(clientOne), 0)
	req.NoError(err)

	after, err := service.UnreadCount(admin())
	req.NoError(err)
	req.Equal(before-1, after)
}

func uintPtr(value uint) *uint {
	return &value
}
