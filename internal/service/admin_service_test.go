package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/whisperbox/whisperbox-backend/internal/common"
	"github.com/whisperbox/whisperbox-backend/internal/domain"
	"github.com/whisperbox/whisperbox-backend/internal/repository"
	"github.com/whisperbox/whisperbox-backend/pkg/cache"
)

type adminFixture struct {
	messages *mockMessageRepo
	profiles *mockProfileRepo
	roles    *mockRoleRepo
	accounts *mockAccountRepo
	images   *mockImageStore
	svc      *AdminService
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		messages: new(mockMessageRepo),
		profiles: new(mockProfileRepo),
		roles:    new(mockRoleRepo),
		accounts: new(mockAccountRepo),
		images:   new(mockImageStore),
	}
	f.svc = NewAdminService(f.messages, f.profiles, f.roles, f.accounts, f.images, cache.NewService(nil, 0), "avatars")
	return f
}

func adminMessages() []*domain.Message {
	return []*domain.Message{
		{ID: "m1", Content: "buy SPAM now", ReceiverID: "acc-alice", SenderType: domain.SenderAnonymous},
		{ID: "m2", Content: "hello", ReceiverID: "acc-alice", SenderUserID: strPtr("acc-spammer"), SenderType: domain.SenderRegistered},
		{ID: "m3", Content: "lunch?", ReceiverID: "acc-spamlord", SenderUserID: strPtr("acc-bob"), SenderType: domain.SenderRegistered},
		{ID: "m4", Content: "ok", ReceiverID: "acc-gone", SenderUserID: strPtr("acc-ghost"), SenderType: domain.SenderRegistered},
	}
}

func adminUsernames() map[string]string {
	return map[string]string{
		"acc-alice":    "alice",
		"acc-spammer":  "Spammer99",
		"acc-spamlord": "spamlord",
		"acc-bob":      "bob",
	}
}

func TestAdminListMessages_JoinsUsernames(t *testing.T) {
	f := newAdminFixture()
	f.messages.On("FindAll", mock.Anything).Return(adminMessages(), nil)
	f.profiles.On("FindUsernamesByUserIDs", mock.Anything, mock.MatchedBy(func(ids []string) bool {
		// one batched lookup over distinct ids
		return len(ids) == 6
	})).Return(adminUsernames(), nil).Once()

	list, err := f.svc.ListMessages(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, list, 4)

	assert.Equal(t, "alice", list[0].ReceiverUsername)
	assert.Nil(t, list[0].SenderUsername)
	require.NotNil(t, list[1].SenderUsername)
	assert.Equal(t, "Spammer99", *list[1].SenderUsername)

	assert.Equal(t, domain.UnknownUsername, list[3].ReceiverUsername)
	require.NotNil(t, list[3].SenderUsername)
	assert.Equal(t, domain.UnknownUsername, *list[3].SenderUsername)
	f.profiles.AssertExpectations(t)
}

func TestAdminListMessages_SearchSpam(t *testing.T) {
	f := newAdminFixture()
	f.messages.On("FindAll", mock.Anything).Return(adminMessages(), nil)
	f.profiles.On("FindUsernamesByUserIDs", mock.Anything, mock.Anything).Return(adminUsernames(), nil)

	list, err := f.svc.ListMessages(context.Background(), "spam")
	require.NoError(t, err)

	got := make([]string, 0, len(list))
	for _, m := range list {
		got = append(got, m.ID)
	}
	// content, sender username and receiver username respectively
	assert.Equal(t, []string{"m1", "m2", "m3"}, got)
}

func TestAdminListMessages_StoreError(t *testing.T) {
	f := newAdminFixture()
	f.messages.On("FindAll", mock.Anything).Return(nil, errors.New("db down"))

	_, err := f.svc.ListMessages(context.Background(), "")
	assert.Error(t, err)
	f.profiles.AssertNotCalled(t, "FindUsernamesByUserIDs", mock.Anything, mock.Anything)
}

func TestAdminDeleteMessage(t *testing.T) {
	f := newAdminFixture()
	f.messages.On("DeleteByID", mock.Anything, "m1").Return(true, nil)
	f.messages.On("DeleteByID", mock.Anything, "m9").Return(false, nil)

	assert.NoError(t, f.svc.DeleteMessage(context.Background(), "m1"))
	assert.ErrorIs(t, f.svc.DeleteMessage(context.Background(), "m9"), common.ErrMessageNotFound)
}

func TestAdminListUsers(t *testing.T) {
	f := newAdminFixture()
	f.profiles.On("List", mock.Anything, "al").Return([]*domain.Profile{
		{ID: "p1", UserID: "acc-alice", Username: "alice"},
		{ID: "p2", UserID: "acc-al", Username: "al_b"},
	}, nil)
	f.roles.On("FindRolesByUserIDs", mock.Anything, []string{"acc-alice", "acc-al"}).
		Return(map[string][]string{"acc-alice": {domain.RoleAdmin}}, nil)

	users, err := f.svc.ListUsers(context.Background(), " al ")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.True(t, users[0].IsAdmin)
	assert.False(t, users[1].IsAdmin)
	assert.Equal(t, []string{}, users[1].Roles)
}

func TestAdminDeleteUser(t *testing.T) {
	f := newAdminFixture()
	avatar := "https://cdn.example.com/avatars/acc-bob/acc-bob_1.png"
	f.profiles.On("FindByUserID", mock.Anything, "acc-bob").
		Return(&domain.Profile{ID: "p-bob", UserID: "acc-bob", Username: "bob", AvatarURL: &avatar}, nil)
	f.accounts.On("DeleteAccountCascade", mock.Anything, "acc-bob").
		Return(&repository.CascadeResult{Messages: 3, Profiles: 1}, nil)
	f.images.On("DeleteImage", mock.Anything, avatar, "avatars").Return(false)

	result, err := f.svc.DeleteUser(context.Background(), "acc-admin", "acc-bob")

	require.NoError(t, err, "avatar cleanup failure is not fatal")
	assert.Equal(t, int64(3), result.Messages)
	f.images.AssertExpectations(t)
}

func TestAdminDeleteUser_Self(t *testing.T) {
	f := newAdminFixture()

	_, err := f.svc.DeleteUser(context.Background(), "acc-admin", "acc-admin")

	assert.ErrorIs(t, err, common.ErrCannotDeleteSelf)
	f.accounts.AssertNotCalled(t, "DeleteAccountCascade", mock.Anything, mock.Anything)
}

func TestAdminDeleteUser_CascadeFailure(t *testing.T) {
	f := newAdminFixture()
	avatar := "https://cdn.example.com/avatars/acc-bob/acc-bob_1.png"
	f.profiles.On("FindByUserID", mock.Anything, "acc-bob").
		Return(&domain.Profile{UserID: "acc-bob", Username: "bob", AvatarURL: &avatar}, nil)
	f.accounts.On("DeleteAccountCascade", mock.Anything, "acc-bob").Return(nil, errors.New("deadlock"))

	_, err := f.svc.DeleteUser(context.Background(), "acc-admin", "acc-bob")

	assert.Error(t, err)
	f.images.AssertNotCalled(t, "DeleteImage", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminStats(t *testing.T) {
	f := newAdminFixture()
	f.messages.On("Stats", mock.Anything).Return(&domain.AdminStats{TotalMessages: 5, AnonymousMessages: 3, RegisteredMessages: 2, UnreadMessages: 4}, nil)
	f.profiles.On("Count", mock.Anything).Return(int64(2), nil)

	stats, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &domain.AdminStats{TotalMessages: 5, AnonymousMessages: 3, RegisteredMessages: 2, UnreadMessages: 4, TotalUsers: 2}, stats)
}

func TestAdminIsAdmin(t *testing.T) {
	f := newAdminFixture()
	f.roles.On("HasRole", mock.Anything, "acc-admin", domain.RoleAdmin).Return(true, nil)

	ok, err := f.svc.IsAdmin(context.Background(), "acc-admin")
	require.NoError(t, err)
	assert.True(t, ok)
}
