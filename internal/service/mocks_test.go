package service

import (
	"context"
	"io"
	"mime/multipart"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/whisperbox/whisperbox-backend/internal/domain"
	"github.com/whisperbox/whisperbox-backend/internal/repository"
	"github.com/whisperbox/whisperbox-backend/pkg/authprovider"
	"github.com/whisperbox/whisperbox-backend/pkg/storage"
)

// --- Mock MessageRepository ---

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *mockMessageRepo) FindByReceiver(ctx context.Context, receiverID string) ([]*domain.Message, error) {
	args := m.Called(ctx, receiverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Message), args.Error(1)
}

func (m *mockMessageRepo) FindOwned(ctx context.Context, id, receiverID string) (*domain.Message, error) {
	args := m.Called(ctx, id, receiverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *mockMessageRepo) UpdateFlag(ctx context.Context, id, receiverID string, flag domain.MessageFlag, value bool) error {
	return m.Called(ctx, id, receiverID, flag, value).Error(0)
}

func (m *mockMessageRepo) DeleteOwned(ctx context.Context, id, receiverID string) (bool, error) {
	args := m.Called(ctx, id, receiverID)
	return args.Bool(0), args.Error(1)
}

func (m *mockMessageRepo) CountsByReceiver(ctx context.Context, receiverID string) (*domain.MessageCounts, error) {
	args := m.Called(ctx, receiverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MessageCounts), args.Error(1)
}

func (m *mockMessageRepo) LatestCreatedAt(ctx context.Context, receiverID string) (*time.Time, error) {
	args := m.Called(ctx, receiverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *mockMessageRepo) FindAll(ctx context.Context) ([]*domain.Message, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Message), args.Error(1)
}

func (m *mockMessageRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockMessageRepo) Stats(ctx context.Context) (*domain.AdminStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminStats), args.Error(1)
}

// --- Mock ProfileRepository ---

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *mockProfileRepo) FindByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *mockProfileRepo) FindByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *mockProfileRepo) FindUsernamesByUserIDs(ctx context.Context, userIDs []string) (map[string]string, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *mockProfileRepo) ExistsByUsername(ctx context.Context, username, excludeUserID string) (bool, error) {
	args := m.Called(ctx, username, excludeUserID)
	return args.Bool(0), args.Error(1)
}

func (m *mockProfileRepo) Update(ctx context.Context, userID string, fields map[string]interface{}) error {
	return m.Called(ctx, userID, fields).Error(0)
}

func (m *mockProfileRepo) List(ctx context.Context, search string) ([]*domain.Profile, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Profile), args.Error(1)
}

func (m *mockProfileRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock ProfileViewRepository ---

type mockViewRepo struct {
	mock.Mock
}

func (m *mockViewRepo) Create(ctx context.Context, view *domain.ProfileView) error {
	return m.Called(ctx, view).Error(0)
}

func (m *mockViewRepo) CountByProfile(ctx context.Context, profileID string) (int64, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock RoleRepository ---

type mockRoleRepo struct {
	mock.Mock
}

func (m *mockRoleRepo) HasRole(ctx context.Context, userID, role string) (bool, error) {
	args := m.Called(ctx, userID, role)
	return args.Bool(0), args.Error(1)
}

func (m *mockRoleRepo) FindRolesByUserIDs(ctx context.Context, userIDs []string) (map[string][]string, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]string), args.Error(1)
}

func (m *mockRoleRepo) Grant(ctx context.Context, userID, role string) error {
	return m.Called(ctx, userID, role).Error(0)
}

// --- Mock AccountRepository ---

type mockAccountRepo struct {
	mock.Mock
}

func (m *mockAccountRepo) DeleteAccountCascade(ctx context.Context, userID string) (*repository.CascadeResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.CascadeResult), args.Error(1)
}

// --- Mock PreferenceRepository ---

type mockPreferenceRepo struct {
	mock.Mock
}

func (m *mockPreferenceRepo) Get(ctx context.Context, userID string) (*domain.AccountPreference, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountPreference), args.Error(1)
}

func (m *mockPreferenceRepo) SetOnboardingCompleted(ctx context.Context, userID string, completed bool) error {
	return m.Called(ctx, userID, completed).Error(0)
}

// --- Mock ImageStore ---

type mockImageStore struct {
	mock.Mock
}

func (m *mockImageStore) UploadImage(ctx context.Context, file *multipart.FileHeader, ownerID, bucket string) UploadResult {
	return m.Called(ctx, file, ownerID, bucket).Get(0).(UploadResult)
}

func (m *mockImageStore) DeleteImage(ctx context.Context, fileURL, bucket string) bool {
	return m.Called(ctx, fileURL, bucket).Bool(0)
}

// --- Mock ObjectStorage ---

type mockObjectStorage struct {
	mock.Mock
}

func (m *mockObjectStorage) Upload(ctx context.Context, bucket, key string, body io.Reader, size int64, opts storage.PutOptions) (*storage.UploadResult, error) {
	args := m.Called(ctx, bucket, key, body, size, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}

func (m *mockObjectStorage) Delete(ctx context.Context, bucket, key string) error {
	return m.Called(ctx, bucket, key).Error(0)
}

// --- Mock AuthProvider ---

type mockAuthProvider struct {
	mock.Mock
}

func (m *mockAuthProvider) SignUp(ctx context.Context, email, password string, data map[string]interface{}) (*authprovider.User, error) {
	args := m.Called(ctx, email, password, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authprovider.User), args.Error(1)
}

func (m *mockAuthProvider) SignIn(ctx context.Context, email, password string) (*authprovider.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authprovider.Session), args.Error(1)
}

func (m *mockAuthProvider) UpdateUser(ctx context.Context, accessToken string, attrs authprovider.UserAttributes) (*authprovider.User, error) {
	args := m.Called(ctx, accessToken, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authprovider.User), args.Error(1)
}

// --- Mock MessageNotifier ---

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) MessageReceived(receiverID string, msg *domain.Message) {
	m.Called(receiverID, msg)
}

// --- Stubs ---

type stubResolver struct {
	ip    string
	calls int
}

func (s *stubResolver) Resolve(_ context.Context) string {
	s.calls++
	return s.ip
}

type stubViewCounter struct {
	count int64
	err   error
}

func (s *stubViewCounter) CountByAccount(_ context.Context, _ string) (int64, error) {
	return s.count, s.err
}

func strPtr(s string) *string { return &s }
