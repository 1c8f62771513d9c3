package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wichananm65/userdemo/internal/logger"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) FindByID(ctx context.Context, id int64) (User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(User), args.Error(1)
}

func (m *mockRepository) FindAll(ctx context.Context) ([]User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]User), args.Error(1)
}

func (m *mockRepository) FindByDateOfBirthBetween(ctx context.Context, from, to Date) ([]User, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]User), args.Error(1)
}

func (m *mockRepository) Save(ctx context.Context, user User) (User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(User), args.Error(1)
}

func (m *mockRepository) Delete(ctx context.Context, user User) error {
	return m.Called(ctx, user).Error(0)
}

// passthroughTx runs fn directly.
type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newMemoryService(seed ...User) (*Service, *InMemoryRepository) {
	repo := NewInMemoryRepository(seed)
	return NewService(repo, repo, logger.NewNop()), repo
}

func TestService_GetByDateOfBirthRejectsReversedRange(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, passthroughTx{}, logger.NewNop())

	_, err := svc.GetByDateOfBirth(context.Background(), NewDate(2000, time.January, 1), NewDate(1990, time.January, 1))

	assert.ErrorIs(t, err, ErrInvalidTimePeriod)
	repo.AssertNotCalled(t, "FindByDateOfBirthBetween", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_GetByDateOfBirthDelegates(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, passthroughTx{}, logger.NewNop())
	day := NewDate(1990, time.January, 1)
	want := []User{{ID: 1, FirstName: "Test_Name"}}
	repo.On("FindByDateOfBirthBetween", mock.Anything, day, day).Return(want, nil)

	got, err := svc.GetByDateOfBirth(context.Background(), day, day)

	require.NoError(t, err)
	assert.Equal(t, want, got)
	repo.AssertExpectations(t)
}

func TestService_CreateIgnoresClientID(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, passthroughTx{}, logger.NewNop())

	in := newTestUser()
	in.ID = 99
	stored := newTestUser()
	saved := stored
	saved.ID = 1
	repo.On("Save", mock.Anything, stored).Return(saved, nil)

	got, err := svc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	repo.AssertExpectations(t)
}

func TestService_ReplaceMissing(t *testing.T) {
	svc, _ := newMemoryService()

	_, err := svc.Replace(context.Background(), 100500, newTestUser())

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "100500")
}

func TestService_Replace(t *testing.T) {
	ctx := context.Background()
	svc, repo := newMemoryService()
	created, err := svc.Create(ctx, newTestUser())
	require.NoError(t, err)

	replacement := User{
		ID:          555,
		FirstName:   "NEW_Name",
		LastName:    "NEW_LastName",
		Email:       "new@example.com",
		DateOfBirth: NewDate(1985, time.May, 20),
	}
	got, err := svc.Replace(ctx, created.ID, replacement)
	require.NoError(t, err)

	replacement.ID = created.ID
	assert.Equal(t, replacement, got)

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, replacement, stored)
	assert.Nil(t, stored.Address)
}

func TestService_PatchChangesOnlyGivenFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService()
	created, err := svc.Create(ctx, newTestUser())
	require.NoError(t, err)

	got, err := svc.Patch(ctx, created.ID, Update{FirstName: strPtr("NEW_Name")})
	require.NoError(t, err)

	want := created
	want.FirstName = "NEW_Name"
	assert.Equal(t, want, got)
}

func TestService_PatchSkipsBlankValues(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService()
	created, err := svc.Create(ctx, newTestUser())
	require.NoError(t, err)

	got, err := svc.Patch(ctx, created.ID, Update{
		LastName:    strPtr("   "),
		Address:     strPtr(""),
		PhoneNumber: strPtr("+380661558971"),
	})
	require.NoError(t, err)

	assert.Equal(t, created.LastName, got.LastName)
	assert.Equal(t, created.Address, got.Address)
	require.NotNil(t, got.PhoneNumber)
	assert.Equal(t, "+380661558971", *got.PhoneNumber)
}

func TestService_PatchMissing(t *testing.T) {
	svc, _ := newMemoryService()

	_, err := svc.Patch(context.Background(), 3, Update{FirstName: strPtr("NEW_Name")})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_PatchDuplicateEmailRollsBack(t *testing.T) {
	ctx := context.Background()
	svc, repo := newMemoryService()
	first, err := svc.Create(ctx, newTestUser())
	require.NoError(t, err)
	other := newTestUser()
	other.Email = "other@example.com"
	second, err := svc.Create(ctx, other)
	require.NoError(t, err)

	_, err = svc.Patch(ctx, second.ID, Update{Email: strPtr(first.Email)})
	assert.ErrorIs(t, err, ErrEmailExists)

	stored, err := repo.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "other@example.com", stored.Email)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService()
	created, err := svc.Create(ctx, newTestUser())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrNotFound)
}

func TestService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService()

	created, err := svc.Create(ctx, newTestUser())
	require.NoError(t, err)
	found, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)

	found.ID = 0
	assert.Equal(t, newTestUser(), found)
}

func TestService_GetByDateOfBirthReturnsRange(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService()

	for i, birth := range []Date{NewDate(1989, time.December, 31), NewDate(1990, time.January, 1), NewDate(1990, time.June, 1)} {
		u := newTestUser()
		u.Email = string(rune('a'+i)) + "@example.com"
		u.DateOfBirth = birth
		_, err := svc.Create(ctx, u)
		require.NoError(t, err)
	}

	users, err := svc.GetByDateOfBirth(ctx, NewDate(1990, time.January, 1), NewDate(1990, time.June, 1))
	require.NoError(t, err)

	require.Len(t, users, 2)
	assert.Equal(t, "b@example.com", users[0].Email)
	assert.Equal(t, "c@example.com", users[1].Email)
}
