package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
)

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := &domain.User{Name: "Alice", Email: " Alice@Example.com ", PasswordHash: "hash", Role: domain.RoleUser}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.False(t, user.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", byID.Name)

	err = repo.Create(ctx, &domain.User{Name: "Other", Email: "alice@example.com", Role: domain.RoleUser})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryComplaintRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUserRepository()
	owner := &domain.User{Name: "Alice", Email: "alice@example.com", Role: domain.RoleUser}
	require.NoError(t, users.Create(ctx, owner))

	repo := NewMemoryComplaintRepository(users)
	complaint := &domain.Complaint{
		Title:       "Broken kettle",
		Description: "Stopped heating",
		Category:    "product",
		Priority:    domain.ComplaintPriorityLow,
		Status:      domain.ComplaintStatusPending,
		UserID:      owner.ID,
	}
	require.NoError(t, repo.Create(ctx, complaint))
	assert.NotEmpty(t, complaint.ID)
	assert.False(t, complaint.DateSubmitted.IsZero())

	got, err := repo.GetByID(ctx, complaint.ID)
	require.NoError(t, err)
	require.NotNil(t, got.User)
	assert.Equal(t, "Alice", got.User.Name)
	assert.Equal(t, "alice@example.com", got.User.Email)

	updated, err := repo.UpdateStatus(ctx, complaint.ID, domain.ComplaintStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusInProgress, updated.Status)

	require.NoError(t, repo.Delete(ctx, complaint.ID))
	_, err = repo.GetByID(ctx, complaint.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, complaint.ID), ErrNotFound)

	_, err = repo.UpdateStatus(ctx, complaint.ID, domain.ComplaintStatusResolved)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryComplaintRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUserRepository()
	owner := &domain.User{Name: "Bob", Email: "bob@example.com", Role: domain.RoleUser}
	require.NoError(t, users.Create(ctx, owner))

	repo := NewMemoryComplaintRepository(users)
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	seed := []domain.Complaint{
		{Title: "Late delivery", Description: "Parcel a week late", Category: "shipping", Priority: domain.ComplaintPriorityHigh, Status: domain.ComplaintStatusPending},
		{Title: "Rude staff", Description: "At the counter", Category: "service", Priority: domain.ComplaintPriorityMedium, Status: domain.ComplaintStatusResolved},
		{Title: "Damaged box", Description: "Crushed on arrival", Category: "shipping", Priority: domain.ComplaintPriorityLow, Status: domain.ComplaintStatusPending},
	}
	for i := range seed {
		seed[i].UserID = owner.ID
		require.NoError(t, repo.Create(ctx, &seed[i]))
	}

	tests := []struct {
		name      string
		filter    ComplaintFilter
		wantTitle []string
	}{
		{name: "no filter newest first", filter: ComplaintFilter{}, wantTitle: []string{"Damaged box", "Rude staff", "Late delivery"}},
		{name: "by status", filter: ComplaintFilter{Status: domain.ComplaintStatusPending}, wantTitle: []string{"Damaged box", "Late delivery"}},
		{name: "by priority", filter: ComplaintFilter{Priority: domain.ComplaintPriorityMedium}, wantTitle: []string{"Rude staff"}},
		{name: "search category", filter: ComplaintFilter{Search: "SHIPPING"}, wantTitle: []string{"Damaged box", "Late delivery"}},
		{name: "search description", filter: ComplaintFilter{Search: "counter"}, wantTitle: []string{"Rude staff"}},
		{name: "no match", filter: ComplaintFilter{Search: "refund"}, wantTitle: []string{}},
		{name: "wildcards are literal", filter: ComplaintFilter{Search: "a%"}, wantTitle: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)

			titles := make([]string, 0, len(got))
			for _, c := range got {
				titles = append(titles, c.Title)
				require.NotNil(t, c.User)
				assert.Equal(t, "Bob", c.User.Name)
			}
			assert.Equal(t, tt.wantTitle, titles)
		})
	}
}

func TestMemoryTokenDenylist(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	denylist := NewMemoryTokenDenylist()
	denylist.now = func() time.Time { return now }

	require.NoError(t, denylist.Revoke(ctx, "jti-1", now.Add(time.Hour)))
	require.NoError(t, denylist.Revoke(ctx, "jti-expired", now.Add(-time.Minute)))

	revoked, err := denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = denylist.IsRevoked(ctx, "jti-expired")
	require.NoError(t, err)
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, err = denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
