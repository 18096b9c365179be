package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleSupervisor.IsValid())
	assert.True(t, RoleStaff.IsValid())
	assert.False(t, Role("root").IsValid())

	assert.True(t, RoleAdmin.CanManage())
	assert.True(t, RoleSupervisor.CanManage())
	assert.False(t, RoleStaff.CanManage())

	assert.True(t, RoleAdmin.CanDelete())
	assert.False(t, RoleSupervisor.CanDelete())
	assert.False(t, RoleStaff.CanDelete())
}

func TestNewUser(t *testing.T) {
	orgID := uuid.New()

	t.Run("hashes password and lowercases email", func(t *testing.T) {
		u, err := NewUser(orgID, "Dispatcher@Fleet.COM", "s3cret-pass", "Dispatcher", RoleStaff)
		require.NoError(t, err)

		assert.Equal(t, "dispatcher@fleet.com", u.Email)
		assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
		assert.True(t, u.VerifyPassword("s3cret-pass"))
		assert.False(t, u.VerifyPassword("wrong"))
		assert.Equal(t, UserStatusActive, u.Status)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := NewUser(orgID, "not-an-email", "s3cret-pass", "X", RoleStaff)
		assert.Error(t, err)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser(orgID, "a@b.com", "short", "X", RoleStaff)
		assert.Error(t, err)
	})

	t.Run("rejects invalid role", func(t *testing.T) {
		_, err := NewUser(orgID, "a@b.com", "s3cret-pass", "X", Role("owner"))
		assert.Error(t, err)
	})
}

func TestUser_ChangePassword(t *testing.T) {
	u, err := NewUser(uuid.New(), "a@b.com", "original-pass", "A", RoleStaff)
	require.NoError(t, err)

	require.NoError(t, u.ChangePassword("brand-new-pass"))
	assert.True(t, u.VerifyPassword("brand-new-pass"))
	assert.False(t, u.VerifyPassword("original-pass"))

	assert.Error(t, u.ChangePassword("nope"))
}

func TestUser_DeactivateActivate(t *testing.T) {
	u, err := NewUser(uuid.New(), "a@b.com", "original-pass", "A", RoleStaff)
	require.NoError(t, err)
	u.ClearDomainEvents()

	require.NoError(t, u.Deactivate())
	assert.False(t, u.IsActive())
	assert.Len(t, u.GetDomainEvents(), 1)

	assert.Error(t, u.Deactivate(), "already deactivated")

	u.Activate()
	assert.True(t, u.IsActive())
}

func TestEditRequest(t *testing.T) {
	orgID := uuid.New()
	requester := uuid.New()
	entityID := uuid.New()

	changes := RequestedChanges{"notes": "updated by staff", "phone": "+31 6 1234"}

	t.Run("approve resolves once", func(t *testing.T) {
		er, err := NewEditRequest(orgID, requester, EditRequestEntityTrip, entityID, changes, "typo fix")
		require.NoError(t, err)
		require.True(t, er.IsPending())

		approver := uuid.New()
		require.NoError(t, er.Approve(approver, "ok"))
		assert.Equal(t, EditRequestStatusApproved, er.Status)
		require.NotNil(t, er.ResolvedBy)
		assert.Equal(t, approver, *er.ResolvedBy)

		assert.Error(t, er.Approve(approver, "again"))
		assert.Error(t, er.Reject(approver, "too late"))
	})

	t.Run("reject resolves once", func(t *testing.T) {
		er, err := NewEditRequest(orgID, requester, EditRequestEntityInvoice, entityID, changes, "")
		require.NoError(t, err)

		require.NoError(t, er.Reject(uuid.New(), "not allowed"))
		assert.Equal(t, EditRequestStatusRejected, er.Status)
	})

	t.Run("requires at least one change", func(t *testing.T) {
		_, err := NewEditRequest(orgID, requester, EditRequestEntityTruck, entityID, RequestedChanges{}, "")
		assert.Error(t, err)
	})

	t.Run("rejects unknown entity type", func(t *testing.T) {
		_, err := NewEditRequest(orgID, requester, EditRequestEntityType("warehouse"), entityID, changes, "")
		assert.Error(t, err)
	})
}
