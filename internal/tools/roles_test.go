package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discord-mcp/internal/apperr"
)

func TestEveryoneRoleIsRefused(t *testing.T) {
	// The everyone role shares its ID with the guild; every mutating role
	// tool refuses it before any remote call.
	cases := []struct {
		name string
		call func(d *Deps) error
	}{
		{"edit_role", func(d *Deps) error {
			_, err := d.editRole(context.Background(), callReq(map[string]any{
				"roleId": "g1", "name": "renamed",
			}))
			return err
		}},
		{"delete_role", func(d *Deps) error {
			_, err := d.deleteRole(context.Background(), callReq(map[string]any{"roleId": "g1"}))
			return err
		}},
		{"assign_role", func(d *Deps) error {
			_, err := d.assignRole(context.Background(), callReq(map[string]any{
				"userId": "u-mod", "roleId": "g1",
			}))
			return err
		}},
		{"remove_role", func(d *Deps) error {
			_, err := d.removeRole(context.Background(), callReq(map[string]any{
				"userId": "u-mod", "roleId": "g1",
			}))
			return err
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fc := adminFixture()
			err := tc.call(newDeps(fc))
			require.Error(t, err)
			assert.Equal(t, apperr.KindForbiddenPolicy, apperr.KindOf(err))
			assert.Contains(t, err.Error(), "@everyone")
			assert.Empty(t, fc.deletedRoleID)
			assert.Empty(t, fc.addedRoleID)
			assert.Empty(t, fc.removedRoleID)
		})
	}
}

func TestListRolesReportsTotals(t *testing.T) {
	d := newDeps(adminFixture())

	out, err := d.listRoles(context.Background(), callReq(nil))
	require.NoError(t, err)
	assert.Contains(t, out, "Retrieved 3 of 3 roles")
	assert.Contains(t, out, "**Moderator** (ID: r-mod)")
}

func TestAssignRole(t *testing.T) {
	fc := adminFixture()
	d := newDeps(fc)

	out, err := d.assignRole(context.Background(), callReq(map[string]any{
		"userId": "u-mod", "roleId": "r-mod",
	}))
	require.NoError(t, err)
	assert.Equal(t, "r-mod", fc.addedRoleID)
	assert.Contains(t, out, "assigned role **Moderator** to user")
}

func TestRemoveRole(t *testing.T) {
	fc := adminFixture()
	d := newDeps(fc)

	out, err := d.removeRole(context.Background(), callReq(map[string]any{
		"userId": "u-mod", "roleId": "r-mod",
	}))
	require.NoError(t, err)
	assert.Equal(t, "r-mod", fc.removedRoleID)
	assert.Contains(t, out, "removed role **Moderator** from user")
}

func TestRoleMutationAboveBot(t *testing.T) {
	fc := adminFixture()
	d := newDeps(fc)

	// The bot's own top role is not strictly below itself.
	_, err := d.deleteRole(context.Background(), callReq(map[string]any{"roleId": "r-bot"}))
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbiddenHierarchy, apperr.KindOf(err))
	assert.Empty(t, fc.deletedRoleID)
}

func TestDeleteRole(t *testing.T) {
	fc := adminFixture()
	d := newDeps(fc)

	out, err := d.deleteRole(context.Background(), callReq(map[string]any{"roleId": "r-mod"}))
	require.NoError(t, err)
	assert.Equal(t, "r-mod", fc.deletedRoleID)
	assert.Contains(t, out, "Successfully deleted role")
}

func TestRoleNotFound(t *testing.T) {
	d := newDeps(adminFixture())

	_, err := d.deleteRole(context.Background(), callReq(map[string]any{"roleId": "r-ghost"}))
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "Role not found by roleId", err.Error())
}
