package roles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worshipdesk/worshipdesk-backend/internal/testdb"
	"github.com/worshipdesk/worshipdesk-backend/pkg/db"
	"github.com/worshipdesk/worshipdesk-backend/pkg/enums"
)

func TestCatalogLookups(t *testing.T) {
	conn := testdb.Open(t)
	r := NewRepository(conn)
	ctx := context.Background()

	all, err := r.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	found, err := r.FindByNames(ctx, []string{"musician", "viewer", "pastor"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = r.FindByName(ctx, "pastor")
	assert.Error(t, err)
}

func TestAssignIsUniquePerMember(t *testing.T) {
	conn := testdb.Open(t)
	r := NewRepository(conn)
	ctx := context.Background()
	member := testdb.InsertMember(t, conn, "m@example.com", "M")
	admin := testdb.Role(t, conn, enums.RoleAdministrator)

	require.NoError(t, r.Assign(ctx, member.ID, admin.ID))
	err := r.Assign(ctx, member.ID, admin.ID)
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))

	rows, err := r.ForMember(ctx, member.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	require.NoError(t, r.Unassign(ctx, member.ID, admin.ID))
	rows, err = r.Assignments(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
