package repo

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worshipdesk/worshipdesk-backend/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type widget struct {
	ID       uuid.UUID
	ChurchID uuid.UUID
	Name     string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(`CREATE TABLE IF NOT EXISTS widgets (id TEXT PRIMARY KEY, church_id TEXT NOT NULL, name TEXT NOT NULL)`).Error)
	return conn
}

func TestNewBaseStoresConnection(t *testing.T) {
	db := newTestDB(t)
	churchID := uuid.New()
	base := NewBase(db, churchID)

	assert.Same(t, db, base.db)
	assert.Equal(t, churchID, base.ChurchID())
}

func TestBaseDB_BindsContext(t *testing.T) {
	base := NewBase(newTestDB(t), uuid.New())

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	withCtx := base.DB(ctx)
	assert.Equal(t, ctx, withCtx.Statement.Context)
}

func TestScopedFiltersByChurch(t *testing.T) {
	db := newTestDB(t)
	mine, other := uuid.New(), uuid.New()
	require.NoError(t, db.Create(&widget{ID: uuid.New(), ChurchID: mine, Name: "a"}).Error)
	require.NoError(t, db.Create(&widget{ID: uuid.New(), ChurchID: other, Name: "b"}).Error)

	var rows []widget
	require.NoError(t, NewBase(db, mine).Scoped(context.Background()).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0].Name)
}

func TestUpdateFields(t *testing.T) {
	db := newTestDB(t)
	churchID := uuid.New()
	base := NewBase(db, churchID)
	id := uuid.New()
	require.NoError(t, db.Create(&widget{ID: id, ChurchID: churchID, Name: "old"}).Error)

	ctx := context.Background()
	require.NoError(t, base.UpdateFields(ctx, &widget{}, id, map[string]any{"name": "new"}))

	var got widget
	require.NoError(t, db.First(&got, "id = ?", id).Error)
	assert.Equal(t, "new", got.Name)

	err := base.UpdateFields(ctx, &widget{}, uuid.New(), map[string]any{"name": "x"})
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	assert.NoError(t, base.UpdateFields(ctx, &widget{}, id, nil))
	assert.True(t, errors.Is(base.UpdateFields(ctx, &widget{}, uuid.New(), nil), gorm.ErrRecordNotFound))
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, "%amazing%", ContainsPattern("  Amazing "))
	assert.Equal(t, `%100\%%`, ContainsPattern("100%"))
	assert.Equal(t, `%a\_b%`, ContainsPattern("a_b"))
}

func TestReadPolicyLogsFailure(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})
	NewReadPolicy(logg, nil).Fail(context.Background(), "songs.get_all", errors.New("connection refused"))

	assert.Contains(t, buf.String(), `"operation":"songs.get_all"`)
	assert.Contains(t, buf.String(), "connection refused")
}
