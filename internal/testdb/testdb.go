// Package testdb opens throwaway sqlite databases carrying the worshipdesk
// schema for repository and service tests.
package testdb

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/worshipdesk/worshipdesk-backend/pkg/db/models"
	dbtypes "github.com/worshipdesk/worshipdesk-backend/pkg/db/types"
	"github.com/worshipdesk/worshipdesk-backend/pkg/enums"
)

// ChurchID is the church seeded into every test database.
var ChurchID = uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

var schema = []string{
	`CREATE TABLE IF NOT EXISTS churches (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  address TEXT,
  phone TEXT,
  email TEXT,
  pastor_name TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS auth_identities (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  email_confirmed_at DATETIME,
  last_sign_in_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS members (
  id TEXT PRIMARY KEY,
  church_id TEXT NOT NULL,
  email TEXT NOT NULL,
  name TEXT NOT NULL,
  phone TEXT,
  role TEXT,
  instruments TEXT NOT NULL DEFAULT '{}',
  status TEXT NOT NULL DEFAULT 'active',
  join_date TEXT,
  avatar_url TEXT,
  notes TEXT,
  auth_user_id TEXT,
  is_default_admin INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS songs (
  id TEXT PRIMARY KEY,
  church_id TEXT NOT NULL,
  title TEXT NOT NULL,
  artist TEXT,
  key TEXT,
  tempo INTEGER,
  genre TEXT,
  duration TEXT,
  ccli_number TEXT,
  copyright TEXT,
  lyrics TEXT,
  chords TEXT,
  notes TEXT,
  tags TEXT NOT NULL DEFAULT '{}',
  last_used TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS setlists (
  id TEXT PRIMARY KEY,
  church_id TEXT NOT NULL,
  name TEXT NOT NULL,
  service_date TEXT,
  service_type TEXT,
  status TEXT NOT NULL DEFAULT 'draft',
  notes TEXT,
  created_by TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS setlist_songs (
  id TEXT PRIMARY KEY,
  setlist_id TEXT NOT NULL,
  song_id TEXT NOT NULL,
  order_index INTEGER NOT NULL,
  key_override TEXT,
  notes TEXT,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS events (
  id TEXT PRIMARY KEY,
  church_id TEXT NOT NULL,
  title TEXT NOT NULL,
  event_date TEXT NOT NULL,
  event_time TEXT,
  event_type TEXT,
  location TEXT,
  setlist_id TEXT,
  notes TEXT,
  created_by TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS event_participants (
  id TEXT PRIMARY KEY,
  event_id TEXT NOT NULL,
  member_id TEXT NOT NULL,
  role TEXT,
  status TEXT NOT NULL DEFAULT 'invited',
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS roles (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  description TEXT,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS user_roles (
  id TEXT PRIMARY KEY,
  member_id TEXT NOT NULL,
  role_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (member_id, role_id)
);`,
}

// Open returns a fresh in-memory database with the schema, the default church
// and the five seeded roles.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open("file:"+name+"_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		require.NoError(t, conn.Exec(stmt).Error)
	}

	require.NoError(t, conn.Create(&models.Church{ID: ChurchID, Name: "Test Church"}).Error)
	for _, name := range enums.RoleNames() {
		require.NoError(t, conn.Create(&models.Role{ID: uuid.New(), Name: name}).Error)
	}
	return conn
}

// OpenEmpty returns a database with no tables at all. Every query against it
// fails, which is how tests exercise the degraded read paths.
func OpenEmpty(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open("file:"+name+"_empty_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

// Role returns the seeded role row for name.
func Role(t *testing.T, conn *gorm.DB, name enums.RoleName) models.Role {
	t.Helper()
	var role models.Role
	require.NoError(t, conn.Where("name = ?", name).First(&role).Error)
	return role
}

// InsertMember creates a member row with sensible defaults.
func InsertMember(t *testing.T, conn *gorm.DB, email, name string, mutate ...func(*models.Member)) models.Member {
	t.Helper()
	joined := dbtypes.NewDate(time.Now())
	m := models.Member{
		ID:       uuid.New(),
		ChurchID: ChurchID,
		Email:    email,
		Name:     name,
		Status:   enums.MemberStatusActive,
		JoinDate: &joined,
	}
	for _, fn := range mutate {
		fn(&m)
	}
	require.NoError(t, conn.WithContext(context.Background()).Create(&m).Error)
	return m
}

// InsertSong creates a song row.
func InsertSong(t *testing.T, conn *gorm.DB, title string, mutate ...func(*models.Song)) models.Song {
	t.Helper()
	s := models.Song{ID: uuid.New(), ChurchID: ChurchID, Title: title}
	for _, fn := range mutate {
		fn(&s)
	}
	require.NoError(t, conn.Create(&s).Error)
	return s
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
