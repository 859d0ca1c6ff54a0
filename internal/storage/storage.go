// Package storage opens the SQLite database and migrates the schema.
package storage

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fyrsmithlabs/motivatr/internal/task"
	"github.com/fyrsmithlabs/motivatr/internal/user"
)

// Open opens the SQLite database at path and migrates the task and user
// tables. Use ":memory:" for an ephemeral database in tests.
func Open(path string) (*gorm.DB, error) {
	dsn := path
	if path == ":memory:" {
		// A named in-memory DB with shared cache keeps the connection pool on
		// one database while isolating separate Open calls from each other.
		dsn = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	if err := db.AutoMigrate(&task.Task{}, &user.User{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return db, nil
}
