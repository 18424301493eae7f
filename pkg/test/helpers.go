package test

import (
	"log"
	"testing"

	"todoapi/internal/adapter/database/badgerdb"
	"todoapi/internal/adapter/database/badgerdb/repository"
	"todoapi/internal/core/port"
	"todoapi/internal/core/telemetry"
)

type TestSetup struct {
	DB   *badgerdb.DB
	Repo port.TodoRepository
}

// InitTestDB opens an in-memory badger store.
func InitTestDB() *badgerdb.DB {
	db, err := badgerdb.NewDB(badgerdb.Options{InMemory: true})

	if err != nil {
		log.Fatal(err)
	}

	return db
}

// SetupTest opens a fresh store and a todo repository on top of it. The store
// is closed when the test finishes.
func SetupTest(t *testing.T) *TestSetup {
	t.Helper()

	db := InitTestDB()

	t.Cleanup(func() {
		TeardownTest(t, db)
	})

	return &TestSetup{
		DB:   db,
		Repo: repository.NewTodoRepository(db, telemetry.NewNoOpProbe()),
	}
}

func TeardownTest(t *testing.T, db *badgerdb.DB) {
	if db == nil {
		return
	}

	if err := db.DropAll(); err != nil {
		t.Logf("Failed to drop badger data: %v", err)
	}

	if err := db.Close(); err != nil {
		t.Logf("Failed to close badger db: %v", err)
	}
}
