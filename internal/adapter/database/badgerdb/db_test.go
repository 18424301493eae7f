package badgerdb_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoapi/internal/adapter/database/badgerdb"
)

func TestNewDB_InMemoryIgnoresPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos")

	db, err := badgerdb.NewDB(badgerdb.Options{Path: path, InMemory: true})
	require.NoError(t, err)
	defer db.Close()

	err = db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("todo:1"), []byte(`{}`))
	})
	require.NoError(t, err)

	assert.Equal(t, "badger", db.Driver)
	assert.True(t, db.Opts().InMemory)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestNewDB_OnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos")

	db, err := badgerdb.NewDB(badgerdb.Options{Path: path})
	require.NoError(t, err)
	defer db.Close()

	assert.False(t, db.Opts().InMemory)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
