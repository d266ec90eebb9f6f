package gatetest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/gatekeeper/store/iavl"
)

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data. Returned cleanup function removes all files.
func CommitKVStore(t testing.TB) (*iavl.CommitStore, func()) {
	t.Helper()

	tmp, err := ioutil.TempDir("", "gatetest-")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}
	db, err := iavl.NewCommitStore(iavl.GoLevelDBBackend, tmp, "state")
	if err != nil {
		os.RemoveAll(tmp)
		t.Fatalf("cannot create the store: %s", err)
	}
	cleanup := func() {
		db.Close()
		os.RemoveAll(tmp)
	}
	return db, cleanup
}
