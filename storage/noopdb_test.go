package storage

import "testing"

func TestNoOpDBBehavior(t *testing.T) {
	db := &NoOpDB{}

	if err := db.Put(KVEntry{Key: []byte("k"), Value: []byte("v")}); err == nil {
		t.Error("Put should report that nothing was written")
	}
	if _, err := db.Read([]byte("k")); err == nil {
		t.Error("Read should report that nothing was found")
	}
	if err := db.Cleanup(); err != nil {
		t.Error("Cleanup should always succeed")
	}
	if err := db.Close(); err != nil {
		t.Error("Close should always succeed")
	}
}
