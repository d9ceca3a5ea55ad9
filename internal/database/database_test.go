package database

import (
	"testing"
)

func TestOpenAndMigrate(t *testing.T) {
	db, err := Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if err := db.Migrate(); err != nil {
			t.Fatalf("Migrate #%d: %v", i+1, err)
		}
	}

	if _, err := db.Exec(`INSERT INTO feeds (id, url, title, description) VALUES ('f1', 'u1', 't', 'd')`); err != nil {
		t.Fatalf("insert feed: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO feeds (id, url, title, description) VALUES ('f2', 'u1', 't', 'd')`); err == nil {
		t.Error("duplicate url should violate the unique constraint")
	}
	if _, err := db.Exec(`INSERT INTO posts (id, feed_id, title, description, url) VALUES ('p1', 'missing', 't', 'd', 'u')`); err == nil {
		t.Error("post with unknown feed should violate the foreign key")
	}
}

func TestOpenIsIsolated(t *testing.T) {
	a, err := Open()
	if err != nil {
		t.Fatalf("Open a: %v", err)
	}
	defer a.Close()
	b, err := Open()
	if err != nil {
		t.Fatalf("Open b: %v", err)
	}
	defer b.Close()

	if err := a.Migrate(); err != nil {
		t.Fatalf("Migrate a: %v", err)
	}
	if err := b.Migrate(); err != nil {
		t.Fatalf("Migrate b: %v", err)
	}
	if _, err := a.Exec(`INSERT INTO feeds (id, url, title, description) VALUES ('f1', 'u1', 't', 'd')`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var n int
	if err := b.QueryRow(`SELECT COUNT(*) FROM feeds`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("each Open should get its own database, b has %d feeds", n)
	}
}
