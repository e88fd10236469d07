// Package bboltrepo provides a BBolt-backed session repository: the local
// persistent credential store, one record under fixed keys.
package bboltrepo

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	errs "github.com/Hernannavarro13/psystock-go/internal/errors"
	"github.com/Hernannavarro13/psystock-go/session"
)

var (
	bucketName = []byte("session")
	recordKey  = []byte("current")
)

// Repo implements session.Repo backed by a BBolt database.
type Repo struct {
	db *bbolt.DB
}

var _ session.Repo = (*Repo)(nil)

// NewRepo returns a Repo backed by the given BBolt database.
func NewRepo(db *bbolt.DB) *Repo {
	return &Repo{db: db}
}

// NewRepoFromFile opens (creating if needed) a BBolt database at the given
// path and returns a Repo. Parent directories are created with user-only
// permissions since the file holds credentials.
func NewRepoFromFile(path string, options *bbolt.Options) (*Repo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "creating credentials directory")
	}
	db, err := bbolt.Open(path, 0o600, options)
	if err != nil {
		return nil, errors.Wrap(err, "opening credentials db")
	}
	return NewRepo(db), nil
}

// Close closes the underlying BBolt database.
func (r *Repo) Close() error {
	return r.db.Close()
}

func (r *Repo) Get() (*session.Session, error) {
	var sess session.Session
	err := r.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return errs.ErrSessionMissing
		}
		data := b.Get(recordKey)
		if data == nil {
			return errs.ErrSessionMissing
		}
		return json.Unmarshal(data, &sess)
	})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (r *Repo) Upsert(sess *session.Session) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		data, err := json.Marshal(sess)
		if err != nil {
			return err
		}
		return b.Put(recordKey, data)
	})
}

func (r *Repo) Delete() error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		return b.Delete(recordKey)
	})
}
