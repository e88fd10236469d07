package repofake

import (
	"sync"

	errs "github.com/Hernannavarro13/psystock-go/internal/errors"
	"github.com/Hernannavarro13/psystock-go/session"
)

var _ session.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo keeps the credential record in memory. Used by tests and by
// callers that do not want credentials on disk.
type FakeSessionRepo struct {
	session *session.Session
	lock    sync.RWMutex

	UpsertErr error // when set, Upsert returns this error
	DeleteErr error // when set, Delete returns this error
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{}
}

func (r *FakeSessionRepo) Get() (*session.Session, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.session == nil {
		return nil, errs.ErrSessionMissing
	}
	copied := *r.session
	return &copied, nil
}

func (r *FakeSessionRepo) Upsert(sess *session.Session) error {
	if r.UpsertErr != nil {
		return r.UpsertErr
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	copied := *sess
	r.session = &copied
	return nil
}

func (r *FakeSessionRepo) Delete() error {
	if r.DeleteErr != nil {
		return r.DeleteErr
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.session = nil
	return nil
}
