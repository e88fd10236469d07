package session

// Repo persists the credential record between runs. Implementations store a
// single record under fixed keys; there is no multi-user state.
type Repo interface {
	Get() (*Session, error)
	Upsert(session *Session) error
	Delete() error
}
