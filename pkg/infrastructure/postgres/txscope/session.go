package txscope

import "gorm.io/gorm"

type cleanupFilter struct {
	model interface{}
	ids   []int64
}

// Session is handed to the work function of a Scope. DB is bound to the
// scope's transaction (or connection) and must be used for every statement
// that should commit or roll back with the scope.
type Session struct {
	DB *gorm.DB

	postCommit []func(tx *gorm.DB) error
	cleanup    []cleanupFilter
	tracked    []interface{}
}

func newSession(db *gorm.DB) *Session {
	return &Session{
		DB:         db,
		postCommit: make([]func(tx *gorm.DB) error, 0),
		cleanup:    make([]cleanupFilter, 0),
	}
}

// AfterCommit registers an action that runs in a separate transaction once
// the scope has committed. It never runs when the scope fails.
func (s *Session) AfterCommit(action func(tx *gorm.DB) error) {
	s.postCommit = append(s.postCommit, action)
}

// PersistAfterCommit saves objs in a separate transaction once the scope has
// committed.
func (s *Session) PersistAfterCommit(objs ...interface{}) {
	for _, obj := range objs {
		s.AfterCommit(func(tx *gorm.DB) error {
			return tx.Save(obj).Error
		})
	}
}

// CleanupOnFailure deletes the rows of model with the given primary keys if
// the scope ends up failing.
func (s *Session) CleanupOnFailure(model interface{}, ids ...int64) {
	if len(ids) == 0 {
		return
	}
	s.cleanup = append(s.cleanup, cleanupFilter{model: model, ids: ids})
}

// Track registers pointers to persisted entities that are reloaded from
// storage after commit when the scope expunges on close.
func (s *Session) Track(objs ...interface{}) {
	s.tracked = append(s.tracked, objs...)
}
