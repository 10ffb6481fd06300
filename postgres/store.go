package postgres

// A Store provides the conventional record operations a resource's delegates wrap:
// FindByID, All, Create, Update, Delete.
//
// Failure states surface as switchback error kinds -
// a missing record is switchback.ErrNotExist, a constraint violation
// switchback.ErrNotValid or switchback.ErrExists -
// so routes can map them to fallback actions.
type Store[T any] struct {
	db *DB
}

// NewStore constructs a *Store persisting T records through db.
func NewStore[T any](db *DB) *Store[T] {
	return &Store[T]{db: db}
}

// All retrieves every T record, oldest first.
func (s *Store[T]) All() ([]T, error) {
	var recs []T
	if err := s.db.Order("id ASC").Find(&recs); err != nil {
		return nil, err
	}

	return recs, nil
}

// FindByID retrieves the T record by its primary key.
func (s *Store[T]) FindByID(id int) (T, error) {
	var rec T
	err := s.db.Where("id = ?", id).First(&rec)
	return rec, err
}

// Create inserts rec, updating it with database-assigned data.
func (s *Store[T]) Create(rec *T) error {
	return s.db.Create(rec)
}

// Update applies values to the record with the primary key
// and retrieves the updated record.
func (s *Store[T]) Update(id int, values Updates) (T, error) {
	var rec T
	if err := s.db.Model(&rec).Where("id = ?", id).Update(values); err != nil {
		return rec, err
	}

	return s.FindByID(id)
}

// Delete removes the record with the primary key, returning it as last persisted.
func (s *Store[T]) Delete(id int) (T, error) {
	rec, err := s.FindByID(id)
	if err != nil {
		return rec, err
	}

	if err := s.db.Delete(&rec); err != nil {
		return rec, err
	}

	return rec, nil
}

// Paged retrieves the requested page of T records alongside pagination metadata.
func (s *Store[T]) Paged(page, perPage int64) (PagedData, error) {
	return s.db.Model(new(T)).Paged(page, perPage)
}
