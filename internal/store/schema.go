package store

// Schema for the four record kinds. Ids are engine-assigned rowids;
// user guids are unique by convention, not constraint.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id integer primary key autoincrement,
	guid text not null,
	name text,
	email text,
	picture text);

CREATE TABLE IF NOT EXISTS notes (
	id integer primary key autoincrement,
	owner_id integer,
	contents text,
	foreign key(owner_id) references users(id));

CREATE TABLE IF NOT EXISTS comments (
	id integer primary key autoincrement,
	owner_id integer,
	note_id integer,
	contents text,
	foreign key(owner_id) references users(id),
	foreign key(note_id) references notes(id));

CREATE TABLE IF NOT EXISTS punches (
	id integer primary key autoincrement,
	owner_id integer,
	geo text,
	foreign key(owner_id) references users(id));
`

const dropAll = `
DROP TABLE IF EXISTS comments;
DROP TABLE IF EXISTS punches;
DROP TABLE IF EXISTS notes;
DROP TABLE IF EXISTS users;
`

// EnsureSchema creates any missing tables.
func (s *Store) EnsureSchema() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(schema)
	return err
}

// Reset drops and recreates every table.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(dropAll); err != nil {
		return err
	}
	_, err := s.db.Exec(schema)
	return err
}
