package database

import "errors"

var (
	// ErrDatabaseNotFound is returned when opening a database that does not
	// exist without CreateIfNotExists.
	ErrDatabaseNotFound = errors.New("database not found")

	// ErrRecordNotFound is returned when no comparison has the requested id.
	ErrRecordNotFound = errors.New("comparison not found")
)
