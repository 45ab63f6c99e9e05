// Package seed generates internally consistent synthetic data for the
// platform schema. This file holds the missing-prerequisite errors that
// generators return when an earlier phase produced nothing to build on.
//
// The runner logs these and moves on to the next phase; they never abort a run.
package seed

import "errors"

var (
	// ErrNoUsers is returned by phases that need at least one user.
	ErrNoUsers = errors.New("no users available")

	// ErrNoSources is returned by phases that need at least one source.
	ErrNoSources = errors.New("no sources available")

	// ErrNoCategories is returned when the categories table is empty.
	ErrNoCategories = errors.New("no categories available")

	// ErrTooFewUsers is returned by phases that pair two distinct users.
	ErrTooFewUsers = errors.New("at least two users are required")

	// ErrNoContacts is returned by the chats phase when no confirmed contact
	// pair exists to open a chat for.
	ErrNoContacts = errors.New("no confirmed contacts available")
)

// isPrerequisite reports whether err is a missing-prerequisite condition.
func isPrerequisite(err error) bool {
	return errors.Is(err, ErrNoUsers) ||
		errors.Is(err, ErrNoSources) ||
		errors.Is(err, ErrNoCategories) ||
		errors.Is(err, ErrTooFewUsers) ||
		errors.Is(err, ErrNoContacts)
}
