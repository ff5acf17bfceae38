package game

import "errors"

// Error kinds surfaced by the engine. The HTTP layer maps these to
// status codes with errors.Is; none of them consume a round except
// where ApplyGuess documents otherwise.
var (
	// ErrInvalidWordFormat reports a word that violates the fixed
	// length or alphabet before any scoring is attempted.
	ErrInvalidWordFormat = errors.New("invalid word format")

	// ErrInvalidGuess reports a submitted guess that fails shape
	// validation (length, a-z).
	ErrInvalidGuess = errors.New("invalid guess")

	// ErrWordNotAllowed reports a well-formed guess absent from the
	// allowed dictionary. Recoverable: the player may resubmit.
	ErrWordNotAllowed = errors.New("word not allowed")

	// ErrSessionFinished reports a guess against a session that has
	// already left the playing state.
	ErrSessionFinished = errors.New("session finished")

	// ErrSessionNotFound reports an unknown session id. Raised by the
	// session store, surfaced through the same channel.
	ErrSessionNotFound = errors.New("session not found")
)
