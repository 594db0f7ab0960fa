// Package services defines the business logic for accounts, debates, rounds,
// and votes. This file centralizes common service-level error values so that
// they can be consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

// Account-related errors.
var (
	// ErrInvalidUsername is returned when a registration username is missing
	// or outside the allowed length.
	ErrInvalidUsername = errors.New("username must be 3-32 characters")

	// ErrWeakPassword is returned when a registration password is shorter
	// than the required minimum.
	ErrWeakPassword = errors.New("password must be at least 8 characters")

	// ErrUsernameTaken is returned when the requested username already exists.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials is returned on login when the username is unknown
	// or the password does not match. The two cases are deliberately
	// indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUserNotFound indicates that the requested user profile does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// Debate-related errors.
var (
	// ErrMissingFields is returned when a create-debate request omits the topic.
	ErrMissingFields = errors.New("topic is required")

	// ErrTopicLength is returned when a debate topic is outside the 3-200
	// character range after trimming.
	ErrTopicLength = errors.New("topic must be 3-200 characters")

	// ErrDebateNotFound indicates that the requested debate does not exist or
	// is not accessible to the current user.
	ErrDebateNotFound = errors.New("debate not found")

	// ErrDebateCompleted is returned when a round is submitted to a debate
	// that has already completed its three rounds.
	ErrDebateCompleted = errors.New("debate already completed")
)

// Round-related errors.
var (
	// ErrRoundOutOfRange is returned when the round number is not 1, 2, or 3.
	ErrRoundOutOfRange = errors.New("round number must be between 1 and 3")

	// ErrArgumentTooShort is returned when a trimmed argument is under the
	// minimum length.
	ErrArgumentTooShort = errors.New("argument must be at least 10 characters")

	// ErrArgumentTooLong is returned when an argument exceeds the word limit.
	ErrArgumentTooLong = errors.New("argument must be at most 150 words")

	// ErrRoundOutOfSequence is returned when the submitted round number would
	// leave a gap (e.g. round 3 before round 2 exists).
	ErrRoundOutOfSequence = errors.New("rounds must be submitted in order")

	// ErrDuplicateRound is returned when the submitted round slot is already
	// filled for this debate.
	ErrDuplicateRound = errors.New("round already submitted")

	// ErrGeneration wraps upstream failures from the counter-argument
	// generator. No round is persisted when generation fails.
	ErrGeneration = errors.New("counter-argument generation failed")
)

// Vote-related errors.
var (
	// ErrInvalidVoteSide is returned when a vote names a side outside the
	// allowed set (currently "human" or "ai").
	ErrInvalidVoteSide = errors.New("vote must be for human or ai")

	// ErrDebateNotCompleted is returned when a vote targets a debate that is
	// still collecting rounds.
	ErrDebateNotCompleted = errors.New("debate is not completed yet")

	// ErrSelfVote is returned when a debate owner attempts to vote on their
	// own debate.
	ErrSelfVote = errors.New("cannot vote on your own debate")

	// ErrDuplicateVote is returned when a user attempts to vote on a debate
	// that they have already voted on.
	ErrDuplicateVote = errors.New("vote already exists")
)
