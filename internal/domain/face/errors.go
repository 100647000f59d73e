package face

import "errors"

var (
	// ErrDimensionMismatch means two vectors of different lengths were
	// compared. For stored candidates this indicates corrupt data.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrFaceAlreadyRegistered means the submitted face matches an
	// embedding enrolled by a different user.
	ErrFaceAlreadyRegistered = errors.New("this face is already registered to another account")

	// ErrConfirmMismatch means the two enrollment captures do not look
	// like the same person.
	ErrConfirmMismatch = errors.New("confirmation image does not match the first capture")

	ErrEmbeddingNotFound = errors.New("face embedding not found")

	// ErrNoFaceRegistered means verification was attempted for a user with
	// no enrolled embeddings.
	ErrNoFaceRegistered = errors.New("no face registered for this account")
)
