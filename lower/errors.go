package lower

import "errors"

var (
	ErrInvariantViolation    = errors.New("invariant violation")
	ErrMissingLoopInfo       = errors.New("loop emitter requires loop information")
	ErrMissingCollaborator   = errors.New("lowerer is missing a collaborator")
	ErrUnsupportedTerminator = errors.New("unsupported terminator")
	ErrMissingMnemonic       = errors.New("missing mnemonic")
)
