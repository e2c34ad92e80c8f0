package apperror

import "errors"

// Sentinels shared across layers: raised by the repository, branched on
// by the usecase and transports.
var ErrSessionNotFound = errors.New("session not found")
