package lifecycle

import "errors"

var ErrRemoteRejected = errors.New("transition rejected by backend")
