package testutil

import "errors"

// ErrSimulated is returned by test doubles to drive failure paths
// (a store that refuses writes, a collaborator that is down).
var ErrSimulated = errors.New("simulated failure")
