package machine

import "github.com/tstone/frontbox-go/protocol"

// errCapacity is raised when virtual switch allocation is exhausted.
// Per spec.md §7 this is a programmer error and the Builder panics on it
// rather than absorbing it like runtime errors.
var errCapacity = protocol.ErrCapacity
