package registry

import "github.com/velkstack/velk/core"

// Class Uids of the built-in classes every instance registers at
// creation. The Uids derive from the bare class name so they are
// stable across builds and match plugin expectations.
var (
	ClassIdProperty = core.MakeHash("Property")
	ClassIdEvent    = core.MakeHash("Event")
	ClassIdFunction = core.MakeHash("Function")
)
