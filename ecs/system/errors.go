package system

import "errors"

// ErrMissingDependency is reported when an agent needs a collaborator it was
// never given, such as a projectile spawner at firing time.
var ErrMissingDependency = errors.New("hostile: missing dependency")
