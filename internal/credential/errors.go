// Package credential resolves FTP credentials from the user-scoped store,
// the environment and the project settings file, in that order.
package credential

import "errors"

// ErrStore indicates the credential store could not be read or written.
var ErrStore = errors.New("credential: store unavailable")
