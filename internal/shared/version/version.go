// Package version exposes the product version stamped into outgoing mail.
package version

import (
	"fmt"

	"github.com/verbatim-inc/verbatim/internal/shared/constants"
)

// Version is overridden at build time with
// -ldflags "-X github.com/verbatim-inc/verbatim/internal/shared/version.Version=1.2.3".
var Version = "dev"

// Mailer returns the X-Mailer identification string, e.g. "Verbatim 1.2.3".
func Mailer() string {
	return fmt.Sprintf("%s %s", constants.ProductName, Version)
}
