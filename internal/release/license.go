package release

import _ "embed"

// The canonical Apache License 2.0 text, compared whitespace-normalized
// against the LICENSE file shipped in the release.
//
//go:embed apache_license.txt
var apache2LicenseText string
