// checksums/checksums.go

// Package checksums carries the release checksum manifest inside the
// binary, so verified installs work from any working directory.
package checksums

import _ "embed"

//go:embed wchisp_checksums.txt
var Manifest []byte
