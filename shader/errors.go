package shader

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// Sentinel errors for malformed bytecode, mirroring the teacher's
// package-level errcode sentinels (errProgramFinished, errSegmentationFault, ...).
var (
	errTruncatedStream   = errors.New("truncated bytecode stream")
	errMissingVersionHdr = errors.New("bytecode stream is too short to contain a version token")
)

// wrapAt adds positional context (DWORD offset into the stream) to a
// sentinel decode error, the way ausocean-av/codec/h264/h264dec wraps its
// bitstream-parsing sentinels with pkg/errors.
func wrapAt(err error, dwordOffset int) error {
	return pkgerrors.Wrapf(err, "at DWORD offset %d", dwordOffset)
}
