package native

// StreamKind selects the native stream method.
type StreamKind int

const (
	// StreamMemory is a growable, library-managed memory sink/source.
	StreamMemory StreamKind = iota + 1
	// StreamMemBuf is a read-only memory region.
	StreamMemBuf
	// StreamFile is backed by a file opened with an fopen mode string.
	StreamFile
	// StreamDigest is a message-digest pass-through filter.
	StreamDigest
)

// String returns the native method name.
func (k StreamKind) String() string {
	switch k {
	case StreamMemory:
		return "memory buffer"
	case StreamMemBuf:
		return "read-only memory buffer"
	case StreamFile:
		return "FILE pointer"
	case StreamDigest:
		return "message digest"
	default:
		return "unknown"
	}
}

// IsFilter reports whether streams of this kind pass bytes to a downstream node.
func (k StreamKind) IsFilter() bool {
	return k == StreamDigest
}
