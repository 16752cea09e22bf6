package sim

import (
	"bufio"
	"bytes"
	"errors"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/MGTheTrain/managed-openssl/internal/domain/native"
)

type stream struct {
	kind native.StreamKind

	// memory kinds
	data      []byte
	readOnly  bool
	eofReturn int

	// file kind
	file   *os.File
	reader *bufio.Reader

	// digest kind
	md        *digest
	h         hash.Hash
	finalized bool

	next     native.Ptr
	nread    uint64
	nwritten uint64
}

func (s *stream) kindName() string { return "BIO(" + s.kind.String() + ")" }

func (l *Library) streamLocked(b native.Ptr) *stream {
	if b.IsNull() {
		l.raiseLocked(libBIO, reasonPassedNullParameter)
		return nil
	}
	obj, ok := l.objects[b]
	if !ok {
		l.raiseLocked(libBIO, reasonInvalidHandle)
		return nil
	}
	s, ok := obj.(*stream)
	if !ok {
		l.raiseLocked(libBIO, reasonWrongObjectType)
		return nil
	}
	return s
}

// BIONew implements native.StreamPrimitives. Only methods that need no constructor
// arguments can be created this way.
func (l *Library) BIONew(kind native.StreamKind) native.Ptr {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.faultLocked(OpBIONew) {
		l.raiseLocked(libBIO, reasonMallocFailure)
		return native.Null
	}
	switch kind {
	case native.StreamMemory:
		return l.allocLocked(&stream{kind: kind, eofReturn: -1})
	case native.StreamDigest:
		return l.allocLocked(&stream{kind: kind})
	default:
		l.raiseLocked(libBIO, reasonUnsupportedMethod)
		return native.Null
	}
}

// BIONewMemBuf implements native.StreamPrimitives.
func (l *Library) BIONewMemBuf(buf []byte) native.Ptr {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.faultLocked(OpBIONewMemBuf) {
		l.raiseLocked(libBIO, reasonMallocFailure)
		return native.Null
	}
	return l.allocLocked(&stream{
		kind:     native.StreamMemBuf,
		data:     bytes.Clone(buf),
		readOnly: true,
	})
}

// fopenFlags translates an fopen mode string. The optional 'b' and 't' modifiers are ignored.
func fopenFlags(mode string) (int, bool) {
	base := strings.NewReplacer("b", "", "t", "").Replace(mode)
	switch base {
	case "r":
		return os.O_RDONLY, true
	case "r+":
		return os.O_RDWR, true
	case "w":
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, true
	case "w+":
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC, true
	case "a":
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND, true
	case "a+":
		return os.O_RDWR | os.O_CREATE | os.O_APPEND, true
	default:
		return 0, false
	}
}

// BIONewFile implements native.StreamPrimitives.
func (l *Library) BIONewFile(path, mode string) native.Ptr {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.faultLocked(OpBIONewFile) {
		l.raiseLocked(libBIO, reasonNoSuchFile)
		return native.Null
	}
	flags, ok := fopenFlags(mode)
	if !ok {
		l.raiseLocked(libSys, reasonInvalidMode)
		return native.Null
	}
	f, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		l.raiseLocked(libSys, reasonSystemIO)
		l.raiseLocked(libBIO, reasonNoSuchFile)
		return native.Null
	}
	return l.allocLocked(&stream{kind: native.StreamFile, file: f, reader: bufio.NewReader(f)})
}

// BIOSetMD implements native.StreamPrimitives.
func (l *Library) BIOSetMD(b, md native.Ptr) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.streamLocked(b)
	if s == nil {
		return 0
	}
	if s.kind != native.StreamDigest {
		l.raiseLocked(libBIO, reasonUnsupportedMethod)
		return 0
	}
	d := l.digestLocked(md)
	if d == nil {
		return 0
	}
	s.md = d
	s.h = d.newHash()
	s.finalized = false
	return 1
}

// BIOSetMemEOFReturn implements native.StreamPrimitives.
func (l *Library) BIOSetMemEOFReturn(b native.Ptr, v int) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.streamLocked(b)
	if s == nil {
		return 0
	}
	if s.kind != native.StreamMemory && s.kind != native.StreamMemBuf {
		l.raiseLocked(libBIO, reasonUnsupportedMethod)
		return 0
	}
	s.eofReturn = v
	return 1
}

// BIOWrite implements native.StreamPrimitives.
func (l *Library) BIOWrite(b native.Ptr, buf []byte) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.faultLocked(OpBIOWrite) {
		l.raiseLocked(libBIO, reasonBrokenPipe)
		return -1
	}
	return l.writeLocked(b, buf)
}

func (l *Library) writeLocked(b native.Ptr, buf []byte) int {
	s := l.streamLocked(b)
	if s == nil {
		return -1
	}
	if len(buf) == 0 {
		return 0
	}

	var n int
	switch s.kind {
	case native.StreamMemory, native.StreamMemBuf:
		if s.readOnly {
			l.raiseLocked(libBIO, reasonWriteToReadOnly)
			return -1
		}
		s.data = append(s.data, buf...)
		n = len(buf)
	case native.StreamFile:
		written, err := s.file.Write(buf)
		if err != nil && written == 0 {
			l.raiseLocked(libSys, reasonSystemIO)
			return -1
		}
		n = written
	case native.StreamDigest:
		if s.h == nil {
			l.raiseLocked(libEVP, reasonNoDigestSet)
			return -1
		}
		if s.finalized {
			l.raiseLocked(libEVP, reasonDigestFinalized)
			return -1
		}
		if s.next.IsNull() {
			return 0
		}
		n = l.writeLocked(s.next, buf)
		if n > 0 {
			s.h.Write(buf[:n])
		}
	default:
		l.raiseLocked(libBIO, reasonUnsupportedMethod)
		return -2
	}
	if n > 0 {
		s.nwritten += uint64(n)
	}
	return n
}

// BIORead implements native.StreamPrimitives.
func (l *Library) BIORead(b native.Ptr, buf []byte) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.faultLocked(OpBIORead) {
		l.raiseLocked(libBIO, reasonBrokenPipe)
		return -1
	}
	return l.readLocked(b, buf)
}

func (l *Library) readLocked(b native.Ptr, buf []byte) int {
	s := l.streamLocked(b)
	if s == nil {
		return -1
	}
	if len(buf) == 0 {
		return 0
	}

	var n int
	switch s.kind {
	case native.StreamMemory, native.StreamMemBuf:
		if len(s.data) == 0 {
			if s.readOnly {
				return 0
			}
			return s.eofReturn
		}
		n = copy(buf, s.data)
		s.data = s.data[n:]
	case native.StreamFile:
		read, err := s.reader.Read(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			l.raiseLocked(libSys, reasonSystemIO)
			return -1
		}
		n = read
	case native.StreamDigest:
		if s.h == nil {
			l.raiseLocked(libEVP, reasonNoDigestSet)
			return -1
		}
		if s.next.IsNull() {
			return 0
		}
		n = l.readLocked(s.next, buf)
		if n > 0 && !s.finalized {
			s.h.Write(buf[:n])
		}
	default:
		l.raiseLocked(libBIO, reasonUnsupportedMethod)
		return -2
	}
	if n > 0 {
		s.nread += uint64(n)
	}
	return n
}

// BIOPuts implements native.StreamPrimitives.
func (l *Library) BIOPuts(b native.Ptr, str string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i := strings.IndexByte(str, 0); i >= 0 {
		str = str[:i]
	}
	st := l.streamLocked(b)
	if st == nil {
		return -1
	}
	// the md filter has no puts method
	if st.kind == native.StreamDigest {
		l.raiseLocked(libBIO, reasonUnsupportedMethod)
		return -2
	}
	if l.faultLocked(OpBIOWrite) {
		l.raiseLocked(libBIO, reasonBrokenPipe)
		return -1
	}
	return l.writeLocked(b, []byte(str))
}

// BIOGets implements native.StreamPrimitives.
func (l *Library) BIOGets(b native.Ptr, buf []byte) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.streamLocked(b)
	if s == nil {
		return -1
	}
	if l.faultLocked(OpBIOGets) {
		l.raiseLocked(libBIO, reasonBrokenPipe)
		return -1
	}
	if len(buf) == 0 {
		return 0
	}
	if s.kind == native.StreamDigest {
		return l.digestGetsLocked(s, buf)
	}
	limit := len(buf) - 1

	var n int
	switch s.kind {
	case native.StreamMemory, native.StreamMemBuf:
		for n < limit && n < len(s.data) {
			buf[n] = s.data[n]
			n++
			if buf[n-1] == '\n' {
				break
			}
		}
		s.data = s.data[n:]
	case native.StreamFile:
		for n < limit {
			c, err := s.reader.ReadByte()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				l.raiseLocked(libSys, reasonSystemIO)
				return -1
			}
			buf[n] = c
			n++
			if c == '\n' {
				break
			}
		}
	default:
		l.raiseLocked(libBIO, reasonUnsupportedMethod)
		return -2
	}
	buf[n] = 0
	if n > 0 {
		s.nread += uint64(n)
	}
	return n
}

// digestGetsLocked finalizes the digest into buf, as the native md filter's gets does.
// A buffer shorter than the digest gets nothing. The sum is not NUL terminated and is not
// counted as bytes read.
func (l *Library) digestGetsLocked(s *stream, buf []byte) int {
	if s.h == nil {
		l.raiseLocked(libEVP, reasonNoDigestSet)
		return -1
	}
	if len(buf) < s.h.Size() {
		return 0
	}
	if s.finalized {
		l.raiseLocked(libEVP, reasonDigestFinalized)
		return -1
	}
	s.finalized = true
	return copy(buf, s.h.Sum(nil))
}

// BIOPush implements native.StreamPrimitives.
func (l *Library) BIOPush(b, next native.Ptr) native.Ptr {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.faultLocked(OpBIOPush) {
		l.raiseLocked(libBIO, reasonMallocFailure)
		return native.Null
	}
	head := l.streamLocked(b)
	if head == nil {
		return native.Null
	}
	if !next.IsNull() {
		if l.streamLocked(next) == nil {
			return native.Null
		}
		for p := next; !p.IsNull(); p = l.nextLocked(p) {
			if p == b {
				l.raiseLocked(libBIO, reasonChainCycle)
				return native.Null
			}
		}
	}

	tail := head
	for !tail.next.IsNull() {
		s, ok := l.objects[tail.next].(*stream)
		if !ok {
			// downstream node was released behind the chain's back
			l.raiseLocked(libBIO, reasonInvalidHandle)
			return native.Null
		}
		tail = s
	}
	tail.next = next
	return b
}

func (l *Library) nextLocked(p native.Ptr) native.Ptr {
	if s, ok := l.objects[p].(*stream); ok {
		return s.next
	}
	return native.Null
}

// BIOFree implements native.StreamPrimitives.
func (l *Library) BIOFree(b native.Ptr) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.streamLocked(b)
	if s == nil {
		return 0
	}
	if s.file != nil {
		_ = s.file.Close()
	}
	l.releaseLocked(b)
	return 1
}

// BIONumberRead implements native.StreamPrimitives.
func (l *Library) BIONumberRead(b native.Ptr) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s := l.streamLocked(b); s != nil {
		return s.nread
	}
	return 0
}

// BIONumberWritten implements native.StreamPrimitives.
func (l *Library) BIONumberWritten(b native.Ptr) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s := l.streamLocked(b); s != nil {
		return s.nwritten
	}
	return 0
}

// BIODigestFinal implements native.StreamPrimitives.
func (l *Library) BIODigestFinal(b native.Ptr) []byte {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.streamLocked(b)
	if s == nil {
		return nil
	}
	if s.kind != native.StreamDigest {
		l.raiseLocked(libBIO, reasonUnsupportedMethod)
		return nil
	}
	if s.h == nil {
		l.raiseLocked(libEVP, reasonNoDigestSet)
		return nil
	}
	if s.finalized {
		l.raiseLocked(libEVP, reasonDigestFinalized)
		return nil
	}
	if l.faultLocked(OpDigestFinal) {
		l.raiseLocked(libEVP, reasonMallocFailure)
		return nil
	}
	s.finalized = true
	return s.h.Sum(nil)
}
