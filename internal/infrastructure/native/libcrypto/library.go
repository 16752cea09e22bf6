//go:build openssl && cgo

package libcrypto

/*
#cgo pkg-config: libcrypto
#include <stdlib.h>
#include <string.h>
#include <openssl/asn1.h>
#include <openssl/bio.h>
#include <openssl/err.h>
#include <openssl/evp.h>
#include <openssl/opensslv.h>
#include <openssl/stack.h>
#if OPENSSL_VERSION_NUMBER >= 0x30000000L
#include <openssl/provider.h>
#endif

// md4 and the other legacy digests live in the legacy provider. Loading any provider
// explicitly turns off the implicit default one, so both are loaded.
static int mo_load_legacy_provider(void) {
#if OPENSSL_VERSION_NUMBER >= 0x30000000L
	if (OSSL_PROVIDER_load(NULL, "default") == NULL) {
		return 0;
	}
	return OSSL_PROVIDER_load(NULL, "legacy") != NULL;
#else
	return 1;
#endif
}

static long mo_bio_set_md(BIO *b, const EVP_MD *md) {
	return BIO_set_md(b, md);
}

static long mo_bio_set_mem_eof_return(BIO *b, int v) {
	return BIO_set_mem_eof_return(b, v);
}

static int mo_bio_digest_final(BIO *b, unsigned char *out, unsigned int *len) {
	EVP_MD_CTX *ctx = NULL;
	if (BIO_get_md_ctx(b, &ctx) <= 0 || ctx == NULL) {
		return 0;
	}
	return EVP_DigestFinal_ex(ctx, out, len);
}
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/MGTheTrain/managed-openssl/internal/domain/native"
	"github.com/MGTheTrain/managed-openssl/internal/infrastructure/native/backend"
	"github.com/MGTheTrain/managed-openssl/internal/pkg/config"
)

// BackendName identifies this backend in settings and diagnostics.
const BackendName = config.BackendOpenSSL

func init() {
	backend.Register(BackendName, func() (native.Library, error) {
		return New(), nil
	})
}

var (
	legacyOnce   sync.Once
	legacyLoaded bool
)

// loadLegacyProvider makes the legacy digests available once per process. When the
// provider is missing they stay unavailable and DigestByName reports them unknown.
func loadLegacyProvider() {
	legacyOnce.Do(func() {
		legacyLoaded = C.mo_load_legacy_provider() == 1
		C.ERR_clear_error()
	})
}

// LegacyDigests reports whether the legacy digests (md4 and friends) could be loaded.
func LegacyDigests() bool {
	loadLegacyProvider()
	return legacyLoaded
}

// Library calls libcrypto. It keeps the C copies backing read-only memory streams
// alive until the stream is freed.
type Library struct {
	mu      sync.Mutex
	memBufs map[native.Ptr]unsafe.Pointer
}

var _ native.Library = (*Library)(nil)

// New returns a libcrypto-backed library.
func New() *Library {
	loadLegacyProvider()
	return &Library{memBufs: make(map[native.Ptr]unsafe.Pointer)}
}

// Name implements native.Library.
func (l *Library) Name() string {
	return BackendName
}

func toPtr(p unsafe.Pointer) native.Ptr {
	return native.Ptr(uintptr(p))
}

func raw(p native.Ptr) unsafe.Pointer {
	return unsafe.Pointer(uintptr(p)) //nolint:govet // p always holds C memory
}

func stack(sk native.Ptr) *C.OPENSSL_STACK {
	return (*C.OPENSSL_STACK)(raw(sk))
}

func bio(b native.Ptr) *C.BIO {
	return (*C.BIO)(raw(b))
}

// SkNewNull implements native.ListPrimitives.
func (l *Library) SkNewNull() native.Ptr {
	return toPtr(unsafe.Pointer(C.OPENSSL_sk_new_null()))
}

// SkPush implements native.ListPrimitives.
func (l *Library) SkPush(sk, p native.Ptr) int {
	return int(C.OPENSSL_sk_push(stack(sk), raw(p)))
}

// SkShift implements native.ListPrimitives.
func (l *Library) SkShift(sk native.Ptr) native.Ptr {
	return toPtr(C.OPENSSL_sk_shift(stack(sk)))
}

// SkInsert implements native.ListPrimitives.
func (l *Library) SkInsert(sk, p native.Ptr, where int) int {
	return int(C.OPENSSL_sk_insert(stack(sk), raw(p), C.int(where)))
}

// SkDelete implements native.ListPrimitives.
func (l *Library) SkDelete(sk native.Ptr, where int) native.Ptr {
	return toPtr(C.OPENSSL_sk_delete(stack(sk), C.int(where)))
}

// SkDeletePtr implements native.ListPrimitives.
func (l *Library) SkDeletePtr(sk, p native.Ptr) native.Ptr {
	return toPtr(C.OPENSSL_sk_delete_ptr(stack(sk), raw(p)))
}

// SkFind implements native.ListPrimitives. Lists created by SkNewNull have no
// comparator, so the native search compares pointers.
func (l *Library) SkFind(sk, p native.Ptr) int {
	return int(C.OPENSSL_sk_find(stack(sk), raw(p)))
}

// SkValue implements native.ListPrimitives.
func (l *Library) SkValue(sk native.Ptr, i int) native.Ptr {
	return toPtr(C.OPENSSL_sk_value(stack(sk), C.int(i)))
}

// SkNum implements native.ListPrimitives.
func (l *Library) SkNum(sk native.Ptr) int {
	return int(C.OPENSSL_sk_num(stack(sk)))
}

// SkZero implements native.ListPrimitives.
func (l *Library) SkZero(sk native.Ptr) {
	C.OPENSSL_sk_zero(stack(sk))
}

// SkFree implements native.ListPrimitives.
func (l *Library) SkFree(sk native.Ptr) {
	C.OPENSSL_sk_free(stack(sk))
}

// BIONew implements native.StreamPrimitives.
func (l *Library) BIONew(kind native.StreamKind) native.Ptr {
	switch kind {
	case native.StreamMemory:
		return toPtr(unsafe.Pointer(C.BIO_new(C.BIO_s_mem())))
	case native.StreamDigest:
		return toPtr(unsafe.Pointer(C.BIO_new(C.BIO_f_md())))
	default:
		return native.Null
	}
}

// BIONewMemBuf implements native.StreamPrimitives. The data is copied into C memory
// that lives as long as the stream.
func (l *Library) BIONewMemBuf(buf []byte) native.Ptr {
	cbuf := C.malloc(C.size_t(max(len(buf), 1)))
	if cbuf == nil {
		return native.Null
	}
	if len(buf) > 0 {
		copy(unsafe.Slice((*byte)(cbuf), len(buf)), buf)
	}

	b := toPtr(unsafe.Pointer(C.BIO_new_mem_buf(cbuf, C.int(len(buf)))))
	if b.IsNull() {
		C.free(cbuf)
		return native.Null
	}

	l.mu.Lock()
	l.memBufs[b] = cbuf
	l.mu.Unlock()
	return b
}

// BIONewFile implements native.StreamPrimitives.
func (l *Library) BIONewFile(path, mode string) native.Ptr {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	cmode := C.CString(mode)
	defer C.free(unsafe.Pointer(cmode))

	return toPtr(unsafe.Pointer(C.BIO_new_file(cpath, cmode)))
}

// BIOSetMD implements native.StreamPrimitives.
func (l *Library) BIOSetMD(b, md native.Ptr) int {
	return int(C.mo_bio_set_md(bio(b), (*C.EVP_MD)(raw(md))))
}

// BIOSetMemEOFReturn implements native.StreamPrimitives.
func (l *Library) BIOSetMemEOFReturn(b native.Ptr, v int) int {
	return int(C.mo_bio_set_mem_eof_return(bio(b), C.int(v)))
}

// BIOWrite implements native.StreamPrimitives.
func (l *Library) BIOWrite(b native.Ptr, buf []byte) int {
	if len(buf) == 0 {
		return 0
	}
	return int(C.BIO_write(bio(b), unsafe.Pointer(&buf[0]), C.int(len(buf))))
}

// BIORead implements native.StreamPrimitives.
func (l *Library) BIORead(b native.Ptr, buf []byte) int {
	if len(buf) == 0 {
		return 0
	}
	return int(C.BIO_read(bio(b), unsafe.Pointer(&buf[0]), C.int(len(buf))))
}

// BIOPuts implements native.StreamPrimitives.
func (l *Library) BIOPuts(b native.Ptr, s string) int {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))
	return int(C.BIO_puts(bio(b), cs))
}

// BIOGets implements native.StreamPrimitives.
func (l *Library) BIOGets(b native.Ptr, buf []byte) int {
	if len(buf) == 0 {
		return 0
	}
	return int(C.BIO_gets(bio(b), (*C.char)(unsafe.Pointer(&buf[0])), C.int(len(buf))))
}

// BIOPush implements native.StreamPrimitives.
func (l *Library) BIOPush(b, next native.Ptr) native.Ptr {
	return toPtr(unsafe.Pointer(C.BIO_push(bio(b), bio(next))))
}

// BIOFree implements native.StreamPrimitives.
func (l *Library) BIOFree(b native.Ptr) int {
	ret := int(C.BIO_free(bio(b)))

	l.mu.Lock()
	cbuf, ok := l.memBufs[b]
	delete(l.memBufs, b)
	l.mu.Unlock()
	if ok {
		C.free(cbuf)
	}
	return ret
}

// BIONumberRead implements native.StreamPrimitives.
func (l *Library) BIONumberRead(b native.Ptr) uint64 {
	return uint64(C.BIO_number_read(bio(b)))
}

// BIONumberWritten implements native.StreamPrimitives.
func (l *Library) BIONumberWritten(b native.Ptr) uint64 {
	return uint64(C.BIO_number_written(bio(b)))
}

// BIODigestFinal implements native.StreamPrimitives.
func (l *Library) BIODigestFinal(b native.Ptr) []byte {
	out := (*C.uchar)(C.malloc(C.EVP_MAX_MD_SIZE))
	defer C.free(unsafe.Pointer(out))

	var n C.uint
	if C.mo_bio_digest_final(bio(b), out, &n) != 1 {
		return nil
	}
	return C.GoBytes(unsafe.Pointer(out), C.int(n))
}

// DigestByName implements native.DigestPrimitives.
func (l *Library) DigestByName(name string) native.Ptr {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return toPtr(unsafe.Pointer(C.EVP_get_digestbyname(cname)))
}

// DigestSize implements native.DigestPrimitives.
func (l *Library) DigestSize(md native.Ptr) int {
	if md.IsNull() {
		return -1
	}
	return int(C.EVP_MD_get_size((*C.EVP_MD)(raw(md))))
}

// OctetStringNew implements native.RecordPrimitives.
func (l *Library) OctetStringNew(data []byte) native.Ptr {
	s := C.ASN1_OCTET_STRING_new()
	if s == nil {
		return native.Null
	}
	var p *C.uchar
	if len(data) > 0 {
		p = (*C.uchar)(unsafe.Pointer(&data[0]))
	}
	if C.ASN1_OCTET_STRING_set(s, p, C.int(len(data))) != 1 {
		C.ASN1_OCTET_STRING_free(s)
		return native.Null
	}
	return toPtr(unsafe.Pointer(s))
}

// OctetStringData implements native.RecordPrimitives.
func (l *Library) OctetStringData(p native.Ptr) []byte {
	if p.IsNull() {
		return nil
	}
	s := (*C.ASN1_STRING)(raw(p))
	n := C.ASN1_STRING_length(s)
	if n < 0 {
		return nil
	}
	if n == 0 {
		return []byte{}
	}
	return C.GoBytes(unsafe.Pointer(C.ASN1_STRING_get0_data(s)), n)
}

// OctetStringFree implements native.RecordPrimitives.
func (l *Library) OctetStringFree(p native.Ptr) {
	C.ASN1_OCTET_STRING_free((*C.ASN1_OCTET_STRING)(raw(p)))
}

// ErrGetError implements native.ErrorQueue.
func (l *Library) ErrGetError() uint64 {
	return uint64(C.ERR_get_error())
}

// ErrErrorString implements native.ErrorQueue.
func (l *Library) ErrErrorString(code uint64) string {
	buf := (*C.char)(C.malloc(256))
	defer C.free(unsafe.Pointer(buf))

	C.ERR_error_string_n(C.ulong(code), buf, 256)
	return C.GoString(buf)
}

// ErrClearError implements native.ErrorQueue.
func (l *Library) ErrClearError() {
	C.ERR_clear_error()
}
