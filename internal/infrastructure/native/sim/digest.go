package sim

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"sort"
	"strings"

	"github.com/MGTheTrain/managed-openssl/internal/domain/native"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/md4"
	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
)

type digest struct {
	name    string
	size    int
	newHash func() hash.Hash
}

func (*digest) kindName() string { return "EVP_MD" }

var digestTable = map[string]func() hash.Hash{
	"md4":        func() hash.Hash { return md4.New() },
	"md5":        func() hash.Hash { return md5.New() },
	"sha1":       func() hash.Hash { return sha1.New() },
	"sha224":     func() hash.Hash { return sha256.New224() },
	"sha256":     func() hash.Hash { return sha256.New() },
	"sha384":     func() hash.Hash { return sha512.New384() },
	"sha512":     func() hash.Hash { return sha512.New() },
	"sha512-224": func() hash.Hash { return sha512.New512_224() },
	"sha512-256": func() hash.Hash { return sha512.New512_256() },
	"sha3-224":   func() hash.Hash { return sha3.New224() },
	"sha3-256":   func() hash.Hash { return sha3.New256() },
	"sha3-384":   func() hash.Hash { return sha3.New384() },
	"sha3-512":   func() hash.Hash { return sha3.New512() },
	"blake2b512": newBlake2b512,
	"ripemd160":  func() hash.Hash { return ripemd160.New() },
}

var digestAliases = map[string]string{
	"sha-1":       "sha1",
	"sha-224":     "sha224",
	"sha-256":     "sha256",
	"sha-384":     "sha384",
	"sha-512":     "sha512",
	"sha-512/224": "sha512-224",
	"sha-512/256": "sha512-256",
	"blake2b-512": "blake2b512",
	"rmd160":      "ripemd160",
	"ripemd":      "ripemd160",
}

func newBlake2b512() hash.Hash {
	// only fails for keys longer than 64 bytes
	h, _ := blake2b.New512(nil)
	return h
}

func canonicalDigestName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := digestAliases[name]; ok {
		return alias
	}
	return name
}

// DigestNames returns the canonical names of the emulated digests.
func DigestNames() []string {
	names := make([]string, 0, len(digestTable))
	for name := range digestTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DigestByName implements native.DigestPrimitives. Descriptors are static: they are
// allocated once and never counted as live objects.
func (l *Library) DigestByName(name string) native.Ptr {
	l.mu.Lock()
	defer l.mu.Unlock()

	name = canonicalDigestName(name)
	if p, ok := l.digests[name]; ok {
		return p
	}
	newHash, ok := digestTable[name]
	if !ok {
		return native.Null
	}
	p := l.allocLocked(&digest{name: name, size: newHash().Size(), newHash: newHash})
	l.static[p] = true
	l.digests[name] = p
	return p
}

// DigestSize implements native.DigestPrimitives.
func (l *Library) DigestSize(md native.Ptr) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	d := l.digestLocked(md)
	if d == nil {
		return -1
	}
	return d.size
}

func (l *Library) digestLocked(md native.Ptr) *digest {
	obj, ok := l.objects[md]
	if !ok {
		l.raiseLocked(libEVP, reasonInvalidHandle)
		return nil
	}
	d, ok := obj.(*digest)
	if !ok {
		l.raiseLocked(libEVP, reasonWrongObjectType)
		return nil
	}
	return d
}
