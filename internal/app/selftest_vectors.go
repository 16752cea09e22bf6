package app

import "github.com/MGTheTrain/managed-openssl/internal/domain/digests"

const (
	nistTwoBlock  = "abcdbcdecdefdefgefghfghighijhijkijkljklmklmnlmnomnopnopq"
	nistTwoBlock2 = "abcdefghbcdefghicdefghijdefghijkefghijklfghijklmghijklmnhijklmnoijklmnopjklmnopqklmnopqrlmnopqrsmnopqrstnopqrstu"
)

// implementedSelfTests carries the known-answer vectors of the digests the façade can reach.
var implementedSelfTests = []digests.SelfTest{
	{
		Name:      "md4",
		Algorithm: "md4",
		Vectors: []digests.SelfTestVector{
			{Input: "", Expected: "31d6cfe0d16ae931b73c59d7e0c089c0"},
			{Input: "abc", Expected: "a448017aaf21d8525fc10ae87aa6729d"},
			{Input: "message digest", Expected: "d9130a8164549fe818874806e1c7014b"},
		},
	},
	{
		Name:      "md5",
		Algorithm: "md5",
		Vectors: []digests.SelfTestVector{
			{Input: "", Expected: "d41d8cd98f00b204e9800998ecf8427e"},
			{Input: "abc", Expected: "900150983cd24fb0d6963f7d28e17f72"},
			{Input: "message digest", Expected: "f96b697d7cb7938d525a2f31aaf161d0"},
		},
	},
	{
		Name:      "rmd",
		Algorithm: "ripemd160",
		Vectors: []digests.SelfTestVector{
			{Input: "", Expected: "9c1185a5c5e9fc54612808977ee8f548b2258d31"},
			{Input: "abc", Expected: "8eb208f7e05d987a9b044a8e98c6b087f15a0bfc"},
			{Input: "message digest", Expected: "5d0689ef49d2fae572b881b123a85ffa21595f36"},
		},
	},
	{
		Name:      "sha1",
		Algorithm: "sha1",
		Vectors: []digests.SelfTestVector{
			{Input: "abc", Expected: "a9993e364706816aba3e25717850c26c9cd0d89d"},
			{Input: nistTwoBlock, Expected: "84983e441c3bd26ebaae4aa1f95129e5e54670f1"},
			{Input: "a", Repeat: 1000000, Expected: "34aa973cd4c4daa4f61eeb2bdbad27316534016f"},
		},
	},
	{
		Name:      "sha256",
		Algorithm: "sha256",
		Vectors: []digests.SelfTestVector{
			{Input: "abc", Expected: "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
			{Input: nistTwoBlock, Expected: "248d6a61d20638b8e5c026930c3e6039a33ce45964ff2167f6ecedd419db06c1"},
			{Input: "a", Repeat: 1000000, Expected: "cdc76e5c9914fb9281a1c7e284d73e67f1809a48a497200e046d39ccc7112cd0"},
		},
	},
	{
		Name:      "sha512",
		Algorithm: "sha512",
		Vectors: []digests.SelfTestVector{
			{Input: "abc", Expected: "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f"},
			{Input: nistTwoBlock2, Expected: "8e959b75dae313da8cf4f72814fc143f8f7779c6eb9f7fa17299aeadb6889018501d289e4900f7e4331b99dec4b5433ac7d329eeb6dd26545e96e55b874be909"},
			{Input: "a", Repeat: 1000000, Expected: "e718483d0ce769644e2e42c7bc15b4638e1f98b13b2044285632a803afa973ebde0ff244877ea60a4cb0432ce577c31beb009c5c2c49aa2e4eadb217ad8cc09b"},
		},
	},
}

// pendingSelfTests are listed but have no vectors. "sha" is SHA-0, which current
// toolkits no longer ship.
var pendingSelfTests = []string{
	"bf", "bn", "cast", "des", "dh", "dsa", "dummy", "ec", "ecdh", "ecdsa", "engine", "evp",
	"exp", "hmac", "idea", "ige", "md2", "mdc2", "meth", "r160", "rand", "rc2", "rc4", "rc5",
	"rsa", "sha",
}
