package sim

// Primitive names accepted by FailNext.
const (
	OpSkNewNull      = "sk_new_null"
	OpSkPush         = "sk_push"
	OpSkInsert       = "sk_insert"
	OpSkNum          = "sk_num"
	OpBIONew         = "BIO_new"
	OpBIONewMemBuf   = "BIO_new_mem_buf"
	OpBIONewFile     = "BIO_new_file"
	OpBIOWrite       = "BIO_write"
	OpBIORead        = "BIO_read"
	OpBIOGets        = "BIO_gets"
	OpBIOPush        = "BIO_push"
	OpOctetStringNew = "ASN1_OCTET_STRING_new"
	OpDigestFinal    = "EVP_DigestFinal_ex"
)
