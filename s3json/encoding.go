package s3json

import "strings"

// ContentEncoding é o valor de Content-Encoding de um objeto.
type ContentEncoding string

const (
	EncodingIdentity ContentEncoding = ""
	EncodingGzip     ContentEncoding = "gzip"
)

// ParseContentEncoding normaliza o valor recebido do S3 ou do chamador.
// "x-gzip" é tratado como gzip; outros valores são mantidos como estão.
func ParseContentEncoding(s string) ContentEncoding {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", "identity":
		return EncodingIdentity
	case "gzip", "x-gzip":
		return EncodingGzip
	default:
		return ContentEncoding(v)
	}
}

// IsGzip indica se o corpo deve ser comprimido/descomprimido com gzip.
func (e ContentEncoding) IsGzip() bool {
	return e == EncodingGzip
}

func (e ContentEncoding) String() string {
	return string(e)
}
