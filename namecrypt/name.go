package namecrypt

import (
	"crypto/md5"
	"strings"
)

const slimSuffix = "~slim"

// GenerateName hashes id with MD5 and renders every bit of the digest,
// most significant first, as '*' (set) or ':' (clear).
func GenerateName(id string) string {
	const tbl = ":*"

	sum := md5.Sum([]byte(id))
	out := make([]byte, 0, md5.Size*8)
	for _, b := range sum {
		for i := 7; i >= 0; i-- {
			out = append(out, tbl[(b>>i)&1])
		}
	}
	return string(out)
}

// BuildFilename returns the obfuscated filename for a manifest item.
func BuildFilename(id, href string) string {
	idName, _, _ := strings.Cut(id, ".")

	var ext string
	if i := strings.LastIndexByte(href, '.'); i >= 0 {
		ext = strings.ToLower(href[i+1:])
	}

	base := href[strings.LastIndexByte(href, '/')+1:]
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}

	suffix := ""
	input := idName
	if strings.HasSuffix(base, "slim") || strings.HasSuffix(idName, "slim") {
		suffix = slimSuffix
		for _, s := range []string{"~slim", "-slim", "_slim", "slim"} {
			input = trimAllSuffix(input, s)
		}
	}

	return "_" + GenerateName(input) + suffix + "." + ext
}

func trimAllSuffix(s, suffix string) string {
	for strings.HasSuffix(s, suffix) {
		s = s[:len(s)-len(suffix)]
	}
	return s
}
