package checksum

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Sums holds the digests computed over one read of a file.
type Sums struct {
	MD5  string
	SHA1 string
}

// File computes the MD5 and SHA-1 digests of the file at path in a single
// pass and returns them as lowercase hex strings.
func File(path string) (Sums, error) {
	f, err := os.Open(path)
	if err != nil {
		return Sums{}, fmt.Errorf("opening %s for checksums: %w", path, err)
	}
	defer f.Close()

	md5Hash := md5.New()
	sha1Hash := sha1.New()
	if _, err := io.Copy(io.MultiWriter(md5Hash, sha1Hash), f); err != nil {
		return Sums{}, fmt.Errorf("hashing %s: %w", path, err)
	}

	return Sums{
		MD5:  hex.EncodeToString(md5Hash.Sum(nil)),
		SHA1: hex.EncodeToString(sha1Hash.Sum(nil)),
	}, nil
}
