package domain

// Download describes one artifact fetched into local storage. A Download is
// only constructed after the file exists on disk and its digests were
// computed from that exact file; a failed or partial fetch never yields one.
type Download struct {
	// URI is the original request identifier, either an HTTP(S) URL or a
	// container registry reference.
	URI string

	// Directory is the local directory containing the fetched file.
	Directory string

	// Filename is the name of the fetched file inside Directory.
	Filename string

	// Path is the full local path, Directory joined with Filename.
	Path string

	// Size is the byte length of the fetched content.
	Size int64

	// SHA1 and MD5 are lowercase hex digests of the file content.
	SHA1 string
	MD5  string
}

// Platform identifies one entry of a multi-platform image manifest list.
// Fields may be empty; empty fields must not be turned into override flags.
type Platform struct {
	OS           string
	Architecture string
	Variant      string
}

// JournalEntry is one recorded fetch outcome, success or failure.
type JournalEntry struct {
	ID        int64
	URI       string
	Succeeded bool
	Path      string
	Size      int64
	SHA1      string
	MD5       string
	Error     string
}
