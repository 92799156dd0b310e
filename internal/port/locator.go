package port

// LocationProvider resolves the install directory of an external tool
// keyed by a fixed string identifier. Implementations return an error when
// no location is known for the key; callers decide whether that is fatal.
type LocationProvider interface {
	Locate(key string) (string, error)
}
