package pathutil

// Munge converts an absolute working-directory path into the flat directory
// name the session-log store uses for its per-project subdirectories:
// every character outside [A-Za-z0-9-] becomes '-', so "/work/my.app"
// maps to "-work-my-app". The transform is deterministic but not invertible;
// the original path travels in the metadata record instead.
func Munge(path string) string {
	out := make([]byte, len(path))
	for i := 0; i < len(path); i++ {
		c := path[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
			out[i] = c
		default:
			out[i] = '-'
		}
	}
	return string(out)
}
