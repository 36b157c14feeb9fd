package utils

// IsIn returns true if s is one of l.
func IsIn(l []string, s string) bool {
	for _, v := range l {
		if s == v {
			return true
		}
	}
	return false
}
