package files

// CanRead reports whether userID may read rec. An empty userID is an
// anonymous caller and can read public records only.
func CanRead(rec Record, userID string) bool {
	if rec.IsPublic {
		return true
	}
	return userID != "" && userID == rec.OwnerID
}
