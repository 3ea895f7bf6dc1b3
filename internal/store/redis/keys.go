package redis

const (
	// KeyPrefixLibrary is the prefix for per-user library snapshots
	KeyPrefixLibrary = "newsstand:library:"
	// KeyPrefixUser is the prefix for user record keys
	KeyPrefixUser = "newsstand:user:"
	// KeyPrefixEmail is the prefix for the email -> user id index
	KeyPrefixEmail = "newsstand:email:"
	// KeyPrefixHeadlines is the prefix for cached headline pages
	KeyPrefixHeadlines = "newsstand:headlines:"
	// KeyAllUsers is the key for the set of all user IDs
	KeyAllUsers = "newsstand:users:all"
)

// LibraryKey returns the Redis key for a user's library snapshot.
func LibraryKey(userID string) string {
	return KeyPrefixLibrary + userID
}

// UserKey returns the Redis key for a user record by ID.
func UserKey(id string) string {
	return KeyPrefixUser + id
}

// EmailKey returns the Redis key indexing a lowercased email to a user ID.
func EmailKey(email string) string {
	return KeyPrefixEmail + email
}

// HeadlinesKey returns the Redis key for a cached headlines page.
func HeadlinesKey(category string) string {
	if category == "" {
		category = "general"
	}
	return KeyPrefixHeadlines + category
}

// AllUsersKey returns the key for the set of all user IDs.
func AllUsersKey() string {
	return KeyAllUsers
}
