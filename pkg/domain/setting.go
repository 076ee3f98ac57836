package domain

// key prefixes for persisted user-scoped and global entries
const (
	KeyViewedPrefix = "viewed_"
	KeyIntentPrefix = "intent_"
	KeyBookmarks    = "bookmarks"
)

// ViewedKey returns the ledger key for the user
func ViewedKey(uid string) string { return KeyViewedPrefix + uid }

// IntentKey returns the intent key for the user
func IntentKey(uid string) string { return KeyIntentPrefix + uid }
