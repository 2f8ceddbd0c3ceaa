package redis

const (
	// KeyPrefixRecord is the prefix for cached validation records.
	KeyPrefixRecord = "gmapscan:record:"
)

// RecordKey returns the Redis key holding the validation record of an API key.
func RecordKey(apiKey string) string {
	return KeyPrefixRecord + apiKey
}
