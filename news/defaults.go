// Package news holds application-wide defaults shared by the config and
// storage layers.
package news

const (
	DefaultAppName = "newscache"

	// DefaultDataDir is the base directory under which tenant partitions
	// and the global credential database live.
	DefaultDataDir = "./data"

	// DefaultCredentialDB is the global credential database file name,
	// relative to the data dir.
	DefaultCredentialDB = "apikeys.db"

	// DefaultPartitionDB is the per-partition database file name.
	DefaultPartitionDB = "news.db"
)
