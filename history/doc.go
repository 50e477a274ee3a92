/*
Package history keeps the access log of namespace files.

The namespace reports every read and edit of a file through its AccessLogger
collaborator. BoltLog persists these reports in a bolt database, keyed so that
a cursor walks them in time order, and keeps the last access of recently used
paths in an LRU cache for quick listing:

	log, err := history.Open(history.Config{Path: "history.db", CacheSize: 128}, logger)
	if err != nil {
		return err
	}
	defer log.Close()

	tree, err := namespace.New(mirror, namespace.WithAccessLogger(log))

The namespace never reads the log back.
*/
package history
