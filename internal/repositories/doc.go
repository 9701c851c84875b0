// Package repositories implements SQLite persistence for resolved matches.
//
// The match cache remembers the chosen destination track for each source
// video so repeated conversion runs skip catalog searches for songs already
// resolved. Rows are keyed by source video ID with a secondary index on the
// normalized title/artist key for cross-playlist reuse.
//
// Key Implementations:
//   - [MatchRepository] : Match row persistence with video-ID lookups
//   - [MatchCacheAdapter] : tasks.MatchCacher implementation over MatchRepository
package repositories
