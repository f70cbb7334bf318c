// Package cache provides a bounded in-memory read-through cache for query results.
//
// Features:
//
//  - Single generic container instead of one cache type per entity.
//  - TTL expiration with lazy removal on read and a periodic background sweeper.
//  - Capacity bound enforced by batch eviction of oldest-inserted entries.
//  - Exact size bookkeeping under concurrent use.
//  - Values are stored as snapshots, insulated from caller-side mutation.
//  - Explicit sweeper lifecycle, no implicit container callbacks.
//  - Allows logging, stats collection.
//  - Per-key locked read-through building to avoid duplicate upstream queries.
//  - Deterministic cache keys for filtered queries.
//  - Allows mass removal (drop cache) with flood protection.
package cache
