package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/acs/log"
)

// globalCache stores parsed programs keyed by a hash of source and options.
// Programs are never mutated after parsing, so one may be shared by any
// number of evaluations.
var globalCache sync.Map

// entry holds the outcome of parsing one source.
type entry struct {
	once sync.Once
	prog *Program
	err  error
}

// hashOptions encodes the options that affect parse results using gob and
// hashes them with xxh3.
func hashOptions(o options) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	_ = enc.Encode(o.maxDepth)

	return xxh3.Hash(buf.Bytes())
}

// parseStringCached parses src once per distinct (src, options) pair.
// Concurrent callers for the same key wait for the first parse. Failed
// parses are reported to those callers and then evicted.
func parseStringCached(ctx context.Context, src string, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)

	if o.noCache {
		o.logger.TraceContext(ctx, "cache bypass", slog.Int("source_length", len(src)))

		return parseString(ctx, src, o)
	}

	sourceHash := xxh3.HashString(src)
	optsHash := hashOptions(o)
	key := strconv.FormatUint(sourceHash^optsHash, 36)

	value, hit := globalCache.LoadOrStore(key, new(entry))

	e, ok := value.(*entry)
	if !ok {
		return nil, ErrReadInput.
			With(slog.String("issue", "invalid entry type in cache"))
	}

	if o.logger.Enabled(ctx, log.LevelTrace) {
		o.logger.TraceContext(ctx, "cache lookup",
			slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
			slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
			slog.Bool("cache_hit", hit),
			slog.Int("cache_size", CacheSize()),
		)
	}

	e.once.Do(func() {
		e.prog, e.err = parseString(ctx, src, o)
		if e.err != nil {
			globalCache.CompareAndDelete(key, e)
		}
	})

	return e.prog, e.err
}

// CacheSize returns the number of cached programs.
func CacheSize() int {
	n := 0

	globalCache.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}

// ClearCache removes all cached programs.
func ClearCache() {
	globalCache.Clear()
}
