package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// lstCache stores immutable lossless trees keyed by source hash. Trees are
// never mutated after parsing, so runs may share one tree safely.
//
//nolint:gochecknoglobals
var lstCache sync.Map

// cacheEntry pairs the tree with its full source so a hash collision can
// never serve the wrong tree.
type cacheEntry struct {
	source string
	lst    *LST
}

func cacheKey(source string) string {
	return strconv.FormatUint(xxh3.HashString(source), 36)
}

func cachedLST(source string) (*LST, bool) {
	value, ok := lstCache.Load(cacheKey(source))
	if !ok {
		return nil, false
	}

	entry := value.(*cacheEntry)
	if entry.source != source {
		return nil, false
	}

	return entry.lst, true
}

func storeLST(source string, lst *LST) {
	lstCache.Store(cacheKey(source), &cacheEntry{source: source, lst: lst})
}

// ErrReadInput reports a failure to read source text from a reader.
var ErrReadInput = NewError("failed to read input")

// ParseReader parses APML source from an io.Reader into a lossless tree.
// The reader is drained through an asynchronous read-ahead buffer so data
// is pre-fetched while earlier chunks are copied.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*LST, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	o := makeOptions(opts...)
	o.logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true))

	return ParseString(ctx, string(data), opts...)
}
