package querycache

import "github.com/marcus/notehub/internal/notehub"

// Status is the observable state of a Query.
type Status int

const (
	StatusLoading Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Ticket identifies one issued fetch. Only the most recent ticket for the
// current key may change what a Query shows.
type Ticket struct {
	Key Key
	seq uint64
}

// Query is the view's window onto the cache: the page being shown and the
// fetch it is waiting for. It is not safe for concurrent use; drive it from
// the UI loop.
type Query struct {
	cache *Cache

	key    Key
	hasKey bool

	page        notehub.Page
	hasData     bool
	placeholder bool
	err         error

	seq      uint64
	inFlight bool
}

// NewQuery returns a Query backed by cache.
func NewQuery(cache *Cache) *Query {
	return &Query{cache: cache}
}

// Switch makes key current. It reports whether a fetch must be started for
// the returned ticket. A fresh cached page is shown directly; a stale one is
// shown while it is refetched. With nothing cached, the previous key's page
// stays visible as a placeholder, or the query is loading on first use.
func (q *Query) Switch(key Key) (Ticket, bool) {
	q.key = key
	q.hasKey = true
	q.err = nil

	if e, ok := q.cache.Peek(key); ok {
		q.page = e.Page
		q.hasData = true
		q.placeholder = false
		if !e.Stale {
			q.seq++
			q.inFlight = false
			return Ticket{}, false
		}
		return q.issue(), true
	}

	if q.hasData {
		q.placeholder = true
	}
	return q.issue(), true
}

// Refetch starts a background fetch of the current key, keeping the shown
// page visible. It returns false before the first Switch.
func (q *Query) Refetch() (Ticket, bool) {
	if !q.hasKey {
		return Ticket{}, false
	}
	return q.issue(), true
}

func (q *Query) issue() Ticket {
	q.seq++
	q.inFlight = true
	return Ticket{Key: q.key, seq: q.seq}
}

// Resolve applies the outcome of the fetch identified by t. Results for a
// superseded ticket or key are discarded and Resolve returns false. An error
// keeps the last page visible.
func (q *Query) Resolve(t Ticket, page notehub.Page, err error) bool {
	if !q.inFlight || t.seq != q.seq || t.Key != q.key {
		return false
	}
	q.inFlight = false

	if err != nil {
		q.err = err
		return true
	}
	q.page = page
	q.hasData = true
	q.placeholder = false
	q.err = nil
	return true
}

// Key returns the current key.
func (q *Query) Key() Key { return q.key }

// Status reports loading, success or error.
func (q *Query) Status() Status {
	switch {
	case q.err != nil:
		return StatusError
	case q.hasData:
		return StatusSuccess
	default:
		return StatusLoading
	}
}

// Page returns the page to display. While IsPlaceholder is true it belongs to
// the previous key.
func (q *Query) Page() notehub.Page { return q.page }

// HasData reports whether any page has been shown yet.
func (q *Query) HasData() bool { return q.hasData }

// IsPlaceholder reports whether Page belongs to a previous key.
func (q *Query) IsPlaceholder() bool { return q.placeholder }

// IsFetching reports whether a fetch for the current key is outstanding.
func (q *Query) IsFetching() bool { return q.inFlight }

// Err returns the last fetch error for the current key.
func (q *Query) Err() error { return q.err }
