package domain

// Fetcher is the external media-fetch collaborator. Implementations download
// the resource at url to a destination described by opts and return an error
// wrapping ErrDownloadFailed on any download failure. The fetch may block on
// network I/O for its full duration; cancellation mid-fetch is deliberately
// not part of the contract.
type Fetcher interface {
	Fetch(url string, opts Options) error
}

// ConnectivityChecker reports network reachability. It is the oracle the
// worker uses to tell a transient connectivity loss from a permanently
// invalid request; false positives and negatives are tolerated.
type ConnectivityChecker interface {
	Online() bool
}
