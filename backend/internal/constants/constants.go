package constants

import "time"

// GitHub API constants
const (
	// DefaultGitHubAPIURL is the public GitHub REST API base
	DefaultGitHubAPIURL = "https://api.github.com"

	// PerPage is the largest page size the followers/following endpoints accept
	PerPage = 100

	// RequestTimeout bounds each single page request
	RequestTimeout = 30 * time.Second

	// UserAgent is sent on every request; GitHub rejects requests without one
	UserAgent = "ghost-following/1.0"
)

// Export constants
const (
	// DefaultCSVPath is where exports land unless configured otherwise
	DefaultCSVPath = "data/ghost_following.csv"

	// CSVHeader is the single header cell of every export
	CSVHeader = "Usuários que não te seguem de volta"

	// DownloadFilename is the attachment name served by the web download endpoint
	DownloadFilename = "ghost_following.csv"
)
