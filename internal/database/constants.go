package database

// DefaultMinConnections keeps a couple of warm connections in the pool.
const DefaultMinConnections = 2

// Error and log messages
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToRunMigrations   = "failed to run migrations"

	LogMsgConnectedToDatabase = "Successfully connected to database"
)
