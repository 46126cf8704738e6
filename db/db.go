// Package db holds the backing-store connectors. The service runs against
// Postgres or Mongo, selected by DB_TYPE; both connectors satisfy DB.
package db

import "context"

type DBType string

const (
	Postgres DBType = "postgres"
	Mongo    DBType = "mongo"
)

// DB is the lifecycle every connector implements. Ping backs the health
// probe and must stay cheap enough to run on every probe request.
type DB interface {
	Connect() error
	Disconnect() error
	Ping(ctx context.Context) error
}
