// Package dbtest starts throwaway PostgreSQL and MongoDB containers for
// integration tests. Tests are skipped unless GO_TEST_INTEGRATION is set.
package dbtest

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/imadgeboyega/roommate-finder/internal/common/database"
	"github.com/imadgeboyega/roommate-finder/internal/common/logger"
)

const replicaSet = "rs0"

// SkipUnlessIntegration skips t when integration tests are disabled
func SkipUnlessIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}
}

// StartPostgres runs postgres:16 and returns a migrated connection
func StartPostgres(t *testing.T) *sqlx.DB {
	t.Helper()
	SkipUnlessIntegration(t)

	ctx := context.Background()
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "docker.io/postgres:16-alpine",
			Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "roommates"},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	db, err := database.NewPostgresDBFromURL(ctx, fmt.Sprintf("postgres://user:pass@%s:%s/roommates?sslmode=disable", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.RunMigrations(ctx, db, logger.Nop()))
	return db
}

// StartMongo runs mongo:7.0 as a single-node replica set, which the like
// store needs for transactions, and returns a fresh database.
func StartMongo(t *testing.T) *mongo.Database {
	t.Helper()
	SkipUnlessIntegration(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "mongo:7.0",
			Cmd:          []string{"--replSet", replicaSet, "--bind_ip_all"},
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "27017/tcp")
	require.NoError(t, err)

	base := fmt.Sprintf("mongodb://%s:%s", host, port.Port())
	require.NoError(t, initReplicaSet(ctx, base))

	db, err := database.NewMongoDatabase(ctx, base+"/roommates_test?directConnection=true")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Client().Disconnect(context.Background()) })
	return db
}

// initReplicaSet initiates a one-member set and waits for it to elect itself
func initReplicaSet(ctx context.Context, uri string) error {
	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetDirect(true))
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	defer cli.Disconnect(context.Background())

	admin := cli.Database("admin")
	err = admin.RunCommand(ctx, bson.D{{Key: "replSetInitiate", Value: bson.D{
		{Key: "_id", Value: replicaSet},
		{Key: "members", Value: bson.A{bson.D{{Key: "_id", Value: 0}, {Key: "host", Value: "localhost:27017"}}}},
	}}}).Err()
	if err != nil {
		return fmt.Errorf("replSetInitiate: %w", err)
	}

	for {
		var hello struct {
			IsWritablePrimary bool `bson:"isWritablePrimary"`
		}
		if err := admin.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err == nil && hello.IsWritablePrimary {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for primary: %w", ctx.Err())
		case <-time.After(200 * time.Millisecond):
		}
	}
}
