package surrealdb

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	surreal "github.com/surrealdb/surrealdb.go"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bobmcallan/folio/internal/common"
)

const surrealImage = "surrealdb/surrealdb:v3.0.0"

var (
	containerOnce sync.Once
	containerAddr string
	containerErr  error
)

// testAddress returns the RPC address of a SurrealDB instance for tests.
// FOLIO_TEST_SURREALDB_ADDRESS points at an existing server; otherwise one
// container is started per test binary. Tests are skipped without Docker.
func testAddress(t *testing.T) string {
	t.Helper()
	if addr := os.Getenv("FOLIO_TEST_SURREALDB_ADDRESS"); addr != "" {
		return addr
	}

	testcontainers.SkipIfProviderIsNotHealthy(t)

	containerOnce.Do(func() {
		ctx := context.Background()
		c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        surrealImage,
				ExposedPorts: []string{"8000/tcp"},
				Cmd:          []string{"start", "--user", "root", "--pass", "root"},
				WaitingFor:   wait.ForListeningPort("8000/tcp").WithStartupTimeout(60 * time.Second),
			},
			Started: true,
		})
		if err != nil {
			containerErr = fmt.Errorf("start %s: %w", surrealImage, err)
			return
		}
		endpoint, err := c.PortEndpoint(ctx, "8000/tcp", "ws")
		if err != nil {
			containerErr = fmt.Errorf("resolve endpoint: %w", err)
			return
		}
		containerAddr = endpoint + "/rpc"
	})

	if containerErr != nil {
		t.Fatalf("SurrealDB unavailable: %v", containerErr)
	}
	return containerAddr
}

// testDatabaseName derives a unique database per test; SurrealDB rejects "/" in names.
func testDatabaseName(t *testing.T, prefix string) string {
	sanitized := strings.NewReplacer("/", "_", " ", "_", "-", "_").Replace(t.Name())
	return fmt.Sprintf("%s_%s_%d", prefix, sanitized, time.Now().UnixNano()%1_000_000)
}

// testDB returns a connection to a fresh database with the store tables defined.
func testDB(t *testing.T) *surreal.DB {
	t.Helper()
	ctx := context.Background()

	db, err := surreal.New(testAddress(t))
	if err != nil {
		t.Fatalf("connect to SurrealDB: %v", err)
	}
	t.Cleanup(func() { db.Close(context.Background()) })

	if _, err := db.SignIn(ctx, map[string]interface{}{"user": "root", "pass": "root"}); err != nil {
		t.Fatalf("sign in to SurrealDB: %v", err)
	}
	if err := db.Use(ctx, "folio_test", testDatabaseName(t, "t")); err != nil {
		t.Fatalf("select namespace/database: %v", err)
	}
	if err := defineTables(ctx, db); err != nil {
		t.Fatalf("define tables: %v", err)
	}
	return db
}

func testLogger() *common.Logger {
	return common.NewSilentLogger()
}
