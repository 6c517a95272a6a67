package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/linskybing/orgflow/internal/migrations"
	"github.com/rs/zerolog/log"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupPostgresForIntegration returns a migrated postgres database. TEST_DB_DSN
// points it at an existing server; otherwise a throwaway container is started.
func SetupPostgresForIntegration() (*gorm.DB, func()) {
	ctx := context.Background()
	terminate := func() {}

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		req := testcontainers.ContainerRequest{
			Image: "postgres:15",
			Env: map[string]string{
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_USER":     "test",
				"POSTGRES_DB":       "orgflow",
			},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
		}

		pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to start postgres container")
		}
		terminate = func() { _ = pg.Terminate(ctx) }

		host, err := pg.Host(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to resolve container host")
		}
		port, err := pg.MappedPort(ctx, "5432")
		if err != nil {
			log.Fatal().Err(err).Msg("failed to resolve container port")
		}
		dsn = fmt.Sprintf("postgres://test:test@%s:%s/orgflow?sslmode=disable", host, port.Port())
	}

	// retry db connect
	var sqlDB *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		sqlDB, err = sql.Open("postgres", dsn)
		if err == nil {
			err = sqlDB.Ping()
			if err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		terminate()
		log.Fatal().Err(err).Msg("postgres is not reachable")
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		terminate()
		log.Fatal().Err(err).Msg("failed to open gorm on postgres")
	}

	if err := db.Migrator().DropTable(reverse(migrations.Models())...); err != nil {
		terminate()
		log.Fatal().Err(err).Msg("failed to drop tables")
	}
	if err := migrations.Run(db); err != nil {
		terminate()
		log.Fatal().Err(err).Msg("failed to migrate")
	}

	cleanup := func() {
		_ = sqlDB.Close()
		terminate()
	}
	return db, cleanup
}

func reverse(models []any) []any {
	out := make([]any, len(models))
	for i, m := range models {
		out[len(models)-1-i] = m
	}
	return out
}
