//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"hotel-reservation/cmd/bootstrap"
	"hotel-reservation/cmd/bootstrap/components"
	"hotel-reservation/internal/infra/cache"
	"hotel-reservation/internal/infra/db"
	"hotel-reservation/internal/pkg/config"
	"hotel-reservation/internal/usecase/commands"
	"hotel-reservation/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	pgUser     = "test"
	pgPassword = "testpass"
)

type ContainerInfo struct {
	Host string
	Port nat.Port
}

func (c ContainerInfo) Addr() string {
	return c.Host + ":" + c.Port.Port()
}

// sharedContainer は 1 プロセスにつき 1 回だけ起動し、全スイートで使い回す
type sharedContainer struct {
	once    sync.Once
	info    ContainerInfo
	err     error
	port    string
	timeout time.Duration
	request func() testcontainers.ContainerRequest
}

func (sc *sharedContainer) start(t *testing.T) ContainerInfo {
	t.Helper()
	sc.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), sc.timeout)
		defer cancel()

		c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: sc.request(),
			Started:          true,
		})
		if err != nil {
			sc.err = err
			return
		}
		// 後始末は ryuk に任せる
		mapped, err := c.MappedPort(ctx, nat.Port(sc.port))
		if err != nil {
			sc.err = err
			return
		}
		host, err := c.Host(ctx)
		if err != nil {
			sc.err = err
			return
		}
		sc.info = ContainerInfo{Host: host, Port: mapped}
	})
	require.NoError(t, sc.err, "コンテナの起動に失敗")
	return sc.info
}

var postgresContainer = &sharedContainer{
	port:    "5432/tcp",
	timeout: 3 * time.Minute,
	request: func() testcontainers.ContainerRequest {
		return testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       "postgres",
			},
			Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=512m"},
			// 耐久性は不要。ロック待ちの多い同時予約テストのため接続数は多めに
			Cmd: []string{
				"postgres",
				"-c", "fsync=off",
				"-c", "full_page_writes=off",
				"-c", "synchronous_commit=off",
				"-c", "max_connections=200",
				"-c", "log_statement=none",
			},
			WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return adminDSN(ContainerInfo{Host: host, Port: port})
			}).WithStartupTimeout(time.Minute),
			Labels: map[string]string{"purpose": "hotel-reservation-e2e"},
		}
	},
}

var redisContainer = &sharedContainer{
	port:    "6379/tcp",
	timeout: 2 * time.Minute,
	request: func() testcontainers.ContainerRequest {
		return testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			Cmd:          []string{"redis-server", "--save", "", "--appendonly", "no"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(time.Minute),
			Labels:       map[string]string{"purpose": "hotel-reservation-e2e"},
		}
	},
}

var rabbitmqContainer = &sharedContainer{
	port:    "5672/tcp",
	timeout: 3 * time.Minute,
	request: func() testcontainers.ContainerRequest {
		return testcontainers.ContainerRequest{
			Image:        "rabbitmq:3-alpine",
			ExposedPorts: []string{"5672/tcp"},
			WaitingFor:   wait.ForLog("Server startup complete").WithStartupTimeout(2 * time.Minute),
			Labels:       map[string]string{"purpose": "hotel-reservation-e2e"},
		}
	},
}

// RedisConfig は共有 Redis コンテナを指す設定を返す
func RedisConfig(t *testing.T) config.RedisConfig {
	t.Helper()
	cfg := config.NewTestConfig().Redis
	cfg.Addr = redisContainer.start(t).Addr()
	return cfg
}

// AMQPURL は共有 RabbitMQ コンテナの接続先 (guest ユーザー)
func AMQPURL(t *testing.T) string {
	t.Helper()
	return "amqp://guest:guest@" + rabbitmqContainer.start(t).Addr() + "/"
}

func adminDSN(pg ContainerInfo) string {
	return fmt.Sprintf("postgres://%s:%s@%s/postgres?sslmode=disable", pgUser, pgPassword, pg.Addr())
}

// e2eEnv はスイートに渡す一式。スケジューラは起動せず、ジョブ相当のコマンドを直接呼ぶ
type e2eEnv struct {
	pool         *pgxpool.Pool
	router       *gin.Engine
	cfg          config.Config
	reservations commands.ReservationCommands
	maintenance  commands.MaintenanceCommands
}

func setupE2EEnvironment(t *testing.T) e2eEnv {
	gin.SetMode(gin.TestMode)
	pg := postgresContainer.start(t)
	rd := redisContainer.start(t)

	cfg := config.NewTestConfig()
	cfg.DB = createDatabase(t, pg)
	cfg.Redis.Addr = rd.Addr()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	pool, err := db.Connect(ctx, cfg.DB)
	require.NoError(t, err, "データベース接続に失敗")
	t.Cleanup(pool.Close)

	require.NoError(t, applyMigrations(ctx, pool), "マイグレーションに失敗")

	env := e2eEnv{pool: pool}
	app := fx.New(
		fx.Supply(cfg, pool),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.LoggerModule,
		bootstrap.JWTModule,
		bootstrap.RedisModule,
		bootstrap.MessagingModule,
		components.PersistenceModule,
		components.UseCaseModule,
		components.HandlerModule,
		fx.Populate(&env.router, &env.cfg, &env.reservations, &env.maintenance),
		fx.NopLogger,
	)
	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startCancel()
	require.NoError(t, app.Start(startCtx), "fxアプリケーションの起動に失敗")
	t.Cleanup(func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		if err := app.Stop(stopCtx); err != nil {
			slog.Warn("fxアプリケーションの停止に失敗しました", "error", err.Error())
		}
	})

	slog.Info("E2E環境の準備が完了しました", "database", cfg.DB.DBName, "redis_addr", cfg.Redis.Addr)
	return env
}

// プロセス毎に専用のデータベースを作る。並列実行でもテーブルを取り合わない
func createDatabase(t *testing.T, pg ContainerInfo) config.DBConfig {
	t.Helper()
	name := "hotel_e2e_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	admin, err := pgxpool.New(ctx, adminDSN(pg))
	require.NoError(t, err, "管理者接続に失敗")
	defer admin.Close()

	// 起動直後は template1 が使用中で CREATE DATABASE が失敗することがある
	for attempt := 1; ; attempt++ {
		_, err = admin.Exec(ctx, "CREATE DATABASE "+name)
		if err == nil || attempt == 5 {
			break
		}
		slog.Warn("データベース作成を再試行中", "attempt", attempt, "error", err.Error())
		time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
	}
	require.NoError(t, err, "テスト用データベースの作成に失敗")

	t.Cleanup(func() {
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dropCancel()
		dropper, err := pgxpool.New(dropCtx, adminDSN(pg))
		if err != nil {
			slog.Warn("データベース削除用の接続に失敗しました", "database", name, "error", err.Error())
			return
		}
		defer dropper.Close()
		if _, err := dropper.Exec(dropCtx, "DROP DATABASE IF EXISTS "+name+" WITH (FORCE)"); err != nil {
			slog.Warn("テストデータベースの削除に失敗しました", "database", name, "error", err.Error())
		}
	})

	return config.DBConfig{
		Host:     pg.Host,
		Port:     pg.Port.Port(),
		User:     pgUser,
		Password: pgPassword,
		DBName:   name,
		SSLMode:  "disable",
		TimeZone: "UTC",
		MaxConns: 40,

		TxMaxRetries: 3,
		LockTimeout:  10 * time.Second,
	}
}

// migrations/*.sql をファイル名順に流す
func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	files, err := filepath.Glob(filepath.Join(root, "migrations", "*.sql"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no migrations under %s", root)
	}
	slices.Sort(files)

	for _, f := range files {
		sql, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply %s: %w", filepath.Base(f), err)
		}
	}
	return nil
}

// go test はパッケージディレクトリで走るので go.mod まで遡る
func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found above working directory")
		}
		dir = parent
	}
}

// ------------------------------------------------------------
// E2Eテストスイートで共通のセットアップ
// ------------------------------------------------------------
type SharedSuite struct {
	suite.Suite
	Router       *gin.Engine
	DB           *pgxpool.Pool
	Config       config.Config
	Reservations commands.ReservationCommands
	Maintenance  commands.MaintenanceCommands
}

func (s *SharedSuite) SetupSuite() {
	env := setupE2EEnvironment(s.T())
	s.DB = env.pool
	s.Router = env.router
	s.Config = env.cfg
	s.Reservations = env.reservations
	s.Maintenance = env.maintenance
}

// サブテスト毎にテーブルとカレンダーキャッシュを空にする
func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "データベースの初期化に失敗")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, closeClient, err := cache.Connect(ctx, s.Config.Redis)
	require.NoError(s.T(), err, "Redis接続に失敗")
	defer closeClient()
	require.NoError(s.T(), client.FlushDB(ctx).Err(), "Redisの初期化に失敗")
}
