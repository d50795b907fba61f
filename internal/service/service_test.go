package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"lodgehall/internal/config"
	"lodgehall/internal/model"
	"lodgehall/internal/repository"
	"lodgehall/pkg/crypto"
)

const strongPassword = "Vt7#qLm2!xR9pWz"

// stepClock advances one second on every reading so ordering by timestamp is
// deterministic.
type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type testEnv struct {
	db     *gorm.DB
	cache  repository.TokenCache
	users  UserService
	tokens TokenService
	lodges LodgeService
	cabins CabinService
	authz  Authorizer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := config.NewSQLiteDB(config.SQLiteConfig{Path: ":memory:"})
	if err != nil {
		t.Skipf("skip: sqlite not available: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	clock := &stepClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}

	userRepo := repository.NewPGUserRepository(db)
	tokenRepo := repository.NewPGTokenRepository(db)
	lodgeRepo := repository.NewPGLodgeRepository(db)
	cabinRepo := repository.NewPGCabinRepository(db)
	messageRepo := repository.NewPGMessageRepository(db)
	cache := repository.NewMemoryTokenCache()

	tokens := NewTokenService(tokenRepo, userRepo, cache, time.Minute, 128, zap.NewNop()).(*tokenService)
	tokens.now = clock.Now
	users := NewUserService(userRepo, tokens, PasswordPolicy{
		MinEntropy: 35,
		Argon2:     crypto.Argon2Params{Time: 1, MemoryKiB: 8 * 1024, Threads: 1},
	}).(*userService)
	users.now = clock.Now
	authz := NewAuthorizer(lodgeRepo)
	lodges := NewLodgeService(lodgeRepo, authz).(*lodgeService)
	lodges.now = clock.Now
	cabins := NewCabinService(lodgeRepo, cabinRepo, messageRepo, userRepo, authz).(*cabinService)
	cabins.now = clock.Now

	return &testEnv{
		db:     db,
		cache:  cache,
		users:  users,
		tokens: tokens,
		lodges: lodges,
		cabins: cabins,
		authz:  authz,
	}
}

func (e *testEnv) register(t *testing.T, name string) *model.User {
	t.Helper()
	user, err := e.users.Register(context.Background(), name, strongPassword)
	if err != nil {
		t.Fatalf("Register(%s) error = %v", name, err)
	}
	return user
}

func (e *testEnv) createLodge(t *testing.T, founder *model.User, name string, public bool) *model.Lodge {
	t.Helper()
	lodge, err := e.lodges.CreateLodge(context.Background(), founder.ID, CreateLodgeInput{Name: name, Public: &public})
	if err != nil {
		t.Fatalf("CreateLodge(%s) error = %v", name, err)
	}
	return lodge
}

func (e *testEnv) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(m).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
