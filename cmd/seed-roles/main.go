package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"blockbustre.backend/internal/config"
	"blockbustre.backend/internal/domain/entities"
	domainerrors "blockbustre.backend/internal/domain/errors"
	domainrepo "blockbustre.backend/internal/domain/repositories"
	"blockbustre.backend/internal/infrastructure/repositories"
)

var openSeedRolesDB = func(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}), &gorm.Config{PrepareStmt: false})
}

var openSeedSQLDB = func(db *gorm.DB) (io.Closer, error) {
	return db.DB()
}

type seedRolesRuntime interface {
	GetRoleByName(ctx context.Context, name string) (*entities.Role, error)
	CreateRole(ctx context.Context, role *entities.Role) error
	GrantPermission(ctx context.Context, roleID uuid.UUID, codename string) error
}

type seedRolesDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (seedRolesRuntime, io.Closer, error)
	out     io.Writer
}

type seedRolesRuntimeImpl struct {
	roleRepo domainrepo.RoleRepository
}

func (r seedRolesRuntimeImpl) GetRoleByName(ctx context.Context, name string) (*entities.Role, error) {
	return r.roleRepo.GetByName(ctx, name)
}

func (r seedRolesRuntimeImpl) CreateRole(ctx context.Context, role *entities.Role) error {
	return r.roleRepo.Create(ctx, role)
}

func (r seedRolesRuntimeImpl) GrantPermission(ctx context.Context, roleID uuid.UUID, codename string) error {
	return r.roleRepo.GrantPermission(ctx, roleID, codename)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultSeedRolesDeps() seedRolesDeps {
	return seedRolesDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (seedRolesRuntime, io.Closer, error) {
			dsn := cfg.Database.URL()
			db, err := openSeedRolesDB(dsn)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}

			sqlDB, err := openSeedSQLDB(db)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to init sql db: %w", err)
			}

			return seedRolesRuntimeImpl{roleRepo: repositories.NewRoleRepository(db)}, sqlDB, nil
		},
		out: os.Stdout,
	}
}

type roleSeed struct {
	name        string
	description string
	permissions []string
}

func defaultRoleSeeds() []roleSeed {
	return []roleSeed{
		{
			name:        "Admin",
			description: "Full access to users, roles, contracts and transactions",
			permissions: entities.AllPermissions,
		},
		{
			name:        "Manager",
			description: "Manage contracts and transactions, read-only user access",
			permissions: []string{
				entities.PermUserView,
				entities.PermContractView,
				entities.PermContractAdd,
				entities.PermContractChange,
				entities.PermTransactionView,
				entities.PermTransactionAdd,
				entities.PermTransactionChange,
			},
		},
		{
			name:        "User",
			description: "Manage own contracts and record transactions",
			permissions: []string{
				entities.PermContractView,
				entities.PermContractAdd,
				entities.PermContractChange,
				entities.PermTransactionView,
				entities.PermTransactionAdd,
			},
		},
		{
			name:        "Guest",
			description: "Read-only access to contracts and transactions",
			permissions: []string{
				entities.PermContractView,
				entities.PermTransactionView,
			},
		},
	}
}

func validateSeeds(seeds []roleSeed) error {
	for _, seed := range seeds {
		for _, codename := range seed.permissions {
			if !entities.IsValidPermission(codename) {
				return fmt.Errorf("role %s references unknown permission %s", seed.name, codename)
			}
		}
	}
	return nil
}

func seedOne(ctx context.Context, runtime seedRolesRuntime, seed roleSeed, out io.Writer) error {
	existing, err := runtime.GetRoleByName(ctx, seed.name)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return fmt.Errorf("failed to look up role %s: %w", seed.name, err)
	}

	if existing == nil {
		role := &entities.Role{
			Name:        seed.name,
			Description: seed.description,
			Permissions: seed.permissions,
			IsActive:    true,
		}
		if err := runtime.CreateRole(ctx, role); err != nil {
			return fmt.Errorf("failed to create role %s: %w", seed.name, err)
		}
		_, _ = fmt.Fprintf(out, "created role %s with %d permissions\n", seed.name, len(seed.permissions))
		return nil
	}

	granted := 0
	for _, codename := range seed.permissions {
		if existing.HasPermission(codename) {
			continue
		}
		if err := runtime.GrantPermission(ctx, existing.ID, codename); err != nil {
			return fmt.Errorf("failed to grant %s to role %s: %w", codename, seed.name, err)
		}
		granted++
	}
	_, _ = fmt.Fprintf(out, "role %s up to date, %d permissions added\n", seed.name, granted)
	return nil
}

func runSeedRoles(deps seedRolesDeps) error {
	if deps.loadEnv == nil {
		deps.loadEnv = func() error { return godotenv.Load() }
	}
	if deps.loadCfg == nil {
		deps.loadCfg = config.Load
	}
	if deps.prepare == nil {
		def := defaultSeedRolesDeps()
		deps.prepare = def.prepare
	}
	if deps.out == nil {
		deps.out = os.Stdout
	}

	seeds := defaultRoleSeeds()
	if err := validateSeeds(seeds); err != nil {
		return err
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := deps.loadCfg()
	runtime, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	ctx := context.Background()
	for _, seed := range seeds {
		if err := seedOne(ctx, runtime, seed, deps.out); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := runSeedRoles(defaultSeedRolesDeps()); err != nil {
		log.Fatal(err)
	}
}
