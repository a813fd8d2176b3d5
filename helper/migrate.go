package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"
	"ofcoz/config"
	"ofcoz/infras/postgres"
	"ofcoz/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
)

const (
	ActionUp     = "up"
	ActionStepUp = "step-up"
	ActionDown   = "down"
	ActionDrop   = "drop"
)

var ErrUnknownAction = errors.New("unknown migration action")

type migration struct {
	run     func(*migrate.Migrate) error
	success string
	failure string
}

var actions = map[string]migration{
	ActionUp: {
		run:     (*migrate.Migrate).Up,
		success: "Database migrations completed successfully",
		failure: "error running migrations",
	},
	ActionStepUp: {
		run:     func(m *migrate.Migrate) error { return m.Steps(1) },
		success: "Database migrated one step up",
		failure: "error running migrations",
	},
	ActionDown: {
		run:     func(m *migrate.Migrate) error { return m.Steps(-1) },
		success: "Database migration rolled back one step",
		failure: "error rolling back migrations",
	},
	ActionDrop: {
		run:     (*migrate.Migrate).Down,
		success: "Database migrations rolled back successfully",
		failure: "error rolling back migrations",
	},
}

// DSN targets the write node. The migrations table name travels as the x-migrations-table option.
func DSN(config *config.Config) string {
	extra := url.Values{}
	if table := config.DB.Postgres.MigrationTable; table != "" {
		extra.Set("x-migrations-table", table)
	}

	return postgres.DSN(config.DB.Postgres, config.DB.Postgres.Write, extra)
}

func newMigrate(config *config.Config) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations.Postgres, migrations.PostgresDir)
	if err != nil {
		return nil, fmt.Errorf("error reading embedded migrations: %w", err)
	}

	mig, err := migrate.NewWithSourceInstance("iofs", source, DSN(config))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func Runner(config *config.Config, action string) error {
	step, ok := actions[action]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	mig, err := newMigrate(config)
	if err != nil {
		return err
	}

	defer mig.Close()

	if err := step.run(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: %w", step.failure, err)
	}

	log.Info().Str("action", action).Msg(step.success)

	return nil
}

// Version reports the applied schema version and whether the last migration left it dirty.
func Version(config *config.Config) (uint, bool, error) {
	mig, err := newMigrate(config)
	if err != nil {
		return 0, false, err
	}

	defer mig.Close()

	version, dirty, err := mig.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, fmt.Errorf("error reading migration version: %w", err)
	}

	return version, dirty, nil
}

func Up(config *config.Config) error {
	return Runner(config, ActionUp)
}

func StepUp(config *config.Config) error {
	return Runner(config, ActionStepUp)
}

func Down(config *config.Config) error {
	return Runner(config, ActionDown)
}

func Drop(config *config.Config) error {
	return Runner(config, ActionDrop)
}
