package di

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/euron-one/medichat-deployer/internal/config"
)

// Test types for dependency injection
type Database struct {
	Name string
}

type Service struct {
	DB     *Database
	Region string
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
	}{
		{
			name:    "creates container with no extra providers",
			opts:    nil,
			wantErr: false,
		},
		{
			name: "creates container with single provider",
			opts: []Option{
				WithProviders(func() *Database {
					return &Database{Name: "test-db"}
				}),
			},
			wantErr: false,
		},
		{
			name: "creates container with dependent providers",
			opts: []Option{
				WithProviders(
					func() *Database { return &Database{Name: "test-db"} },
					func(db *Database, cfg *config.Config) *Service {
						return &Service{DB: db, Region: cfg.Region}
					},
				),
			},
			wantErr: false,
		},
		{
			name: "rejects a non-constructor provider",
			opts: []Option{
				WithProviders("not a constructor"),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container, err := New(config.Default(), tt.opts...)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if container == nil {
				t.Fatal("expected container, got nil")
			}
		})
	}
}

func TestContainerInvoke(t *testing.T) {
	container, err := New(config.Default(),
		WithProviders(
			func() *Database { return &Database{Name: "medichat"} },
			func(db *Database, cfg *config.Config) *Service {
				return &Service{DB: db, Region: cfg.Region}
			},
		),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	err = container.Invoke(func(svc *Service) {
		if svc.DB.Name != "medichat" {
			t.Errorf("DB.Name = %q, want %q", svc.DB.Name, "medichat")
		}
		if svc.Region != config.DefaultRegion {
			t.Errorf("Region = %q, want %q", svc.Region, config.DefaultRegion)
		}
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
}

func TestContainerInvokeMissingDependency(t *testing.T) {
	container, err := New(config.Default())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	type unregistered struct{}
	err = container.Invoke(func(u *unregistered) {})
	if err == nil {
		t.Fatal("expected error for unregistered dependency, got nil")
	}
}

func TestMustGet(t *testing.T) {
	container, err := New(config.Default())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	t.Run("returns registered dependency", func(t *testing.T) {
		cfg := MustGet[*config.Config](container)
		if cfg.Repository != config.DefaultRepository {
			t.Errorf("Repository = %q, want %q", cfg.Repository, config.DefaultRepository)
		}

		logger := MustGet[zerolog.Logger](container)
		if logger.GetLevel() != zerolog.InfoLevel {
			t.Errorf("log level = %v, want %v", logger.GetLevel(), zerolog.InfoLevel)
		}
	})

	t.Run("panics on unresolvable dependency", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic, got none")
			}
		}()
		type unregistered struct{}
		_ = MustGet[*unregistered](container)
	})
}

func TestWithProvidersAccumulates(t *testing.T) {
	var o options
	WithProviders(func() *Database { return nil })(&o)
	WithProviders(func(*Database) error { return errors.New("x") })(&o)

	if len(o.providers) != 2 {
		t.Errorf("providers = %d, want 2", len(o.providers))
	}
}
