package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/courtside/matchcontrol/external/broadcast"
	"github.com/courtside/matchcontrol/internal/config"
	"github.com/courtside/matchcontrol/internal/domain/injury"
	"github.com/courtside/matchcontrol/internal/domain/roster"
	"github.com/courtside/matchcontrol/internal/domain/rotation"
	"github.com/courtside/matchcontrol/internal/domain/sanction"
	repocache "github.com/courtside/matchcontrol/internal/infrastructure/repository/cache"
	"github.com/courtside/matchcontrol/internal/infrastructure/repository/memory"
	"github.com/courtside/matchcontrol/internal/infrastructure/repository/postgres"
	"github.com/courtside/matchcontrol/internal/interfaces/httpapi"
	basecache "github.com/courtside/matchcontrol/internal/platform/cache"
	idgen "github.com/courtside/matchcontrol/internal/platform/id"
	"github.com/courtside/matchcontrol/internal/platform/resilience"
	"github.com/courtside/matchcontrol/internal/usecase"
)

type repositories struct {
	roster   roster.Repository
	sanction sanction.Repository
	rotation rotation.Repository
	injury   injury.Repository
}

func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, error) {
	repos, err := buildRepositories(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.roster = repocache.NewRosterRepository(repos.roster, store)
		repos.rotation = repocache.NewRotationRepository(repos.rotation, store)
	}

	var injurySinks []usecase.InjurySink
	var sanctionSinks []usecase.SanctionSink
	if cfg.RelayEnabled {
		publisher := broadcast.NewPublisher(broadcast.Config{
			BaseURL:          cfg.RelayBaseURL,
			Token:            cfg.RelayToken,
			Retries:          cfg.RelayRetries,
			InternalJobToken: cfg.InternalJobToken,
			Timeout:          cfg.RelayTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.RelayCircuitEnabled,
				FailureThreshold: cfg.RelayCircuitFailureCount,
				OpenTimeout:      cfg.RelayCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.RelayCircuitHalfOpenMaxReq,
			},
		}, logger)
		injurySinks = append(injurySinks, publisher)
		sanctionSinks = append(sanctionSinks, publisher)
	}

	rosterSvc := usecase.NewRosterService(repos.roster, idgen.NewRandomGenerator("call"))
	sanctionSvc := usecase.NewSanctionService(repos.sanction, idgen.NewRandomGenerator("snc"), logger, sanctionSinks...)
	rotationSvc := usecase.NewRotationService(repos.roster, repos.rotation, idgen.NewRandomGenerator("rot"), logger)
	injurySvc := usecase.NewInjuryService(repos.roster, repos.rotation, repos.injury, idgen.NewRandomGenerator("inj"), injurySinks, logger)
	auditSvc := usecase.NewAuditService(repos.roster, repos.rotation, repos.sanction)

	handler := httpapi.NewHandler(rosterSvc, sanctionSvc, rotationSvc, injurySvc, auditSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// buildRepositories picks the storage backend. With DB_URL set the service
// runs on postgres; without it the seeded in-memory repositories serve local
// development and tests.
func buildRepositories(cfg config.Config) (repositories, error) {
	if cfg.DBURL == "" {
		return repositories{
			roster:   memory.NewRosterRepository(memory.SeedRosters()),
			sanction: memory.NewSanctionRepository(),
			rotation: memory.NewRotationRepository(memory.SeedRotations()),
			injury:   memory.NewInjuryRepository(),
		}, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return repositories{}, err
	}

	return repositories{
		roster:   postgres.NewRosterRepository(db),
		sanction: postgres.NewSanctionRepository(db),
		rotation: postgres.NewRotationRepository(db),
		injury:   postgres.NewInjuryRepository(db),
	}, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return db, nil
}
