package wire

import (
	"io"

	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"thanksboard/internal/auth"
	"thanksboard/internal/cache"
	"thanksboard/internal/card"
	"thanksboard/internal/common"
	"thanksboard/internal/config"
	"thanksboard/internal/dbmysql"
	"thanksboard/internal/dbpostgres"
	"thanksboard/internal/events"
	"thanksboard/internal/health"
	"thanksboard/internal/ledger"
	"thanksboard/internal/mail"
	"thanksboard/internal/tag"
	"thanksboard/internal/thanks"
	"thanksboard/internal/user"
)

// Application is everything cmd/thanksboard needs to serve.
type Application struct {
	Config        *config.Config
	Logger        *zap.Logger
	DB            *gorm.DB
	Authenticator *common.Authenticator
	Health        *health.Checker

	AuthHandler   *auth.Handler
	UserHandler   *user.Handler
	TagHandler    *tag.Handler
	CardHandler   *card.Handler
	ThanksHandler *thanks.Handler
}

// Migrator is the subset the migrate command needs.
type Migrator struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

var infraSet = wire.NewSet(
	config.Load,
	common.NewLogger,
	ProvideDatabase,
)

var migrateSet = wire.NewSet(
	infraSet,
	wire.Struct(new(Migrator), "*"),
)

var appSet = wire.NewSet(
	infraSet,
	ProvideCache,
	ProvidePublisher,
	mail.New,
	common.NewTokenManager,
	common.NewAuthenticator,
	health.NewChecker,

	user.NewUserRepository,
	user.NewUserService,
	ProvidePrincipalLoader,
	user.NewHandler,

	auth.NewAuthService,
	auth.NewHandler,

	tag.NewTagRepository,
	tag.NewTagService,
	ProvideBestTagsInvalidator,
	tag.NewHandler,

	card.NewCardRepository,
	card.NewCardService,
	card.NewHandler,

	thanks.NewThanksRepository,
	thanks.NewThanksService,
	ProvideReactionLedger,
	thanks.NewReactionService,
	thanks.NewHandler,

	wire.Struct(new(Application), "*"),
)

// ProvideDatabase opens the configured driver. The cleanup closes the pool.
func ProvideDatabase(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = dbpostgres.NewPostgres(cfg, logger)
	default:
		db, err = dbmysql.NewMySQL(cfg, logger)
	}
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		sqlDB, err := db.DB()
		if err != nil {
			return
		}
		if err := sqlDB.Close(); err != nil {
			logger.Warn("closing database", zap.Error(err))
		}
	}
	return db, cleanup, nil
}

func ProvideCache(cfg *config.Config, logger *zap.Logger) (cache.Store, func()) {
	store := cache.New(cfg, logger)
	return store, closer(store, logger, "redis")
}

func ProvidePublisher(cfg *config.Config, logger *zap.Logger) (common.EventPublisher, func()) {
	pub := events.New(cfg, logger)
	return pub, closer(pub, logger, "nats")
}

func closer(v interface{}, logger *zap.Logger, name string) func() {
	return func() {
		c, ok := v.(io.Closer)
		if !ok {
			return
		}
		if err := c.Close(); err != nil {
			logger.Warn("closing "+name, zap.Error(err))
		}
	}
}

// ProvidePrincipalLoader lets the authenticator reload users on every request.
func ProvidePrincipalLoader(svc user.UserService) common.PrincipalLoader {
	return svc
}

func ProvideBestTagsInvalidator(svc tag.TagService) card.BestTagsInvalidator {
	return svc
}

func ProvideReactionLedger(db *gorm.DB, logger *zap.Logger) thanks.ReactionLedger {
	return ledger.New(ledger.NewGormStore(db), logger)
}
