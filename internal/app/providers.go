package app

import (
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	adapterrepo "github.com/eslsoft/vocabbook/internal/adapter/repository"
	"github.com/eslsoft/vocabbook/internal/adapter/web"
	"github.com/eslsoft/vocabbook/internal/infrastructure/config"
	"github.com/eslsoft/vocabbook/internal/repository"
	"github.com/eslsoft/vocabbook/internal/usecase"
	"github.com/eslsoft/vocabbook/internal/usecase/archive"
	"github.com/eslsoft/vocabbook/pkg/wordfreq"
)

func provideVocabRepository(db *sql.DB, cfg *config.Config) (repository.VocabRepository, error) {
	driver, err := cfg.DatabaseDriver()
	if err != nil {
		return nil, err
	}
	return adapterrepo.NewVocabRepository(db, driver), nil
}

func provideScorer(cfg *config.Config) (wordfreq.Scorer, error) {
	ranker := wordfreq.New()
	if cfg.WordFreq.Path != "" {
		if err := ranker.LoadFile(cfg.WordFreq.Language, cfg.WordFreq.Path); err != nil {
			return nil, fmt.Errorf("load word frequency list: %w", err)
		}
	}
	return ranker, nil
}

func provideVocabUsecase(repo repository.VocabRepository, scorer wordfreq.Scorer, cfg *config.Config) usecase.VocabUsecase {
	return usecase.NewVocabUsecase(repo, scorer, cfg.WordFreq.Language, int32(cfg.Pagination.PageSize))
}

func provideArchiveService(repo repository.VocabRepository, cfg *config.Config, logger *logrus.Logger) *archive.Service {
	return archive.NewService(repo, cfg.Archive.Dir, logger)
}

func provideRouter(handler *web.Handler, logger *logrus.Logger, cfg *config.Config) *gin.Engine {
	return web.NewRouter(handler, logger, cfg.Server.Mode)
}
