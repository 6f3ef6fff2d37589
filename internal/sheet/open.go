package sheet

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/questbank/internal/config"
)

// Open selects the source configured by STORE_BACKEND. pool may be nil unless the
// postgres backend is selected.
func Open(cfg *config.Config, pool *pgxpool.Pool) (Source, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		if pool == nil {
			return nil, errors.New("STORE_BACKEND=postgres requires DATABASE_URL")
		}
		return NewPostgres(pool, cfg.QuestionTable), nil
	case config.StoreBackendCSVURL:
		if cfg.SpreadsheetURL == "" {
			return nil, errors.New("STORE_BACKEND=csv_url requires SPREADSHEET_URL")
		}
		return NewPublishedCSV(cfg.SpreadsheetURL, cfg.StoreTimeout), nil
	case config.StoreBackendXLSX, "":
		return NewWorkbook(cfg.SpreadsheetPath, cfg.SpreadsheetSheet), nil
	default:
		return nil, errors.New("unknown STORE_BACKEND " + cfg.StoreBackend)
	}
}
