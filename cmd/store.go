package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/customer360-cli/internal/store"
)

// initStore opens the run-history database and applies migrations.
func initStore(ctx context.Context) (store.Store, error) {
	dsn := cfg.Store.Path
	if dsn == "" {
		dsn = "customer360.db"
	}
	st, err := store.NewSQLite(dsn)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}
