package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var failOnStale bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables and indexes of the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := boot()
		if err != nil {
			return err
		}
		ctx := context.Background()
		st, err := openStore(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer st.close()

		if err := st.migrate(ctx); err != nil {
			return err
		}
		log.WithField("driver", cfg.StoreDriver).Info("schema applied")
		return nil
	},
}

// storehouse audit
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Count active rows that reference soft-deleted rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := boot()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()

		st, err := openStore(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer st.close()

		audit, err := st.referenceAudit(log).Audit(ctx)
		if err != nil {
			return errors.Wrap(err, "reference audit failed")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(audit); err != nil {
			return err
		}
		if failOnStale && audit.Total() > 0 {
			return fmt.Errorf("%d stale references found", audit.Total())
		}
		return nil
	},
}

var cacheFlushCmd = &cobra.Command{
	Use:   "cache:flush",
	Short: "Drop every cached entity from Redis",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := boot()
		if err != nil {
			return err
		}
		if !cfg.CacheEnabled() {
			return errors.New("REDIS_ADDR is not set")
		}
		if err := newCache(cfg, log).InvalidateAll(context.Background()); err != nil {
			return errors.Wrap(err, "failed to flush cache")
		}
		log.Info("cache flushed")
		return nil
	},
}

func init() {
	auditCmd.Flags().BoolVar(&failOnStale, "fail-on-stale", false, "Exit non-zero when stale references are found")
}
