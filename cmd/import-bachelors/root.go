package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MaiNhanKiet/look-up-convocation2025/internal/models"
	"github.com/MaiNhanKiet/look-up-convocation2025/internal/repository"
	"github.com/MaiNhanKiet/look-up-convocation2025/internal/service"
	"github.com/MaiNhanKiet/look-up-convocation2025/internal/validation"
	"github.com/MaiNhanKiet/look-up-convocation2025/pkg/cache"
	"github.com/MaiNhanKiet/look-up-convocation2025/pkg/config"
	"github.com/MaiNhanKiet/look-up-convocation2025/pkg/database"
	"github.com/MaiNhanKiet/look-up-convocation2025/pkg/logger"
)

type importOutput struct {
	File       string   `json:"file"`
	Read       int      `json:"read"`
	Rejected   []string `json:"rejected,omitempty"`
	Inserted   int64    `json:"inserted"`
	Updated    int64    `json:"updated"`
	DryRun     bool     `json:"dry_run"`
	DurationMS int64    `json:"duration_ms"`
}

func newRootCmd() *cobra.Command {
	var (
		file   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:           "import-bachelors",
		Short:         "Upsert bachelor records from a JSON array, keyed by studentId",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open %s: %w", file, err)
			}
			defer f.Close() //nolint:errcheck

			bachelors, rejected, err := loadBachelors(f)
			if err != nil {
				return err
			}

			out := importOutput{File: file, Read: len(bachelors) + len(rejected), Rejected: rejected, DryRun: dryRun}
			start := time.Now()
			if !dryRun {
				res, err := importBachelors(cmd.Context(), bachelors)
				if err != nil {
					return err
				}
				out.Inserted, out.Updated = res.Inserted, res.Updated
			}
			out.DurationMS = time.Since(start).Milliseconds()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to the JSON array of bachelor records (required)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the file without writing")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// loadBachelors decodes the import file and drops records whose student ID
// is malformed. Correction history in the file is ignored.
func loadBachelors(r io.Reader) ([]models.Bachelor, []string, error) {
	var raw []models.Bachelor
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("decode import file: %w", err)
	}

	seen := make(map[string]struct{}, len(raw))
	valid := make([]models.Bachelor, 0, len(raw))
	var rejected []string
	for i := range raw {
		b := raw[i]
		b.StudentID = strings.TrimSpace(b.StudentID)
		if !validation.IsStudentID(b.StudentID) {
			rejected = append(rejected, fmt.Sprintf("#%d: invalid studentId %q", i, b.StudentID))
			continue
		}
		if _, dup := seen[b.StudentID]; dup {
			rejected = append(rejected, fmt.Sprintf("#%d: duplicate studentId %q", i, b.StudentID))
			continue
		}
		seen[b.StudentID] = struct{}{}
		b.Requests = nil
		b.IsRequested = false
		valid = append(valid, b)
	}
	return valid, rejected, nil
}

func importBachelors(ctx context.Context, bachelors []models.Bachelor) (repository.UpsertResult, error) {
	cfg, err := config.Load()
	if err != nil {
		return repository.UpsertResult{}, err
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return repository.UpsertResult{}, err
	}
	defer logr.Sync() //nolint:errcheck

	mongoDB, err := database.NewMongo(ctx, cfg.Mongo)
	if err != nil {
		return repository.UpsertResult{}, err
	}
	defer mongoDB.Close(context.Background()) //nolint:errcheck

	if err := repository.EnsureIndexes(ctx, repository.Collections{
		Bachelors:          mongoDB.Bachelors(),
		MissingInformation: mongoDB.MissingInformation(),
		Users:              mongoDB.Users(),
	}); err != nil {
		return repository.UpsertResult{}, err
	}

	res, err := repository.NewBachelorRepository(mongoDB.Bachelors()).UpsertMany(ctx, bachelors)
	if err != nil {
		return repository.UpsertResult{}, err
	}
	logr.Info("bachelors imported", zap.Int64("inserted", res.Inserted), zap.Int64("updated", res.Updated))

	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("skipping cache invalidation", zap.Error(err))
			return res, nil
		}
		defer client.Close() //nolint:errcheck
		ids := make([]string, len(bachelors))
		for i, b := range bachelors {
			ids[i] = b.StudentID
		}
		views := service.NewViewCache(repository.NewViewCacheRepository(client), nil, cfg.Cache.TTL, logr)
		_, _ = views.Evict(ctx, ids...)
	}
	return res, nil
}
