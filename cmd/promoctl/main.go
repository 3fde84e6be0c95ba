// Command promoctl administers promo codes and issues tokens from the shell.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/azizikri/beat-market/db/migrations"
	"github.com/azizikri/beat-market/internal/auth"
	"github.com/azizikri/beat-market/internal/config"
	"github.com/azizikri/beat-market/internal/domain"
	"github.com/azizikri/beat-market/internal/repository"
	"github.com/azizikri/beat-market/internal/usecase"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "promoctl",
		Usage: "manage beat-market promo codes",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "apply database migrations",
				Action: migrate,
			},
			{
				Name:  "promo",
				Usage: "create, generate, list and deactivate promo codes",
				Commands: []*cli.Command{
					{
						Name:  "create",
						Usage: "create a single promo code",
						Flags: append(targetFlags(),
							&cli.StringFlag{Name: "code", Required: true},
							&cli.StringFlag{Name: "valid-from", Usage: "RFC3339 start, defaults to now"},
							&cli.StringFlag{Name: "valid-until", Usage: "RFC3339 end, unbounded when empty"},
							&cli.IntFlag{Name: "max-uses", Usage: "usage cap, unlimited when 0"},
						),
						Action: createPromo,
					},
					{
						Name:  "generate",
						Usage: "generate a batch of random codes for one asset",
						Flags: append(targetFlags(),
							&cli.IntFlag{Name: "count", Value: 10},
							&cli.StringFlag{Name: "prefix"},
							&cli.StringFlag{Name: "valid-until", Usage: "RFC3339 end, unbounded when empty"},
						),
						Action: generatePromos,
					},
					{
						Name:  "list",
						Usage: "list promo codes, newest first",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "limit", Value: 50},
							&cli.IntFlag{Name: "offset"},
						},
						Action: listPromos,
					},
					{
						Name:  "deactivate",
						Usage: "switch a code off without deleting it",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "code", Required: true},
						},
						Action: deactivatePromo,
					},
				},
			},
			{
				Name:  "token",
				Usage: "issue a signed session token",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "user", Required: true},
					&cli.StringFlag{Name: "email"},
					&cli.BoolFlag{Name: "admin"},
					&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour},
				},
				Action: issueToken,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("promoctl failed", "error", err)
		os.Exit(1)
	}
}

func targetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{Name: "asset-id", Required: true},
		&cli.StringFlag{Name: "asset-type", Value: string(domain.AssetBeat), Usage: "beat or beat_pack"},
	}
}

func migrate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return repository.RunMigrations(cfg.DatabaseURL(), migrations.FS)
}

// withService opens the database for the duration of fn.
func withService(ctx context.Context, fn func(*usecase.PromoService) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL())
	if err != nil {
		return err
	}
	defer pool.Close()

	return fn(usecase.NewPromoService(repository.New(pool)))
}

func createPromo(ctx context.Context, cmd *cli.Command) error {
	validFrom, err := optionalTime(cmd.String("valid-from"))
	if err != nil {
		return err
	}
	validUntil, err := optionalTime(cmd.String("valid-until"))
	if err != nil {
		return err
	}
	var maxUses *int
	if n := cmd.Int("max-uses"); n > 0 {
		maxUses = &n
	}

	return withService(ctx, func(s *usecase.PromoService) error {
		promo, err := s.CreatePromo(ctx, usecase.CreatePromoInput{
			Code:       cmd.String("code"),
			AssetID:    cmd.Int64("asset-id"),
			AssetType:  domain.AssetType(cmd.String("asset-type")),
			ValidFrom:  validFrom,
			ValidUntil: validUntil,
			MaxUses:    maxUses,
		})
		if err != nil {
			return err
		}
		return printJSON(promo)
	})
}

func generatePromos(ctx context.Context, cmd *cli.Command) error {
	validUntil, err := optionalTime(cmd.String("valid-until"))
	if err != nil {
		return err
	}

	return withService(ctx, func(s *usecase.PromoService) error {
		promos, err := s.GeneratePromos(ctx, usecase.GeneratePromoInput{
			Count:      cmd.Int("count"),
			Prefix:     cmd.String("prefix"),
			AssetID:    cmd.Int64("asset-id"),
			AssetType:  domain.AssetType(cmd.String("asset-type")),
			ValidUntil: validUntil,
		})
		if err != nil {
			return err
		}
		return printJSON(promos)
	})
}

func listPromos(ctx context.Context, cmd *cli.Command) error {
	return withService(ctx, func(s *usecase.PromoService) error {
		promos, err := s.ListPromos(ctx, cmd.Int("limit"), cmd.Int("offset"))
		if err != nil {
			return err
		}
		return printJSON(promos)
	})
}

func deactivatePromo(ctx context.Context, cmd *cli.Command) error {
	return withService(ctx, func(s *usecase.PromoService) error {
		promo, err := s.DeactivatePromo(ctx, cmd.String("code"))
		if err != nil {
			return err
		}
		return printJSON(promo)
	})
}

func issueToken(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	token, err := auth.NewTokens(cfg.JWTSecret).Issue(domain.Principal{
		UserID:  cmd.Int64("user"),
		Email:   cmd.String("email"),
		IsAdmin: cmd.Bool("admin"),
	}, cmd.Duration("ttl"))
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func optionalTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("parse time %q: %w", value, err)
	}
	return &t, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
