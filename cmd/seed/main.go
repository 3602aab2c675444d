package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"booktrend/internal/auth"
	"booktrend/internal/config"
	"booktrend/internal/logging"

	"github.com/jackc/pgx/v5/pgxpool"
)

// demoUser is one row per sign-in provider so every branch of the
// identity lookup has something to find.
type demoUser struct {
	column   string
	subject  string
	nickname string
	gender   string
}

var demoUsers = []demoUser{
	{column: "login_id", subject: "reader01", nickname: "책벌레", gender: "woman"},
	{column: "kakao_id", subject: "kakao-2087461193", nickname: "카카오독자", gender: "man"},
	{column: "apple_id", subject: "001234.5f0c9a1b2c3d4e5f.0321", nickname: "애플독자", gender: ""},
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: "console"})

	if cfg.Database.DSN == "" {
		logging.Fatal().Msg("DB_DSN is required")
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	for _, u := range demoUsers {
		if err := insertUser(ctx, pool, u); err != nil {
			logging.Fatal().Err(err).Str("subject", u.subject).Msg("failed to seed user")
		}
		logging.Info().Str("provider", u.column).Str("subject", u.subject).Msg("seeded user")

		if cfg.Auth.JWTSecret == "" {
			continue
		}
		token, _, err := auth.GenerateToken(cfg.Auth.JWTSecret, u.subject, "USER", 24*time.Hour)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to sign token")
		}
		fmt.Printf("%s\t%s\n", u.subject, token)
	}

	var total int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		logging.Warn().Err(err).Msg("failed to count users")
		return
	}
	logging.Info().Int("total", total).Msg("seed complete")
}

// column is always one of the three identity columns above, never user input.
func insertUser(ctx context.Context, pool *pgxpool.Pool, u demoUser) error {
	var gender *string
	if u.gender != "" {
		gender = &u.gender
	}
	q := fmt.Sprintf(`INSERT INTO users (%s, nickname, gender)
		VALUES ($1, $2, $3)
		ON CONFLICT (%s) DO NOTHING`, u.column, u.column)
	_, err := pool.Exec(ctx, q, u.subject, u.nickname, gender)
	return err
}
