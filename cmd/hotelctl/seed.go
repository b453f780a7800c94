package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"

	"stayhub/internal/adapters/auth"
	"stayhub/internal/app"
	"stayhub/internal/domain"
	"stayhub/internal/shared"
	mysqlrepo "stayhub/internal/storage/mysql"
)

// seedHotel is one entry of a seed file: the operator account, its hotel
// profile and the room types to create when the hotel has none yet.
type seedHotel struct {
	Email     string              `json:"email"`
	Password  string              `json:"password"`
	FirstName string              `json:"firstName"`
	LastName  string              `json:"lastName"`
	Hotel     domain.HotelProfile `json:"hotel"`
	RoomTypes []domain.RoomType   `json:"roomTypes"`
}

func readSeedFile(path string) ([]seedHotel, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []seedHotel
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

type seeder struct {
	identity *app.IdentityService
	profiles *app.ProfileService
	catalog  *app.CatalogService
}

func newSeeder(repo *mysqlrepo.Repo, cfg *shared.Config) *seeder {
	secret := cfg.JWTSecret
	if secret == "" {
		// seeding never hands tokens out; any key lets the services issue them
		secret = uuid.NewString()
	}
	tokens := auth.NewTokens(secret, cfg.TokenTTL)
	return &seeder{
		identity: app.NewIdentityService(repo, auth.NewPasswords(cfg.BcryptCost), tokens, nil, nil),
		profiles: app.NewProfileService(repo, repo, tokens, nil),
		catalog:  app.NewCatalogService(repo, repo, nil),
	}
}

// seed registers (or signs in) the operator, upserts the hotel profile and
// adds room types to a hotel that has none. Re-running it is safe.
func (s *seeder) seed(ctx context.Context, h seedHotel) (int, error) {
	sess, err := s.identity.Register(ctx, app.Registration{Email: h.Email, Password: h.Password, FirstName: h.FirstName, LastName: h.LastName})
	if errors.Is(err, domain.ErrConflict) {
		sess, err = s.identity.Login(ctx, h.Email, h.Password)
	}
	if err != nil {
		return 0, fmt.Errorf("account %s: %w", h.Email, err)
	}
	_, sess, err = s.profiles.UpsertHotel(ctx, domain.ClaimsFor(sess.Account), h.Hotel)
	if err != nil {
		return 0, fmt.Errorf("hotel %q: %w", h.Hotel.Name, err)
	}
	c := domain.ClaimsFor(sess.Account)

	existing, err := s.catalog.ListRoomTypes(ctx, c)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for _, rt := range h.RoomTypes {
		rt.Active = true
		if _, err := s.catalog.CreateRoomType(ctx, c, rt); err != nil {
			return 0, fmt.Errorf("room type %q: %w", rt.Name, err)
		}
	}
	return len(h.RoomTypes), nil
}

func newSeedCommand(cfg *shared.Config) *cobra.Command {
	var (
		file    string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo hotels and room types from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if workers < 1 {
				return fmt.Errorf("--workers must be at least 1, got %d", workers)
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			hotels, err := readSeedFile(file)
			if err != nil {
				return err
			}
			db, err := openDB(ctx, cfg.MySQLDSN)
			if err != nil {
				return err
			}
			defer db.Close()

			log.Info().Str("file", file).Int("hotels", len(hotels)).Int("workers", workers).Msg("seed starting")

			s := newSeeder(mysqlrepo.New(db), cfg)
			sem := semaphore.NewWeighted(int64(workers))
			var (
				wg     sync.WaitGroup
				failed atomic.Int32
			)
			for _, h := range hotels {
				// acquire before launching the goroutine; release inside it
				if err := sem.Acquire(ctx, 1); err != nil {
					break
				}
				wg.Add(1)
				go func(h seedHotel) {
					defer wg.Done()
					defer sem.Release(1)

					n, err := s.seed(ctx, h)
					if err != nil {
						failed.Add(1)
						log.Warn().Err(err).Str("email", h.Email).Msg("seed failed")
						return
					}
					log.Info().Str("hotel", h.Hotel.Name).Int("room_types", n).Msg("seed ok")
				}(h)
			}
			wg.Wait()

			if n := failed.Load(); n > 0 {
				return fmt.Errorf("%d of %d hotels failed", n, len(hotels))
			}
			log.Info().Msg("seed completed")
			return ctx.Err()
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "seed.json", "seed file")
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "concurrent hotels")
	return cmd
}
