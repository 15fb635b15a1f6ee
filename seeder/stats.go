package seeder

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Luismorlan/chirp/model"
	"golang.org/x/sync/errgroup"
)

// GetStats counts the rows of the four seeded tables. It never logs.
func (s *Seeder) GetStats(ctx context.Context) (model.SeedingStats, error) {
	var stats model.SeedingStats
	var group errgroup.Group
	counts := []struct {
		dst   *int64
		count func(ctx context.Context) (int64, error)
	}{
		{&stats.Users, s.Store.CountUsers},
		{&stats.Tweets, s.Store.CountTweets},
		{&stats.Follows, s.Store.CountFollows},
		{&stats.Likes, s.Store.CountLikes},
	}
	for _, c := range counts {
		c := c
		group.Go(func() error {
			n, err := c.count(ctx)
			if err != nil {
				return err
			}
			*c.dst = n
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return model.SeedingStats{}, err
	}
	return stats, nil
}

// DisplayStats counts like GetStats and logs the result.
func (s *Seeder) DisplayStats(ctx context.Context) (model.SeedingStats, error) {
	stats, err := s.GetStats(ctx)
	if err != nil {
		return stats, err
	}
	s.Log.Success("Seeding completed!")
	s.Log.Info("Final stats: " + formatStats(stats))
	return stats, nil
}

func formatStats(stats model.SeedingStats) string {
	bytes, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", stats)
	}
	return string(bytes)
}

// CheckCounters recomputes the reply and like aggregates of every tweet and
// warns about each stored counter that disagrees. Drift is reported, not
// repaired.
func (s *Seeder) CheckCounters(ctx context.Context) ([]model.CounterDrift, error) {
	drifts, err := s.Store.CounterDrift(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range drifts {
		s.Log.Warn(fmt.Sprintf("⚠️ Counter drift on tweet ID %d: %s is %d, expected %d", d.TweetID, d.Column, d.Stored, d.Actual))
	}
	return drifts, nil
}
