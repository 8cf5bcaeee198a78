package ai

import (
	"context"
	"errors"
	"log"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/leakwatch/internal/domain/ai"
)

// maxParallel batas request AI yang jalan bersamaan dalam satu batch.
const maxParallel = 8

type Service struct {
	client ai.Client
}

func NewService(client ai.Client) *Service {
	return &Service{client: client}
}

// Assess nilai satu item.
func (s *Service) Assess(ctx context.Context, item ai.Item) (ai.Assessment, error) {
	return s.client.Assess(ctx, item)
}

// AssessBatch nilai banyak item paralel (max 8 in-flight). Kegagalan
// per-item cuma di-log dan item-nya absen dari hasil; quota habis
// membatalkan sisa batch karena retry pasti gagal juga. Hasil diurutkan
// by index supaya caller bisa cocokkan balik ke input.
func (s *Service) AssessBatch(ctx context.Context, items []ai.Item) ([]ai.Assessment, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	results := make([]*ai.Assessment, len(items))
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			a, err := s.client.Assess(ctx, item)
			if err != nil {
				if errors.Is(err, ai.ErrQuotaExceeded) {
					return err
				}
				log.Printf("assess %s failed: %v", item.URL, err)
				return nil
			}
			a.Index = i
			results[i] = &a
			return nil
		})
	}
	err := g.Wait()

	var out []ai.Assessment
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })

	if err != nil && len(out) == 0 {
		return nil, err
	}
	return out, nil
}
