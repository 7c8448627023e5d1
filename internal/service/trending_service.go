package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/vedran77/flicksy/internal/domain"
	"github.com/vedran77/flicksy/internal/repository"
)

const (
	// trendingWindow bounds the trending-posts query to recent activity.
	trendingWindow = 24 * time.Hour
	// hashtagScanLimit caps how many recent posts feed the hashtag counts.
	hashtagScanLimit = 1000

	cacheTTL = time.Minute
)

var hashtagPattern = regexp.MustCompile(`#\w+`)

type HashtagCount struct {
	Hashtag string `json:"hashtag"`
	Count   int    `json:"count"`
}

// TrendingService computes read-only rankings over recent posts. When a Redis
// client is configured, results are cached briefly; a nil client or a cache
// failure falls back to the direct query.
type TrendingService struct {
	postRepo repository.PostRepository
	cache    *redis.Client
}

func NewTrendingService(postRepo repository.PostRepository, cache *redis.Client) *TrendingService {
	return &TrendingService{postRepo: postRepo, cache: cache}
}

// Posts returns the top posts of the trailing 24 hours, ordered by likes,
// then comments, then recency. The tie-break chain keeps the order
// deterministic when engagement counts collide.
func (s *TrendingService) Posts(ctx context.Context, limit int) ([]domain.Post, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	key := fmt.Sprintf("trending:posts:%d", limit)
	var cached []domain.Post
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	posts, err := s.postRepo.TrendingSince(ctx, time.Now().Add(-trendingWindow), limit)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.Post{}
	}

	s.cacheSet(ctx, key, posts)
	return posts, nil
}

// Hashtags scans the newest posts, counts case-folded #tags and returns the
// most frequent ones. Equal counts keep first-seen order.
func (s *TrendingService) Hashtags(ctx context.Context, limit int) ([]HashtagCount, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	key := fmt.Sprintf("trending:hashtags:%d", limit)
	var cached []HashtagCount
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	contents, err := s.postRepo.RecentContents(ctx, hashtagScanLimit)
	if err != nil {
		return nil, err
	}

	tags := countHashtags(contents)
	if len(tags) > limit {
		tags = tags[:limit]
	}

	s.cacheSet(ctx, key, tags)
	return tags, nil
}

func countHashtags(contents []string) []HashtagCount {
	counts := make(map[string]int)
	var order []string

	for _, content := range contents {
		for _, tag := range hashtagPattern.FindAllString(content, -1) {
			tag = strings.ToLower(tag)
			if counts[tag] == 0 {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	tags := make([]HashtagCount, 0, len(order))
	for _, tag := range order {
		tags = append(tags, HashtagCount{Hashtag: tag, Count: counts[tag]})
	}

	// Stable keeps first-seen order among equal counts.
	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].Count > tags[j].Count
	})
	return tags
}

func (s *TrendingService) cacheGet(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (s *TrendingService) cacheSet(ctx context.Context, key string, val any) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Debug("trending cache write failed")
	}
}
