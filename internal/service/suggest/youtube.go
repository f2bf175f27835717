package suggest

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ecosort/ecosort-backend/internal/domain"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const maxSuggestions = 5

// Service finds upcycling tutorial videos for detected waste items via the
// YouTube Data API. Without an API key it serves canned suggestions so the
// feature degrades instead of disappearing.
type Service struct {
	youtube *youtube.Service
	logger  *zap.Logger
}

func NewService(ctx context.Context, apiKey string, logger *zap.Logger) (*Service, error) {
	s := &Service{logger: logger}

	if apiKey == "" {
		logger.Warn("YOUTUBE_API_KEY not set, video suggestions will use canned fallbacks")
		return s, nil
	}

	yt, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	s.youtube = yt

	logger.Info("YouTube client initialized")
	return s, nil
}

// Suggest returns up to five upcycling videos for one item name. Every
// failure path degrades to the canned fallback pair; this method never
// returns an error to the caller.
func (s *Service) Suggest(ctx context.Context, itemName string) []*domain.VideoSuggestion {
	if s.youtube == nil {
		return FallbackSuggestions(itemName)
	}

	query := fmt.Sprintf("DIY upcycling %s craft tutorial", itemName)
	searchResp, err := s.youtube.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		VideoDuration("medium").
		VideoDefinition("high").
		Order("relevance").
		MaxResults(maxSuggestions).
		Context(ctx).
		Do()
	if err != nil {
		s.logger.Warn("YouTube search failed, using canned fallbacks",
			zap.String("item", itemName),
			zap.Error(err),
		)
		return FallbackSuggestions(itemName)
	}

	videoIDs := make([]string, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			videoIDs = append(videoIDs, item.Id.VideoId)
		}
	}
	if len(videoIDs) == 0 {
		return FallbackSuggestions(itemName)
	}

	videosResp, err := s.youtube.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
		Id(videoIDs...).
		Context(ctx).
		Do()
	if err != nil {
		s.logger.Warn("YouTube video lookup failed, using canned fallbacks",
			zap.String("item", itemName),
			zap.Error(err),
		)
		return FallbackSuggestions(itemName)
	}

	suggestions := make([]*domain.VideoSuggestion, 0, len(videosResp.Items))
	for _, video := range videosResp.Items {
		if video.Snippet == nil || video.ContentDetails == nil {
			continue
		}
		views := uint64(0)
		if video.Statistics != nil {
			views = video.Statistics.ViewCount
		}
		thumbnail := ""
		if video.Snippet.Thumbnails != nil && video.Snippet.Thumbnails.Medium != nil {
			thumbnail = video.Snippet.Thumbnails.Medium.Url
		}
		suggestions = append(suggestions, &domain.VideoSuggestion{
			Title:      video.Snippet.Title,
			URL:        "https://www.youtube.com/watch?v=" + video.Id,
			Duration:   FormatDuration(video.ContentDetails.Duration),
			Difficulty: DifficultyFor(video.ContentDetails.Duration),
			Views:      FormatViews(views),
			Thumbnail:  thumbnail,
			Channel:    video.Snippet.ChannelTitle,
		})
	}

	if len(suggestions) == 0 {
		return FallbackSuggestions(itemName)
	}

	s.logger.Debug("Video suggestions found",
		zap.String("item", itemName),
		zap.Int("count", len(suggestions)),
	)
	return suggestions
}

// SuggestAll fans Suggest out over several item names, preserving the
// request order in the returned map keys.
func (s *Service) SuggestAll(ctx context.Context, itemNames []string) map[string][]*domain.VideoSuggestion {
	result := make(map[string][]*domain.VideoSuggestion, len(itemNames))
	for _, name := range itemNames {
		result[name] = s.Suggest(ctx, name)
	}
	return result
}

// FormatDuration converts an ISO 8601 duration like PT4M32S into a display
// string. Components are concatenated positionally, so PT1H2M3S renders as
// 1:2:3 and missing leading minutes gain a 0 prefix.
func FormatDuration(iso string) string {
	d := strings.TrimPrefix(iso, "PT")
	d = strings.ReplaceAll(d, "H", ":")
	d = strings.ReplaceAll(d, "M", ":")
	d = strings.ReplaceAll(d, "S", "")
	if strings.HasPrefix(d, ":") {
		d = "0" + d
	}
	return d
}

// FormatViews abbreviates a view count: 1M per million, 1K per thousand,
// the plain number below that.
func FormatViews(views uint64) string {
	switch {
	case views >= 1_000_000:
		return strconv.FormatUint(views/1_000_000, 10) + "M"
	case views >= 1_000:
		return strconv.FormatUint(views/1_000, 10) + "K"
	default:
		return strconv.FormatUint(views, 10)
	}
}

// DifficultyFor grades a video by the leading duration component: five or
// fewer is Easy, fifteen or fewer Medium, anything longer Hard.
func DifficultyFor(iso string) string {
	formatted := FormatDuration(iso)
	first, _, _ := strings.Cut(formatted, ":")
	minutes, err := strconv.Atoi(first)
	if err != nil {
		return "Medium"
	}
	switch {
	case minutes <= 5:
		return "Easy"
	case minutes <= 15:
		return "Medium"
	default:
		return "Hard"
	}
}

// FallbackSuggestions is the canned pair served when the YouTube API is
// unavailable or finds nothing. Links point at YouTube search results so
// they stay useful without a working API key.
func FallbackSuggestions(itemName string) []*domain.VideoSuggestion {
	searchTerm := strings.ReplaceAll(itemName, " ", "+")
	return []*domain.VideoSuggestion{
		{
			Title:      fmt.Sprintf("DIY Upcycling with %s - Creative Recycling", itemName),
			URL:        "https://www.youtube.com/results?search_query=DIY+upcycling+" + searchTerm,
			Duration:   "10:00",
			Difficulty: "Medium",
			Views:      "500K",
		},
		{
			Title:      fmt.Sprintf("How to Recycle %s - Easy Craft Tutorial", itemName),
			URL:        "https://www.youtube.com/results?search_query=recycle+craft+" + searchTerm,
			Duration:   "8:30",
			Difficulty: "Easy",
			Views:      "300K",
		},
	}
}
