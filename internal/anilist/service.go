package anilist

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/kapu/anilist-explorer-go/internal/domain"
	"github.com/kapu/anilist-explorer-go/pkg/errors"
)

// Service decodes catalog payloads into domain types. Optional fields are
// resolved here once; a payload missing a required field fails with a
// MappingError instead of producing a half-built record.
type Service struct {
	requester Requester
	logger    *zap.Logger
}

func NewService(requester Requester, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		requester: requester,
		logger:    logger,
	}
}

// SearchMedia returns one page of anime matching term, most popular first.
func (s *Service) SearchMedia(ctx context.Context, term string, page, perPage int) (domain.Page[domain.MediaSummary], error) {
	var data searchMediaData
	if err := s.query(ctx, searchMediaQuery, map[string]any{
		"search":  term,
		"page":    page,
		"perPage": perPage,
	}, &data); err != nil {
		return domain.Page[domain.MediaSummary]{}, err
	}

	if data.Page == nil {
		return domain.Page[domain.MediaSummary]{}, errors.NewMappingError("search payload has no Page", "Page")
	}

	items := make([]domain.MediaSummary, 0, len(data.Page.Media))
	for i, raw := range data.Page.Media {
		if raw == nil {
			continue
		}
		media, err := mapMedia(raw)
		if err != nil {
			s.logger.Warn("Unmappable media entry",
				zap.Int("index", i),
				zap.Error(err),
			)
			return domain.Page[domain.MediaSummary]{}, err
		}
		items = append(items, media)
	}

	return domain.Page[domain.MediaSummary]{
		Items:  items,
		Cursor: mapCursor(data.Page.PageInfo, page),
	}, nil
}

// MediaCharacters returns one page of the cast of the anime with mediaID.
func (s *Service) MediaCharacters(ctx context.Context, mediaID, page, perPage int) (domain.Page[domain.CharacterSummary], error) {
	var data mediaCharactersData
	if err := s.query(ctx, mediaCharactersQuery, map[string]any{
		"id":      mediaID,
		"page":    page,
		"perPage": perPage,
	}, &data); err != nil {
		return domain.Page[domain.CharacterSummary]{}, err
	}

	if data.Media == nil {
		return domain.Page[domain.CharacterSummary]{}, errors.NewMappingError(
			fmt.Sprintf("media %d not found in payload", mediaID), "Media")
	}
	if data.Media.Characters == nil {
		return domain.Page[domain.CharacterSummary]{
			Items:  []domain.CharacterSummary{},
			Cursor: domain.PageCursor{CurrentPage: page},
		}, nil
	}

	edges := data.Media.Characters.Edges
	items := make([]domain.CharacterSummary, 0, len(edges))
	for _, edge := range edges {
		if edge == nil || edge.Node == nil {
			continue
		}
		character, err := mapCharacterEdge(edge)
		if err != nil {
			return domain.Page[domain.CharacterSummary]{}, err
		}
		items = append(items, character)
	}

	return domain.Page[domain.CharacterSummary]{
		Items:  items,
		Cursor: mapCursor(data.Media.Characters.PageInfo, page),
	}, nil
}

// CharacterDetail loads the full record of one character.
func (s *Service) CharacterDetail(ctx context.Context, characterID int) (*domain.CharacterDetail, error) {
	var data characterDetailData
	if err := s.query(ctx, characterDetailQuery, map[string]any{"id": characterID}, &data); err != nil {
		return nil, err
	}

	raw := data.Character
	if raw == nil {
		return nil, errors.NewMappingError(
			fmt.Sprintf("character %d not found in payload", characterID), "Character")
	}
	if raw.ID == nil {
		return nil, errors.NewMappingError("character has no id", "Character.id")
	}
	if raw.Name == nil || raw.Name.Full == nil || *raw.Name.Full == "" {
		return nil, errors.NewMappingError("character has no full name", "Character.name.full")
	}

	detail := &domain.CharacterDetail{
		ID:          *raw.ID,
		Name:        *raw.Name.Full,
		NativeName:  nonEmpty(raw.Name.Native),
		Age:         nonEmpty(raw.Age),
		Gender:      nonEmpty(raw.Gender),
		Description: deref(raw.Description),
		SiteURL:     deref(raw.SiteURL),
	}
	if raw.Image != nil {
		detail.Image = deref(raw.Image.Large)
	}
	if raw.DateOfBirth != nil {
		detail.DateOfBirth = domain.FuzzyDate{
			Year:  raw.DateOfBirth.Year,
			Month: raw.DateOfBirth.Month,
			Day:   raw.DateOfBirth.Day,
		}
	}
	return detail, nil
}

func (s *Service) query(ctx context.Context, query string, variables map[string]any, out any) error {
	data, err := s.requester.Execute(ctx, query, variables)
	if err != nil {
		return err
	}
	if len(data) == 0 || string(data) == "null" {
		return errors.NewMappingError("response has no data", "data")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.NewMappingError(fmt.Sprintf("unexpected payload shape: %v", err), "data")
	}
	return nil
}

func mapMedia(raw *mediaRaw) (domain.MediaSummary, error) {
	if raw.ID == nil {
		return domain.MediaSummary{}, errors.NewMappingError("media has no id", "media.id")
	}

	var title domain.MediaTitle
	if raw.Title != nil {
		title = domain.MediaTitle{
			Romaji:  nonEmpty(raw.Title.Romaji),
			English: nonEmpty(raw.Title.English),
			Native:  nonEmpty(raw.Title.Native),
		}
	}
	if title.IsEmpty() {
		return domain.MediaSummary{}, errors.NewMappingError(
			fmt.Sprintf("media %d has no title", *raw.ID), "media.title")
	}

	media := domain.MediaSummary{
		ID:           *raw.ID,
		Title:        title,
		Episodes:     raw.Episodes,
		AverageScore: raw.AverageScore,
		SeasonYear:   raw.SeasonYear,
		Format:       domain.MediaFormat(deref(raw.Format)),
	}
	if raw.CoverImage != nil {
		media.CoverImage = deref(raw.CoverImage.Large)
	}
	return media, nil
}

func mapCharacterEdge(edge *characterEdgeRaw) (domain.CharacterSummary, error) {
	node := edge.Node
	if node.ID == nil {
		return domain.CharacterSummary{}, errors.NewMappingError("character edge has no id", "node.id")
	}
	if node.Name == nil || node.Name.Full == nil || *node.Name.Full == "" {
		return domain.CharacterSummary{}, errors.NewMappingError(
			fmt.Sprintf("character %d has no full name", *node.ID), "node.name.full")
	}

	character := domain.CharacterSummary{
		ID:   *node.ID,
		Name: *node.Name.Full,
		Role: domain.ParseRole(deref(edge.Role)),
	}
	if node.Image != nil {
		character.Image = deref(node.Image.Medium)
	}
	return character, nil
}

// mapCursor falls back to the requested page and a terminal cursor when the
// payload omits pageInfo.
func mapCursor(raw *pageInfoRaw, requested int) domain.PageCursor {
	cursor := domain.PageCursor{CurrentPage: requested}
	if raw == nil {
		return cursor
	}
	if raw.CurrentPage != nil {
		cursor.CurrentPage = *raw.CurrentPage
	}
	if raw.HasNextPage != nil {
		cursor.HasNextPage = *raw.HasNextPage
	}
	return cursor
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
