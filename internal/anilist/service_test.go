package anilist

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kapu/anilist-explorer-go/internal/domain"
	"github.com/kapu/anilist-explorer-go/pkg/errors"
)

type stubRequester struct {
	data      string
	err       error
	query     string
	variables map[string]any
}

func (s *stubRequester) Execute(_ context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	s.query = query
	s.variables = variables
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(s.data), nil
}

func TestSearchMediaMapsPage(t *testing.T) {
	stub := &stubRequester{data: `{
		"Page": {
			"pageInfo": {"currentPage": 1, "hasNextPage": true},
			"media": [
				{"id": 269, "title": {"romaji": "BLEACH", "english": "Bleach", "native": null},
				 "coverImage": {"large": "https://img/269.jpg"}, "episodes": 366,
				 "averageScore": 78, "format": "TV", "seasonYear": 2004},
				{"id": 41467, "title": {"romaji": "BLEACH: Sennen Kessen-hen", "english": null, "native": ""},
				 "coverImage": null, "episodes": null, "averageScore": null, "format": null, "seasonYear": null}
			]
		}
	}`}
	svc := NewService(stub, zap.NewNop())

	page, err := svc.SearchMedia(context.Background(), "bleach", 1, 12)
	require.NoError(t, err)

	assert.Equal(t, searchMediaQuery, stub.query)
	assert.Equal(t, "bleach", stub.variables["search"])
	assert.Equal(t, 12, stub.variables["perPage"])

	require.Len(t, page.Items, 2)
	assert.Equal(t, domain.PageCursor{CurrentPage: 1, HasNextPage: true}, page.Cursor)

	first := page.Items[0]
	assert.Equal(t, 269, first.ID)
	assert.Equal(t, "Bleach", first.Title.Display())
	assert.Equal(t, "https://img/269.jpg", first.CoverImage)
	require.NotNil(t, first.Episodes)
	assert.Equal(t, 366, *first.Episodes)
	assert.Equal(t, domain.MediaFormatTV, first.Format)

	second := page.Items[1]
	assert.Equal(t, "BLEACH: Sennen Kessen-hen", second.Title.Display())
	assert.Nil(t, second.Title.Native)
	assert.Nil(t, second.Episodes)
	assert.Nil(t, second.AverageScore)
	assert.Empty(t, second.CoverImage)
}

func TestSearchMediaWithoutTitleIsMappingError(t *testing.T) {
	stub := &stubRequester{data: `{"Page":{"pageInfo":{"currentPage":1,"hasNextPage":false},
		"media":[{"id":1,"title":{"romaji":null,"english":null,"native":null}}]}}`}
	svc := NewService(stub, zap.NewNop())

	_, err := svc.SearchMedia(context.Background(), "x", 1, 12)
	require.Error(t, err)
	assert.True(t, errors.IsMapping(err))
}

func TestSearchMediaMissingPageInfoIsTerminal(t *testing.T) {
	stub := &stubRequester{data: `{"Page":{"media":[]}}`}
	svc := NewService(stub, zap.NewNop())

	page, err := svc.SearchMedia(context.Background(), "x", 3, 12)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, domain.PageCursor{CurrentPage: 3, HasNextPage: false}, page.Cursor)
}

func TestSearchMediaPropagatesRemoteError(t *testing.T) {
	stub := &stubRequester{err: errors.NewTransportError("down", 502, "", nil)}
	svc := NewService(stub, zap.NewNop())

	_, err := svc.SearchMedia(context.Background(), "x", 1, 12)
	assert.True(t, errors.IsTransport(err))
}

func TestMediaCharactersMapsEdges(t *testing.T) {
	stub := &stubRequester{data: `{
		"Media": {
			"id": 269,
			"title": {"romaji": "BLEACH"},
			"characters": {
				"pageInfo": {"currentPage": 2, "hasNextPage": false},
				"edges": [
					{"role": "MAIN", "node": {"id": 5, "name": {"full": "Ichigo Kurosaki"}, "image": {"medium": "https://img/5.jpg"}}},
					{"role": "SUPPORTING", "node": {"id": 6, "name": {"full": "Rukia Kuchiki"}, "image": null}},
					{"role": "CAMEO", "node": {"id": 7, "name": {"full": "Kon"}}},
					{"role": "MAIN", "node": null}
				]
			}
		}
	}`}
	svc := NewService(stub, zap.NewNop())

	page, err := svc.MediaCharacters(context.Background(), 269, 2, 25)
	require.NoError(t, err)

	assert.Equal(t, 269, stub.variables["id"])
	assert.Equal(t, domain.PageCursor{CurrentPage: 2, HasNextPage: false}, page.Cursor)
	require.Len(t, page.Items, 3)
	assert.Equal(t, domain.CharacterSummary{ID: 5, Name: "Ichigo Kurosaki", Role: domain.RoleMain, Image: "https://img/5.jpg"}, page.Items[0])
	assert.Equal(t, domain.RoleSupporting, page.Items[1].Role)
	assert.Empty(t, page.Items[1].Image)
	assert.Equal(t, domain.RoleUnknown, page.Items[2].Role)
}

func TestMediaCharactersMissingMediaIsMappingError(t *testing.T) {
	stub := &stubRequester{data: `{"Media": null}`}
	svc := NewService(stub, zap.NewNop())

	_, err := svc.MediaCharacters(context.Background(), 1, 1, 25)
	require.Error(t, err)

	var mapping *errors.MappingError
	require.ErrorAs(t, err, &mapping)
	assert.Equal(t, "Media", mapping.Field)
}

func TestMediaCharactersMissingNameIsMappingError(t *testing.T) {
	stub := &stubRequester{data: `{"Media":{"id":1,"characters":{"edges":[{"role":"MAIN","node":{"id":9,"name":{"full":null}}}]}}}`}
	svc := NewService(stub, zap.NewNop())

	_, err := svc.MediaCharacters(context.Background(), 1, 1, 25)
	assert.True(t, errors.IsMapping(err))
}

func TestCharacterDetailMapsOptionalFields(t *testing.T) {
	stub := &stubRequester{data: `{
		"Character": {
			"id": 5,
			"name": {"full": "Ichigo Kurosaki", "native": "黒崎一護"},
			"image": {"large": "https://img/5-large.jpg"},
			"age": "15-17",
			"gender": null,
			"dateOfBirth": {"year": null, "month": 7, "day": 15},
			"description": "A <i>substitute</i> Soul Reaper.<br>Orange hair.",
			"siteUrl": "https://anilist.co/character/5"
		}
	}`}
	svc := NewService(stub, zap.NewNop())

	detail, err := svc.CharacterDetail(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, 5, detail.ID)
	assert.Equal(t, "Ichigo Kurosaki", detail.Name)
	require.NotNil(t, detail.NativeName)
	assert.Equal(t, "黒崎一護", *detail.NativeName)
	require.NotNil(t, detail.Age)
	assert.Equal(t, "15-17", *detail.Age)
	assert.Nil(t, detail.Gender)
	assert.Equal(t, "15/7/?", detail.DateOfBirth.String())
	assert.Equal(t, "https://img/5-large.jpg", detail.Image)
	assert.Equal(t, "https://anilist.co/character/5", detail.SiteURL)
	assert.Contains(t, detail.Description, "<i>substitute</i>")
}

func TestCharacterDetailMissingCharacterIsMappingError(t *testing.T) {
	stub := &stubRequester{data: `{"Character": null}`}
	svc := NewService(stub, zap.NewNop())

	_, err := svc.CharacterDetail(context.Background(), 5)
	assert.True(t, errors.IsMapping(err))
}

func TestNullDataIsMappingError(t *testing.T) {
	stub := &stubRequester{data: `null`}
	svc := NewService(stub, zap.NewNop())

	_, err := svc.CharacterDetail(context.Background(), 5)
	assert.True(t, errors.IsMapping(err))
}
