package adapter

import (
	"fmt"
	"strings"

	"github.com/kapu/anilist-explorer-go/internal/constants"
	"github.com/kapu/anilist-explorer-go/internal/domain"
	"github.com/kapu/anilist-explorer-go/internal/explorer"
	"github.com/kapu/anilist-explorer-go/internal/paging"
	"github.com/kapu/anilist-explorer-go/internal/util"
)

// ResponseFormatter renders explorer state as terminal text.
type ResponseFormatter struct {
	prefix string
}

func NewResponseFormatter(prefix string) *ResponseFormatter {
	return &ResponseFormatter{prefix: strings.TrimSpace(prefix)}
}

// FormatSearchResults renders the result list. A blank search shows the
// onboarding hint; a failed search is reported apart from an empty one.
func (f *ResponseFormatter) FormatSearchResults(state explorer.SearchState) string {
	if !state.HasStarted || state.Query == "" {
		return fmt.Sprintf("Type a title to search, e.g. %ssearch Bleach", f.prefix)
	}
	if state.IsLoading && len(state.Items) == 0 {
		return "Searching..."
	}
	if len(state.Items) == 0 {
		if state.LastErr != nil {
			return f.FormatError("Search failed. Try again.")
		}
		return fmt.Sprintf("No results for %q.", state.Query)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Results for %q (%d)\n\n", state.Query, len(state.Items)))
	repeats := repeatedKeys(state.Items)
	for i, entry := range state.Items {
		sb.WriteString(fmt.Sprintf("%2d. %s%s\n", i+1, f.formatMediaLine(entry.Item), repeats[entry.Key]))
	}

	if state.LastErr != nil {
		sb.WriteString("\nCould not load more results.")
	} else if state.Cursor.HasNextPage {
		sb.WriteString(fmt.Sprintf("\n%smore for the next page", f.prefix))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (f *ResponseFormatter) formatMediaLine(m domain.MediaSummary) string {
	title := util.TruncateString(m.Title.Display(), constants.StringLimits.Title)

	details := make([]string, 0, 4)
	if m.Format != "" {
		details = append(details, m.Format.String())
	}
	if m.SeasonYear != nil {
		details = append(details, fmt.Sprintf("%d", *m.SeasonYear))
	}
	if m.Episodes != nil {
		details = append(details, fmt.Sprintf("%d eps", *m.Episodes))
	}
	if m.AverageScore != nil {
		details = append(details, fmt.Sprintf("%d%%", *m.AverageScore))
	}

	line := fmt.Sprintf("%s  #%d", title, m.ID)
	if len(details) > 0 {
		line += "  [" + strings.Join(details, " · ") + "]"
	}
	return line
}

// FormatCast renders the cast list of media, marking favorites with '*'.
func (f *ResponseFormatter) FormatCast(media domain.MediaSummary, state explorer.CastState, isFavorite func(int) bool) string {
	title := media.Title.Display()
	if title == "" {
		title = fmt.Sprintf("#%d", media.ID)
	}

	if state.IsLoading && len(state.Items) == 0 {
		return fmt.Sprintf("Loading cast of %s...", title)
	}
	if len(state.Items) == 0 {
		if state.LastErr != nil {
			return f.FormatError("Could not load the cast. Try again.")
		}
		return fmt.Sprintf("No characters listed for %s.", title)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Cast of %s (%d)\n\n", title, len(state.Items)))
	repeats := repeatedKeys(state.Items)
	for i, entry := range state.Items {
		mark := " "
		if isFavorite != nil && isFavorite(entry.Item.ID) {
			mark = "*"
		}
		sb.WriteString(fmt.Sprintf("%s%2d. %s (%s)  #%d%s\n", mark, i+1, entry.Item.Name, entry.Item.Role.Label(), entry.Item.ID, repeats[entry.Key]))
	}

	if state.LastErr != nil {
		sb.WriteString("\nCould not load more characters.")
	} else if state.Cursor.HasNextPage {
		sb.WriteString(fmt.Sprintf("\n%scast for more characters", f.prefix))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatCharacterDetail renders the character profile.
func (f *ResponseFormatter) FormatCharacterDetail(c *domain.CharacterDetail, isFavorite bool) string {
	if c == nil {
		return f.FormatError("Character not found.")
	}

	description := util.RenderDescription(c.Description)
	if description == "" {
		description = "No description."
	}

	out, err := render("detail.tmpl", detailView{
		Name:        c.Name,
		NativeName:  deref(c.NativeName),
		Favorite:    isFavorite,
		Age:         deref(c.Age),
		Gender:      deref(c.Gender),
		Birthday:    c.DateOfBirth.String(),
		Description: util.TruncateString(description, constants.StringLimits.Description),
		SiteURL:     c.SiteURL,
	})
	if err != nil {
		return f.FormatError("failed to render character")
	}
	return out
}

type detailView struct {
	Name        string
	NativeName  string
	Favorite    bool
	Age         string
	Gender      string
	Birthday    string
	Description string
	SiteURL     string
}

func (f *ResponseFormatter) FormatFavorites(records []domain.FavoriteRecord) string {
	if len(records) == 0 {
		return fmt.Sprintf("No favorites yet. Open a character and use %sfav to add one.", f.prefix)
	}
	out, err := render("favorites.tmpl", records)
	if err != nil {
		return f.FormatError("failed to render favorites")
	}
	return out
}

func (f *ResponseFormatter) FormatFavoriteToggled(name string, favorite bool) string {
	if favorite {
		return fmt.Sprintf("Added %s to favorites.", name)
	}
	return fmt.Sprintf("Removed %s from favorites.", name)
}

func (f *ResponseFormatter) FormatFavoriteRemoved(name string, removed bool) string {
	if !removed {
		return f.FormatError("That character is not a favorite.")
	}
	return fmt.Sprintf("Removed %s from favorites.", name)
}

func (f *ResponseFormatter) FormatHelp() string {
	out, err := render("help.tmpl", struct{ Prefix string }{Prefix: f.prefix})
	if err != nil {
		return f.FormatError("help is unavailable")
	}
	return out
}

func (f *ResponseFormatter) FormatError(message string) string {
	return fmt.Sprintf("! %s", message)
}

// repeatedKeys returns a "  [key]" suffix for every entry whose item already
// appeared earlier in the listing, so repeats can be addressed unambiguously.
func repeatedKeys[T interface{ Key() int }](items []paging.Entry[T]) map[string]string {
	seen := make(map[int]struct{}, len(items))
	suffixes := make(map[string]string)
	for _, entry := range items {
		id := entry.Item.Key()
		if _, dup := seen[id]; dup {
			suffixes[entry.Key] = fmt.Sprintf("  [%s]", entry.Key)
			continue
		}
		seen[id] = struct{}{}
	}
	return suffixes
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
