package domain

// FavoriteRecord is the reduced projection of a character kept by the
// favorites store. It is decoupled from its source once created.
type FavoriteRecord struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

func FavoriteFromSummary(c CharacterSummary) FavoriteRecord {
	return FavoriteRecord{ID: c.ID, Name: c.Name, Image: c.Image}
}

func FavoriteFromDetail(c CharacterDetail) FavoriteRecord {
	return FavoriteRecord{ID: c.ID, Name: c.Name, Image: c.Image}
}
