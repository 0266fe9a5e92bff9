package anilist

// Raw response shapes. Every field the catalog may omit is a pointer so that
// optionality is resolved once, in the mapping functions of service.go.

type pageInfoRaw struct {
	CurrentPage *int  `json:"currentPage"`
	HasNextPage *bool `json:"hasNextPage"`
}

type titleRaw struct {
	Romaji  *string `json:"romaji"`
	English *string `json:"english"`
	Native  *string `json:"native"`
}

type imageRaw struct {
	Large  *string `json:"large"`
	Medium *string `json:"medium"`
}

type mediaRaw struct {
	ID           *int      `json:"id"`
	Title        *titleRaw `json:"title"`
	CoverImage   *imageRaw `json:"coverImage"`
	Episodes     *int      `json:"episodes"`
	AverageScore *int      `json:"averageScore"`
	Format       *string   `json:"format"`
	SeasonYear   *int      `json:"seasonYear"`
}

type searchMediaData struct {
	Page *struct {
		PageInfo *pageInfoRaw `json:"pageInfo"`
		Media    []*mediaRaw  `json:"media"`
	} `json:"Page"`
}

type characterNameRaw struct {
	Full   *string `json:"full"`
	Native *string `json:"native"`
}

type characterNodeRaw struct {
	ID    *int              `json:"id"`
	Name  *characterNameRaw `json:"name"`
	Image *imageRaw         `json:"image"`
}

type characterEdgeRaw struct {
	Role *string           `json:"role"`
	Node *characterNodeRaw `json:"node"`
}

type mediaCharactersData struct {
	Media *struct {
		ID         *int      `json:"id"`
		Title      *titleRaw `json:"title"`
		Characters *struct {
			PageInfo *pageInfoRaw        `json:"pageInfo"`
			Edges    []*characterEdgeRaw `json:"edges"`
		} `json:"characters"`
	} `json:"Media"`
}

type fuzzyDateRaw struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
	Day   *int `json:"day"`
}

type characterDetailRaw struct {
	ID          *int              `json:"id"`
	Name        *characterNameRaw `json:"name"`
	Image       *imageRaw         `json:"image"`
	Age         *string           `json:"age"`
	Gender      *string           `json:"gender"`
	DateOfBirth *fuzzyDateRaw     `json:"dateOfBirth"`
	Description *string           `json:"description"`
	SiteURL     *string           `json:"siteUrl"`
}

type characterDetailData struct {
	Character *characterDetailRaw `json:"Character"`
}
