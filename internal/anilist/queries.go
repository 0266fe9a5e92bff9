package anilist

const searchMediaQuery = `
query ($page: Int, $perPage: Int, $search: String) {
  Page(page: $page, perPage: $perPage) {
    pageInfo { currentPage hasNextPage }
    media(search: $search, type: ANIME, sort: POPULARITY_DESC) {
      id
      title { romaji english native }
      coverImage { large }
      episodes
      averageScore
      format
      seasonYear
    }
  }
}
`

const mediaCharactersQuery = `
query ($id: Int!, $page: Int, $perPage: Int) {
  Media(id: $id, type: ANIME) {
    id
    title { romaji english native }
    characters(page: $page, perPage: $perPage) {
      pageInfo { currentPage hasNextPage }
      edges {
        role
        node {
          id
          name { full }
          image { medium }
        }
      }
    }
  }
}
`

const characterDetailQuery = `
query ($id: Int!) {
  Character(id: $id) {
    id
    name { full native }
    image { large }
    age
    gender
    dateOfBirth { year month day }
    description(asHtml: false)
    siteUrl
  }
}
`
