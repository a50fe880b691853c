package memory

import (
	"time"

	"go-movie-api/internal/model"
)

func date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

// Catalog returns the starter movie set used by the memory backend and by `migrate -command seed`.
func Catalog() []model.Movie {
	drama := model.Genre{Name: "Drama", Description: "Serious, plot-driven stories portraying realistic characters and emotional themes."}
	scifi := model.Genre{Name: "Science Fiction", Description: "Speculative stories built on imagined science and technology."}
	thriller := model.Genre{Name: "Thriller", Description: "Suspense-driven stories that keep the audience on edge."}

	nolan := model.Director{Name: "Christopher Nolan", Bio: "British-American filmmaker known for non-linear storytelling.", Birth: date(1970, time.July, 30)}
	darabont := model.Director{Name: "Frank Darabont", Bio: "French-born American director and screenwriter.", Birth: date(1959, time.January, 28)}
	kubrick := model.Director{Name: "Stanley Kubrick", Bio: "American filmmaker regarded as one of the greatest directors in history.", Birth: date(1928, time.July, 26), Death: date(1999, time.March, 7)}
	fincher := model.Director{Name: "David Fincher", Bio: "American director known for dark psychological thrillers.", Birth: date(1962, time.August, 28)}

	return []model.Movie{
		{
			ID:          "tt1375666",
			Title:       "Inception",
			Description: "A thief who steals corporate secrets through dream-sharing technology is given a chance at redemption.",
			Genre:       scifi,
			Director:    nolan,
			Actors:      []string{"Leonardo DiCaprio", "Joseph Gordon-Levitt", "Elliot Page"},
			ImagePath:   "inception.png",
			Featured:    true,
		},
		{
			ID:          "tt0816692",
			Title:       "Interstellar",
			Description: "A team of explorers travel through a wormhole in space to ensure humanity's survival.",
			Genre:       scifi,
			Director:    nolan,
			Actors:      []string{"Matthew McConaughey", "Anne Hathaway", "Jessica Chastain"},
			ImagePath:   "interstellar.png",
		},
		{
			ID:          "tt0111161",
			Title:       "The Shawshank Redemption",
			Description: "Two imprisoned men bond over a number of years, finding solace and eventual redemption.",
			Genre:       drama,
			Director:    darabont,
			Actors:      []string{"Tim Robbins", "Morgan Freeman"},
			ImagePath:   "shawshank.png",
			Featured:    true,
		},
		{
			ID:          "tt0120689",
			Title:       "The Green Mile",
			Description: "A death row guard discovers that one of his inmates has a mysterious gift.",
			Genre:       drama,
			Director:    darabont,
			Actors:      []string{"Tom Hanks", "Michael Clarke Duncan"},
			ImagePath:   "greenmile.png",
		},
		{
			ID:          "tt0062622",
			Title:       "2001: A Space Odyssey",
			Description: "A voyage to Jupiter with the sentient computer HAL after the discovery of a mysterious monolith.",
			Genre:       scifi,
			Director:    kubrick,
			Actors:      []string{"Keir Dullea", "Gary Lockwood"},
			ImagePath:   "2001.png",
		},
		{
			ID:          "tt0114369",
			Title:       "Se7en",
			Description: "Two detectives hunt a serial killer who uses the seven deadly sins as his motives.",
			Genre:       thriller,
			Director:    fincher,
			Actors:      []string{"Brad Pitt", "Morgan Freeman", "Gwyneth Paltrow"},
			ImagePath:   "se7en.png",
		},
	}
}
