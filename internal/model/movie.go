package model

import "time"

type Genre struct {
	Name        string `json:"name" bson:"name"`
	Description string `json:"description" bson:"description"`
}

type Director struct {
	Name  string     `json:"name" bson:"name"`
	Bio   string     `json:"bio" bson:"bio"`
	Birth *time.Time `json:"birth,omitempty" bson:"birth,omitempty"`
	Death *time.Time `json:"death,omitempty" bson:"death,omitempty"`
}

type Movie struct {
	ID          string   `json:"id" bson:"_id"`
	Title       string   `json:"title" bson:"title"`
	Description string   `json:"description" bson:"description"`
	Genre       Genre    `json:"genre" bson:"genre"`
	Director    Director `json:"director" bson:"director"`
	Actors      []string `json:"actors" bson:"actors"`
	ImagePath   string   `json:"image_path" bson:"image_path"`
	Featured    bool     `json:"featured" bson:"featured"`
}

type MovieList struct {
	Movies []Movie `json:"movies"`
}
