package repository

import "chatcuisine/internal/connections/database"

type Repository struct {
	CourierRepo CourierRepositoryInterface
}

func New(db *database.DB) *Repository {
	return &Repository{
		CourierRepo: NewCourierRepository(db),
	}
}
