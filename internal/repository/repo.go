package repository

import "cafe-system/internal/connections/database"

type Repository struct {
	Users  UserRepositoryInterface
	Menu   MenuRepositoryInterface
	Orders OrderRepositoryInterface
}

func New(ex database.Executor) *Repository {
	return &Repository{
		Users:  NewUserRepository(ex),
		Menu:   NewMenuRepository(ex),
		Orders: NewOrderRepository(ex),
	}
}
