package service

import (
	"cafe-system/internal/connections/database"
	"cafe-system/internal/notify"
	"cafe-system/internal/repository"
)

type Service struct {
	Auth   AuthServiceInterface
	Users  UserServiceInterface
	Menu   MenuServiceInterface
	Orders OrderServiceInterface
}

type Options struct {
	// HistoryLimit caps order history to the most recent orders.
	HistoryLimit int
}

func New(ex database.Executor, pub notify.Publisher, opts Options) *Service {
	if pub == nil {
		pub = notify.Nop{}
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 5
	}
	repo := repository.New(ex)
	return &Service{
		Auth:   NewAuthService(repo.Users),
		Users:  NewUserService(repo.Users),
		Menu:   NewMenuService(repo.Menu),
		Orders: NewOrderService(ex, repo.Orders, pub, opts.HistoryLimit),
	}
}
