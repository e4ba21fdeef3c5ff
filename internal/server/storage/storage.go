package storage

import "context"

// Storage - полный backend сервера: пользователи, записи и управление соединением
type Storage interface {
	UserStorage
	EntryStorage

	// Ping checks that the backend is reachable
	Ping(ctx context.Context) error

	// Close releases the underlying connections
	Close() error
}
