package database

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS Users (
		login    varchar(50) PRIMARY KEY,
		password varchar(50) NOT NULL,
		phoneNum varchar(16),
		favItems text NOT NULL DEFAULT '',
		type     varchar(8) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS Menu (
		itemName    varchar(50) PRIMARY KEY,
		type        varchar(20) NOT NULL,
		price       numeric(6,2) NOT NULL CHECK (price >= 0),
		description text NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS Orders (
		orderID   serial PRIMARY KEY,
		login     varchar(50) NOT NULL REFERENCES Users(login),
		paid      boolean NOT NULL DEFAULT false,
		timeStamp timestamp NOT NULL DEFAULT now(),
		total     numeric(8,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ItemStatus (
		orderID  integer NOT NULL REFERENCES Orders(orderID),
		itemName varchar(50) NOT NULL REFERENCES Menu(itemName) ON UPDATE CASCADE,
		status   varchar(20) NOT NULL,
		comments varchar(130) NOT NULL DEFAULT '',
		PRIMARY KEY (orderID, itemName)
	)`,
}

// EnsureSchema creates the cafe tables when they are missing. Existing tables
// are left untouched.
func EnsureSchema(ctx context.Context, ex Executor) error {
	for i, stmt := range schema {
		if _, err := ex.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
