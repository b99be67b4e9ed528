// Package model はドメインモデルを定義する。
package model

import "time"

// Todo はユーザーが所有するタスクを表す。
// 所有者は作成時に確定し、以後移転されない。
type Todo struct {
	ID        string
	OwnerID   string
	Title     string
	Completed bool
	CreatedAt time.Time
}
