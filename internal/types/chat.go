package types

import "time"

// The chat schema owned by the server under test. Column names follow the
// server's tables so the same structs serve cleanup queries and JSON bodies.

type User struct {
	Id       int64  `gorm:"column:id;primaryKey" json:"id"`
	Username string `gorm:"column:username;not null" json:"username"`
}

func (User) TableName() string { return "users" }

type Group struct {
	Id        int64  `gorm:"column:id;primaryKey" json:"id"`
	GroupName string `gorm:"column:groupname;not null" json:"groupname"`
}

func (Group) TableName() string { return "groups" }

type Message struct {
	Id        int64     `gorm:"column:id;primaryKey" json:"id"`
	GroupId   int64     `gorm:"column:group_id" json:"group_id"`
	Message   string    `gorm:"column:message;not null" json:"message"`
	UserId    int64     `gorm:"column:user_id" json:"user_id"`
	Timestamp time.Time `gorm:"column:timestamp;autoCreateTime" json:"timestamp"`
}

func (Message) TableName() string { return "messages" }

// Membership links a user to a group they may read and post in.
type Membership struct {
	Id      int64 `gorm:"column:id;primaryKey" json:"id"`
	UserId  int64 `gorm:"column:user_id;not null" json:"user_id"`
	GroupId int64 `gorm:"column:group_id;not null" json:"group_id"`
}

func (Membership) TableName() string { return "users_groups" }
