package testserver

import (
	"chat-tester/internal/storage"
	"chat-tester/internal/types"
)

// Seed fills an empty database with the rows the default fixtures expect:
// user 1 belongs to group 2 only, and group 1 already holds a message.
func Seed(store *storage.Store) error {
	if err := store.EnsureSchema(); err != nil {
		return err
	}
	db := store.DB
	if err := db.Create(&[]types.User{{Id: 1, Username: "Jett"}, {Id: 2, Username: "Sage"}}).Error; err != nil {
		return err
	}
	groups := []types.Group{
		{Id: 1, GroupName: "Sentinels"},
		{Id: 2, GroupName: "Duelists"},
		{Id: 3, GroupName: "Controllers"},
	}
	if err := db.Create(&groups).Error; err != nil {
		return err
	}
	memberships := []types.Membership{
		{UserId: 1, GroupId: 2},
		{UserId: 2, GroupId: 1},
	}
	if err := db.Create(&memberships).Error; err != nil {
		return err
	}
	return db.Create(&types.Message{GroupId: 1, UserId: 2, Message: "Hi fellow Sentinels"}).Error
}
