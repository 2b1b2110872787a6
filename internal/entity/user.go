package entity

import (
	"fmt"

	"github.com/mbeoliero/concord/pkg/constant"
)

// User represents a registered account
type User struct {
	Id            int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Username      string `json:"username" gorm:"column:username;uniqueIndex:idx_username_tag;size:32"`
	Discriminator string `json:"discriminator" gorm:"column:discriminator;uniqueIndex:idx_username_tag;size:4"`
	Email         string `json:"email" gorm:"column:email;uniqueIndex;size:255"`
	Password      string `json:"-" gorm:"column:password"`
	Avatar        string `json:"avatar" gorm:"column:avatar"`
	Bio           string `json:"bio" gorm:"column:bio;size:500"`
	ManualStatus  string `json:"manual_status" gorm:"column:manual_status;size:20"`
	LastActivity  int64  `json:"last_activity" gorm:"column:last_activity"`
	CreatedAt     int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt     int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// DisplayName returns the tagged name, e.g. "alice#1234"
func (u *User) DisplayName() string {
	return fmt.Sprintf("%s#%s", u.Username, u.Discriminator)
}

// IsInvisible reports whether the user suppresses presence broadcasts
func (u *User) IsInvisible() bool {
	return u.ManualStatus == constant.StatusInvisible
}

// UserBrief is the sender view embedded in pushed events and lists
type UserBrief struct {
	Id          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
}

// Brief converts a User to its UserBrief view
func (u *User) Brief() *UserBrief {
	return &UserBrief{
		Id:          u.Id,
		Username:    u.Username,
		DisplayName: u.DisplayName(),
		Avatar:      u.Avatar,
	}
}

// Friendship represents a friend relation request between two users
type Friendship struct {
	Id         int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	FromUserId int64  `json:"from_user_id" gorm:"column:from_user_id;uniqueIndex:idx_friend_pair"`
	ToUserId   int64  `json:"to_user_id" gorm:"column:to_user_id;uniqueIndex:idx_friend_pair"`
	Status     string `json:"status" gorm:"column:status;size:20"`
	CreatedAt  int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt  int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Friendship
func (Friendship) TableName() string {
	return "friendships"
}

// IsAccepted reports whether the friendship has been accepted
func (f *Friendship) IsAccepted() bool {
	return f.Status == constant.FriendshipAccepted
}
