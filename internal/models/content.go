package models

import "time"

// Post is owned by the content service; attached to users for reads only.
type Post struct {
	ID        string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	UserID    string    `gorm:"index;size:36;not null" bson:"userId" json:"userId"`
	Title     string    `bson:"title" json:"title"`
	Body      string    `bson:"body" json:"body"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (Post) TableName() string {
	return "posts"
}

// Comment is owned by the content service; attached to users for reads only.
type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	UserID    string    `gorm:"index;size:36;not null" bson:"userId" json:"userId"`
	PostID    string    `gorm:"index;size:36" bson:"postId" json:"postId"`
	Body      string    `bson:"body" json:"body"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (Comment) TableName() string {
	return "comments"
}
