package model

import "time"

// Subscriptionは「subscriberがchannel（ユーザー）を購読している」関係。
type Subscription struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	SubscriberID int64     `json:"subscriber_id" gorm:"not null;uniqueIndex:idx_subscriber_channel"`
	ChannelID    int64     `json:"channel_id" gorm:"not null;uniqueIndex:idx_subscriber_channel"`
	CreatedAt    time.Time `json:"created_at"`
}
