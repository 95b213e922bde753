package schema

// SocialSubscriptionTable represents the 'social.subscription' table
type SocialSubscriptionTable struct {
	Table        string
	ID           string
	SubscriberID string
	ChannelID    string
	CreatedAt    string
}

// SocialSubscription is the schema definition for social.subscription
var SocialSubscription = SocialSubscriptionTable{
	Table:        "social.subscription",
	ID:           "id",
	SubscriberID: "subscriberid",
	ChannelID:    "channelid",
	CreatedAt:    "createdat",
}
