package repository

import "errors"

// Repository-level conflicts the services translate into AppErrors
var (
	ErrInsufficientCoins = errors.New("insufficient coins")
	ErrCampaignClosed    = errors.New("campaign is not accepting votes")
	ErrAlreadyReviewed   = errors.New("submission already reviewed")
)
