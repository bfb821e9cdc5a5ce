package models

import "time"

type Outcome struct {
	ID            int64
	Address       string
	FromChainID   uint64
	TargetChainID uint64
	Outcome       string
	Reason        string
	Error         string
	CreatedAt     time.Time
}
