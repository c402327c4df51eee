package activityservice

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sushihentaime/bloglist/internal/common"
)

// Activity is a domain event as received from the broker. Which fields are set depends on
// Kind.
type Activity struct {
	Kind     string    `json:"kind"`
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username,omitempty"`
	Title    string    `json:"title,omitempty"`
	UserID   uuid.UUID `json:"user_id"`
	At       time.Time `json:"at"`
}

// Feed holds the most recent activities, oldest ones dropped first.
type Feed struct {
	mu    sync.RWMutex
	items []Activity
	next  int
	full  bool
}

type ActivityService struct {
	mb     common.MessageConsumer
	feed   *Feed
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}
