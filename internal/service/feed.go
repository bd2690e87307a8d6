package service

import (
	"sync"

	"github.com/SugarStoneMaster/MyMovieList/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewFeed fans newly added reviews out to WebSocket subscribers,
// keyed by movie. Slow subscribers drop messages instead of blocking
// the write path.
type ReviewFeed struct {
	mu   sync.RWMutex
	subs map[primitive.ObjectID]map[chan models.ReviewSnapshot]struct{}
}

func NewReviewFeed() *ReviewFeed {
	return &ReviewFeed{subs: make(map[primitive.ObjectID]map[chan models.ReviewSnapshot]struct{})}
}

func (f *ReviewFeed) Subscribe(movieID primitive.ObjectID) (<-chan models.ReviewSnapshot, func()) {
	ch := make(chan models.ReviewSnapshot, 8)

	f.mu.Lock()
	if f.subs[movieID] == nil {
		f.subs[movieID] = make(map[chan models.ReviewSnapshot]struct{})
	}
	f.subs[movieID][ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if set, ok := f.subs[movieID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(f.subs, movieID)
			}
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

func (f *ReviewFeed) Publish(movieID primitive.ObjectID, snap models.ReviewSnapshot) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for ch := range f.subs[movieID] {
		select {
		case ch <- snap:
		default:
		}
	}
}
