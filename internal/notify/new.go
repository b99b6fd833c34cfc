package notify

import (
	"sync"

	"github.com/nguyentantai21042004/dirwatch/internal/logger"
)

type implPublisher struct {
	logger    logger.Logger
	mu        sync.RWMutex
	listeners []Listener
}

// New creates an empty Publisher
func New(log logger.Logger) Publisher {
	return &implPublisher{
		logger: log,
	}
}
