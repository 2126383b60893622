package worker

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/kendall-kelly/dressmaker-orders-api/config"
	"github.com/kendall-kelly/dressmaker-orders-api/queue"
)

// Service runs the asynq server that drains the notification outbox
type Service struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewService(cfg *config.Config, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.QueueEnabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	return &Service{
		server: asynq.NewServer(queue.RedisOpt(cfg), queue.ServerConfig(cfg)),
		mux:    NewMux(consumer),
	}, nil
}

func (s *Service) Name() string { return "worker" }

// Start blocks until the server stops
func (s *Service) Start(context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("worker not initialized")
	}
	return s.server.Run(s.mux)
}

func (s *Service) Stop(context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	s.server.Shutdown()
	return nil
}
