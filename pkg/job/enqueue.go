package job

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/riverqueue/river"
)

// taskArgs is the single River job kind every task travels under.
type taskArgs struct {
	Task      string          `json:"task"`
	UniqueKey string          `json:"unique_key,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func (taskArgs) Kind() string { return "filesmanager:task" }

type enqueueConfig struct {
	queue       string
	scheduledAt time.Time
	maxAttempts int
	uniqueFor   time.Duration
	uniqueKey   string
}

// EnqueueOption configures a single Enqueue call.
type EnqueueOption func(*enqueueConfig)

// InQueue routes the job to a named queue declared with WithQueue.
func InQueue(name string) EnqueueOption {
	return func(c *enqueueConfig) {
		c.queue = name
	}
}

// ScheduledIn delays the job by d.
func ScheduledIn(d time.Duration) EnqueueOption {
	return func(c *enqueueConfig) {
		c.scheduledAt = time.Now().Add(d)
	}
}

func MaxAttempts(n int) EnqueueOption {
	return func(c *enqueueConfig) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// UniqueFor skips the insert when a job with the same key was inserted
// within d.
func UniqueFor(d time.Duration, key string) EnqueueOption {
	return func(c *enqueueConfig) {
		c.uniqueFor = d
		c.uniqueKey = key
	}
}

func buildArgs(task string, payload any, opts ...EnqueueOption) (taskArgs, *river.InsertOpts, error) {
	args := taskArgs{Task: task}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return args, nil, errors.Join(ErrInvalidPayload, err)
		}
		args.Payload = raw
	}

	var cfg enqueueConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	insert := &river.InsertOpts{
		Queue:       cfg.queue,
		ScheduledAt: cfg.scheduledAt,
		MaxAttempts: cfg.maxAttempts,
	}
	if cfg.uniqueFor > 0 {
		insert.UniqueOpts = river.UniqueOpts{ByPeriod: cfg.uniqueFor, ByArgs: true}
		args.UniqueKey = cfg.uniqueKey
	}

	return args, insert, nil
}
