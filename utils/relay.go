package utils

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrRelayBusy is returned when the outbound queue is full.
var ErrRelayBusy = errors.New("mail relay queue is full")

// ErrRelayClosed is returned when enqueueing after Stop.
var ErrRelayClosed = errors.New("mail relay is stopped")

// MailJob is one queued delivery. Its outcome is published exactly once on done
// after the final attempt.
type MailJob struct {
	ID      string
	To      string
	Subject string
	Body    string

	done chan error
}

// Wait blocks until the job reaches a final outcome or the timeout elapses.
// The second return is false when the job is still being retried; the caller
// may then treat the submission as accepted.
func (j *MailJob) Wait(timeout time.Duration) (error, bool) {
	select {
	case err := <-j.done:
		return err, true
	case <-time.After(timeout):
		return nil, false
	}
}

// MailRelay delivers contact messages off the request path. A single worker
// drains a bounded queue and retries each job a fixed number of times, so a
// slow or failing SMTP server cannot stall request handlers.
type MailRelay struct {
	mailer      Mailer
	jobs        chan *MailJob
	maxAttempts int
	backoff     time.Duration
	stop        chan struct{}
}

// NewMailRelay builds a relay over the given mailer. queueSize bounds the
// number of undelivered jobs; maxAttempts and backoff govern retries.
func NewMailRelay(mailer Mailer, queueSize, maxAttempts int, backoff time.Duration) *MailRelay {
	if queueSize <= 0 {
		queueSize = 64
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &MailRelay{
		mailer:      mailer,
		jobs:        make(chan *MailJob, queueSize),
		maxAttempts: maxAttempts,
		backoff:     backoff,
		stop:        make(chan struct{}),
	}
}

// Start launches the delivery worker.
func (r *MailRelay) Start() {
	go r.run()
}

// Stop shuts the worker down. Queued jobs are failed with ErrRelayClosed so no
// caller waits forever.
func (r *MailRelay) Stop() {
	close(r.stop)
}

// Enqueue queues one delivery and returns the job to wait on.
func (r *MailRelay) Enqueue(to, subject, body string) (*MailJob, error) {
	job := &MailJob{
		ID:      uuid.NewString(),
		To:      to,
		Subject: subject,
		Body:    body,
		done:    make(chan error, 1),
	}
	select {
	case <-r.stop:
		return nil, ErrRelayClosed
	case r.jobs <- job:
		return job, nil
	default:
		return nil, ErrRelayBusy
	}
}

func (r *MailRelay) run() {
	for {
		select {
		case <-r.stop:
			r.drain()
			return
		case job := <-r.jobs:
			job.done <- r.deliver(job)
		}
	}
}

// deliver attempts the job up to maxAttempts times with linear backoff.
func (r *MailRelay) deliver(job *MailJob) error {
	var err error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err = r.mailer.Send(job.To, job.Subject, job.Body)
		if err == nil {
			if Sugar != nil {
				Sugar.Infow("contact message relayed", "job_id", job.ID, "attempts", attempt)
			}
			return nil
		}
		if Sugar != nil {
			Sugar.Warnw("contact relay attempt failed", "job_id", job.ID, "attempt", attempt, "error", err)
		}
		if attempt < r.maxAttempts {
			select {
			case <-r.stop:
				return err
			case <-time.After(r.backoff * time.Duration(attempt)):
			}
		}
	}
	return err
}

func (r *MailRelay) drain() {
	for {
		select {
		case job := <-r.jobs:
			job.done <- ErrRelayClosed
		default:
			return
		}
	}
}
