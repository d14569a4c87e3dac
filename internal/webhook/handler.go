package webhook

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/cexll/devbot/internal/dispatcher"
)

// maxPayloadBytes caps webhook bodies. Review events are a few KB;
// anything near the cap is not one.
const maxPayloadBytes = 1 << 20

// FeedbackQueue queues review feedback for execution.
// *dispatcher.Dispatcher satisfies it.
type FeedbackQueue interface {
	EnqueueFeedback(branch, feedback string) error
}

// Handler handles GitHub pull_request_review webhook events. A review
// that requests changes queues a feedback run against the PR's head
// branch; everything else is acknowledged and dropped.
type Handler struct {
	secret  string
	queue   FeedbackQueue
	deduper *reviewDeduper
	logger  *log.Logger
}

// NewHandler creates a webhook handler. When secret is empty,
// signature verification is skipped.
func NewHandler(secret string, queue FeedbackQueue, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		secret:  secret,
		queue:   queue,
		deduper: newReviewDeduper(12 * time.Hour),
		logger:  logger,
	}
}

// Handle is the POST /webhook endpoint.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		h.logger.Printf("[Webhook] Error reading payload: %v", err)
		http.Error(w, "Error reading payload", http.StatusBadRequest)
		return
	}

	if h.secret != "" {
		if err := VerifySignature(payload, r.Header.Get("X-Hub-Signature-256"), h.secret); err != nil {
			h.logger.Printf("[Webhook] Signature rejected: %v", err)
			http.Error(w, "Invalid signature", http.StatusUnauthorized)
			return
		}
	}

	if eventType := r.Header.Get("X-GitHub-Event"); eventType != "" && eventType != "pull_request_review" {
		h.logger.Printf("[Webhook] Ignoring event type %s", eventType)
		h.respondOK(w)
		return
	}

	var event PullRequestReviewEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		h.logger.Printf("[Webhook] Error parsing payload: %v", err)
		http.Error(w, "Error parsing payload", http.StatusBadRequest)
		return
	}

	if event.Action != "submitted" || event.Review.State != "changes_requested" {
		h.respondOK(w)
		return
	}

	branch := event.PullRequest.Head.Ref
	if branch == "" {
		h.logger.Printf("[Webhook] Review %d has no head branch, ignoring", event.Review.ID)
		h.respondOK(w)
		return
	}

	if !h.deduper.markIfNew(event.Review.ID) {
		h.logger.Printf("[Webhook] Review %d already handled, ignoring redelivery", event.Review.ID)
		h.respondOK(w)
		return
	}

	if err := h.queue.EnqueueFeedback(branch, event.Review.Body); err != nil {
		h.deduper.forget(event.Review.ID)
		switch {
		case errors.Is(err, dispatcher.ErrQueueFull):
			h.logger.Printf("[Webhook] Queue full, rejecting review %d", event.Review.ID)
			http.Error(w, "Queue full", http.StatusTooManyRequests)
		case errors.Is(err, dispatcher.ErrQueueClosed):
			http.Error(w, "Shutting down", http.StatusServiceUnavailable)
		default:
			h.logger.Printf("[Webhook] Failed to enqueue review %d: %v", event.Review.ID, err)
			http.Error(w, "Failed to enqueue", http.StatusInternalServerError)
		}
		return
	}

	h.logger.Printf("[Webhook] Changes requested on %s#%d, feedback queued for %s",
		event.Repository.FullName, event.PullRequest.Number, branch)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	w.Write([]byte(`{"status":"queued"}`))
}

func (h *Handler) respondOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
