package feedback

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"aegisai/aegis/pkg/auth"
	"aegisai/aegis/pkg/classifier"
)

// Submission is a user feedback submission. Anonymous defaults to true;
// identity is only attached when the submitter opts out of anonymity.
type Submission struct {
	Type             string `json:"feedback_type"`
	Category         string `json:"category"`
	Content          string `json:"feedback_content"`
	Rating           int    `json:"rating"`
	Anonymous        *bool  `json:"anonymous"`
	SubmissionMethod string `json:"submission_method"`
	Platform         string `json:"platform"`
}

// Entry is a stored feedback record.
type Entry struct {
	ID        string    `json:"feedback_id"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"feedback_type"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating,omitempty"`
	Anonymous bool      `json:"anonymous"`

	// SessionID and UserRole are only set for non-anonymous feedback.
	SessionID string `json:"session_id,omitempty"`
	UserRole  string `json:"user_role,omitempty"`

	ContentLength    int    `json:"content_length"`
	SubmissionMethod string `json:"submission_method"`
	Platform         string `json:"platform"`
}

// Result is returned to the submitter.
type Result struct {
	FeedbackID     string    `json:"feedback_id"`
	Stored         bool      `json:"stored"`
	Analysis       Analysis  `json:"analysis"`
	Acknowledgment string    `json:"acknowledgment"`
	ProcessedAt    time.Time `json:"processed_at"`
}

// Store persists feedback entries.
type Store interface {
	SaveFeedback(ctx context.Context, e Entry) error
	ListFeedback(ctx context.Context) ([]Entry, error)
}

// Collector processes feedback submissions: storage, sentiment and theme
// analysis, priority assessment, and acknowledgment.
type Collector struct {
	store  Store
	rater  classifier.Rater
	logger *slog.Logger
}

// NewCollector creates a Collector.
func NewCollector(store Store, rater classifier.Rater) *Collector {
	return &Collector{
		store:  store,
		rater:  rater,
		logger: slog.Default().With("component", "feedback"),
	}
}

// Collect stores and analyzes a submission. A storage failure is reported
// in the result rather than failing the call, so the submitter still gets
// their analysis and acknowledgment.
func (c *Collector) Collect(ctx context.Context, sub Submission, sessionID string, uc *auth.UserContext) (*Result, error) {
	entry := c.buildEntry(sub, sessionID, uc)

	stored := true
	if err := c.store.SaveFeedback(ctx, entry); err != nil {
		c.logger.ErrorContext(ctx, "feedback storage failed",
			"feedback_id", entry.ID,
			"error", err,
		)
		stored = false
	}

	analysis := c.analyze(ctx, entry)

	c.logger.InfoContext(ctx, "feedback collected",
		"feedback_type", entry.Type,
		"category", entry.Category,
		"rating", entry.Rating,
		"sentiment", analysis.Sentiment.Label,
		"anonymous", entry.Anonymous,
	)

	return &Result{
		FeedbackID:     entry.ID,
		Stored:         stored,
		Analysis:       analysis,
		Acknowledgment: acknowledgment(entry.Type, entry.Rating),
		ProcessedAt:    time.Now().UTC(),
	}, nil
}

func (c *Collector) buildEntry(sub Submission, sessionID string, uc *auth.UserContext) Entry {
	anonymous := true
	if sub.Anonymous != nil {
		anonymous = *sub.Anonymous
	}

	feedbackType := sub.Type
	if feedbackType == "" {
		feedbackType = "general"
	}
	category := sub.Category
	if category == "" {
		category = "general"
	}
	method := sub.SubmissionMethod
	if method == "" {
		method = "web"
	}
	platform := sub.Platform
	if platform == "" {
		platform = "web"
	}

	entry := Entry{
		ID:               uuid.NewString(),
		Timestamp:        time.Now().UTC(),
		Type:             feedbackType,
		Category:         category,
		Content:          sub.Content,
		Rating:           sub.Rating,
		Anonymous:        anonymous,
		ContentLength:    len(sub.Content),
		SubmissionMethod: method,
		Platform:         platform,
	}

	if !anonymous {
		entry.SessionID = sessionID
		if uc != nil {
			// Only the role is retained; never the user identity.
			entry.UserRole = uc.Role
		}
	}
	return entry
}

// acknowledgment picks the response message, with rating taking precedence
// over feedback type.
func acknowledgment(feedbackType string, rating int) string {
	if rating != 0 {
		switch {
		case rating <= 2:
			return "Thank you for your feedback. We take your concerns seriously and will review them promptly."
		case rating >= 4:
			return "Thank you for your positive feedback! We're glad you're having a good experience."
		default:
			return "Thank you for your feedback. Your input helps us improve our services."
		}
	}

	switch feedbackType {
	case "bug_report":
		return "Thank you for reporting this issue. Our team will investigate and work on a resolution."
	case "feature_request":
		return "Thank you for your suggestion. We'll consider this for future development."
	case "usability":
		return "Thank you for your usability feedback. We're always working to improve the user experience."
	case "general":
		return "Thank you for taking the time to provide feedback. Your input is valuable to us."
	default:
		return "Thank you for your feedback."
	}
}
