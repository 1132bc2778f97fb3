package service

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/echohealth-screening-server/internal/domain"
	"github.com/echohealth-screening-server/pkg/classifier"
)

// HistoryWriter is the durable tier consumed by the orchestrator.
type HistoryWriter interface {
	Insert(ctx context.Context, record domain.ActivityRecord) (int64, error)
}

// RecentWriter is the cache tier consumed by the orchestrator.
type RecentWriter interface {
	Prepend(ctx context.Context, entry domain.RecentActivity) error
}

// Orchestrator coordinates a single assessment: remote classification first,
// deterministic local fallback on failure, then one append to the durable
// store and one prepend to the recency cache. At most one submission runs at
// a time per instance.
type Orchestrator struct {
	remote     classifier.RemoteClassifier
	engine     *RiskEngine
	normalizer *Normalizer
	history    HistoryWriter
	recent     RecentWriter
	log        *logrus.Logger

	inFlight atomic.Bool
}

// NewOrchestrator creates a new assessment orchestrator.
func NewOrchestrator(
	remote classifier.RemoteClassifier,
	engine *RiskEngine,
	normalizer *Normalizer,
	history HistoryWriter,
	recent RecentWriter,
	logger *logrus.Logger,
) *Orchestrator {
	return &Orchestrator{
		remote:     remote,
		engine:     engine,
		normalizer: normalizer,
		history:    history,
		recent:     recent,
		log:        logger,
	}
}

// Submit runs one assessment for a symptom profile and returns the canonical
// result. Error semantics:
//
//   - *domain.ValidationError: the profile is incomplete; nothing ran.
//   - domain.ErrSubmissionInFlight: another submission is still running.
//   - domain.ErrUnauthorized: the remote rejected credentials; no fallback
//     and no persistence.
//   - context errors: the caller cancelled; the result was discarded before
//     persistence.
//   - domain.ErrStorageFault: the assessment is still returned alongside the
//     error; it was computed but could not be recorded in history, and the
//     cache was left untouched.
//
// All other remote failures are absorbed by the local fallback and do not
// surface as errors.
func (o *Orchestrator) Submit(ctx context.Context, profile *domain.SymptomProfile, token string) (*domain.Assessment, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrSubmissionInFlight
	}
	defer o.inFlight.Store(false)

	requestID := uuid.NewString()
	log := o.log.WithField("request_id", requestID)

	assessment, err := o.classify(ctx, profile, token, log)
	if err != nil {
		return nil, err
	}

	// Cancellation is observed here, at the persistence boundary: a caller
	// that lost interest must not author history entries.
	if err := ctx.Err(); err != nil {
		log.Info("Submission cancelled before persistence, result discarded")
		return nil, err
	}

	if err := o.persist(ctx, assessmentRecord(assessment), log); err != nil {
		return assessment, err
	}

	return assessment, nil
}

// classify runs the remote attempt and, when eligible, the local fallback.
func (o *Orchestrator) classify(ctx context.Context, profile *domain.SymptomProfile, token string, log *logrus.Entry) (*domain.Assessment, error) {
	resp, err := o.remote.Classify(ctx, profile, token)
	if err == nil {
		assessment, nerr := o.normalizer.Normalize(resp)
		if nerr == nil {
			log.WithFields(logrus.Fields{
				"tier":  assessment.Tier,
				"score": assessment.Score,
			}).Info("Remote classification succeeded")
			return assessment, nil
		}
		err = nerr
	}

	if !domain.IsFallbackEligible(err) {
		log.WithError(err).Warn("Remote classification rejected credentials")
		return nil, err
	}

	log.WithError(err).Info("Remote classification failed, falling back to local engine")
	return o.engine.Score(profile), nil
}

// persist appends to the durable store and then the recency cache, in that
// order. A failed durable insert aborts the cache prepend so the cache never
// shows an entry absent from history; a failed prepend after a successful
// insert is tolerated because the cache is a rebuildable projection.
func (o *Orchestrator) persist(ctx context.Context, record domain.ActivityRecord, log *logrus.Entry) error {
	id, err := o.history.Insert(ctx, record)
	if err != nil {
		log.WithError(err).Error("Durable insert failed, skipping cache prepend")
		return fmt.Errorf("recording assessment: %w: %v", domain.ErrStorageFault, err)
	}

	if err := o.recent.Prepend(ctx, domain.RecentFromRecord(record)); err != nil {
		log.WithError(err).Warn("Recent-activity prepend failed after durable insert")
	} else {
		log.WithField("record_id", id).Debug("Activity recorded in both tiers")
	}

	return nil
}

// RecordUpload normalizes a remote upload-analysis result and records it in
// both tiers as an upload activity. The upload itself (encoding, transport)
// happened elsewhere; this consumes the already-resolved result.
func (o *Orchestrator) RecordUpload(ctx context.Context, resp *classifier.Response) (*domain.Assessment, error) {
	assessment, err := o.normalizer.Normalize(resp)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	record := assessmentRecord(assessment)
	record.Title = "Report Upload"
	record.Type = domain.ActivityUpload

	log := o.log.WithField("request_id", uuid.NewString())
	if err := o.persist(ctx, record, log); err != nil {
		return assessment, err
	}
	return assessment, nil
}

// RecordEvent records a non-assessment activity entry (e.g. a profile
// update) in both tiers.
func (o *Orchestrator) RecordEvent(ctx context.Context, title, description string) error {
	record := domain.ActivityRecord{
		Title:           title,
		Description:     description,
		TimestampMillis: time.Now().UnixMilli(),
		Type:            domain.ActivityOther,
	}

	log := o.log.WithField("request_id", uuid.NewString())
	return o.persist(ctx, record, log)
}

// assessmentRecord builds the durable record for a canonical assessment.
func assessmentRecord(a *domain.Assessment) domain.ActivityRecord {
	level := a.Tier.DisplayLabel()
	score := a.Score

	record := domain.ActivityRecord{
		Title:           "Symptom Check",
		Description:     fmt.Sprintf("Risk %s, score %d", level, score),
		TimestampMillis: a.CreatedAt.UnixMilli(),
		Type:            domain.ActivitySymptoms,
		RiskLevel:       &level,
		RiskScore:       &score,
	}

	if a.Probability != nil {
		percent := int(math.Round(*a.Probability * 100))
		record.RiskPercent = &percent
		record.Description = fmt.Sprintf("Risk %s, %d%%", level, percent)
	}

	return record
}
