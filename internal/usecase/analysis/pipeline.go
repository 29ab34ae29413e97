package analysis

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/johnquangdev/meeting-analysis/errors"
	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
	"github.com/johnquangdev/meeting-analysis/internal/observability"
	"github.com/johnquangdev/meeting-analysis/pkg/ai"
	"github.com/johnquangdev/meeting-analysis/pkg/jobcontext"
	"github.com/johnquangdev/meeting-analysis/pkg/logger"
)

// ProgressFunc observes stage transitions. It is called synchronously from
// the pipeline goroutine.
type ProgressFunc func(entities.Progress)

// Pipeline turns one RawInput into a MeetingAnalysis. Stages run strictly in
// order: Uploading, Transcribing, AnalyzingContent, AnalyzingSentiment,
// Finalizing, Complete.
type Pipeline struct {
	uploader    MediaUploader
	transcriber Transcriber
	content     *ContentAnalyzer
	sentiment   *SentimentAnalyzer
	poll        ai.PollPolicy
	logger      *zap.Logger
	now         func() time.Time
}

// PipelineOption customizes a Pipeline.
type PipelineOption func(*Pipeline)

// WithPollPolicy overrides the default 3 second unbounded poll policy.
func WithPollPolicy(p ai.PollPolicy) PipelineOption {
	return func(pl *Pipeline) { pl.poll = p }
}

// WithClock overrides the processing timestamp source.
func WithClock(now func() time.Time) PipelineOption {
	return func(pl *Pipeline) { pl.now = now }
}

// NewPipeline wires the providers. uploader and transcriber may be nil when
// only text inputs are processed.
func NewPipeline(uploader MediaUploader, transcriber Transcriber, completer Completer, log *zap.Logger, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		uploader:    uploader,
		transcriber: transcriber,
		content:     NewContentAnalyzer(completer),
		sentiment:   NewSentimentAnalyzer(completer),
		poll:        ai.DefaultPollPolicy(),
		logger:      logger.OrNop(log),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// runState is the mutable state owned by a single Run call.
type runState struct {
	input      *entities.RawInput
	text       string
	build      *SegmentBuildResult
	duration   *float64
	analysis   *entities.AnalysisResult
	sentiment  *entities.SentimentResult
	progress   ProgressFunc
	log        *zap.Logger
	stageStart time.Time
	stage      entities.Stage
}

func (s *runState) enter(stage entities.Stage) {
	if s.stage != "" {
		observability.ObserveStage(string(s.stage), s.stageStart)
	}
	s.stage = stage
	s.stageStart = time.Now()
	s.log.Info("Pipeline stage", zap.String("stage", string(stage)), zap.Int("percent", stage.Percent()))
	if s.progress != nil {
		s.progress(entities.ProgressOf(stage))
	}
}

// Run executes the pipeline synchronously. On any fatal error it returns a nil
// MeetingAnalysis; recoverable provider failures are replaced by fallbacks.
func (p *Pipeline) Run(ctx context.Context, input *entities.RawInput, progress ProgressFunc) (*entities.MeetingAnalysis, error) {
	if input == nil {
		return nil, appErrors.ErrInvalidArgument("input is required")
	}

	log := p.logger.With(zap.String("input_id", input.ID), zap.String("input_kind", string(input.Kind)))
	if runID, ok := jobcontext.GetRunID(ctx); ok {
		log = log.With(zap.String("run_id", runID))
	}

	st := &runState{input: input, progress: progress, log: log}

	if input.IsFile() {
		if err := p.transcribe(ctx, st); err != nil {
			return nil, err
		}
	} else {
		st.text = input.Text
	}

	st.enter(entities.StageAnalyzingContent)
	if strings.TrimSpace(st.text) == "" {
		log.Error("❌ No transcript text available for analysis")
		return nil, appErrors.ErrNoAnalyzableText()
	}
	p.analyzeContent(ctx, st)

	st.enter(entities.StageAnalyzingSentiment)
	p.analyzeSentiment(ctx, st)

	st.enter(entities.StageFinalizing)
	result := p.finalize(st)

	st.enter(entities.StageComplete)
	log.Info("✅ Meeting analysis complete",
		zap.Int("duration", result.Metadata.Duration),
		zap.Int("participants", result.Metadata.Participants),
		zap.Int("segments", len(result.Transcript.Segments)),
		zap.Int("action_items", len(result.ActionItems)),
	)
	return result, nil
}

// transcribe runs Uploading and Transcribing. Only a failure that leaves no
// usable text is fatal.
func (p *Pipeline) transcribe(ctx context.Context, st *runState) error {
	st.enter(entities.StageUploading)
	if p.uploader == nil || p.transcriber == nil {
		return appErrors.ErrInternal(nil).WithDetail("reason", "media pipeline not configured")
	}

	audioURL, err := p.uploader.Upload(ctx, st.input.DisplayName(), st.input.File, st.input.FileSize, st.input.ContentType)
	observability.RecordProviderRequest("upload", err)
	if err != nil {
		st.log.Error("❌ Failed to upload media file", zap.Error(err))
		if appErrors.CodeOf(err) != appErrors.ErrorCode_UPLOAD_FAILED {
			err = appErrors.ErrUploadFailed(err)
		}
		return err
	}
	st.log.Info("📤 Media uploaded")

	st.enter(entities.StageTranscribing)
	job, err := p.pollTranscription(ctx, st, audioURL)
	if err == nil && job.Status != entities.TranscriptionCompleted {
		err = appErrors.ErrTranscriptionFailed(string(job.Status))
	}
	if err != nil {
		if job != nil && strings.TrimSpace(job.Text) != "" {
			st.log.Warn("⚠️ Transcription failed, using partial transcript", zap.Error(err))
			observability.RecordFallback(SignalTranscript)
			st.text = job.Text
			st.duration = job.DurationSeconds
			st.build = &SegmentBuildResult{
				Segments:     []entities.Segment{WholeTranscriptSegment(job.Text, PartialSegmentConfidence)},
				SpeakerCount: 1,
				Fallback:     true,
			}
			return nil
		}
		st.log.Error("❌ Transcription failed without usable text", zap.Error(err))
		return appErrors.ErrTranscriptionUnrecoverable(err)
	}

	st.text = job.Text
	st.duration = job.DurationSeconds
	build := BuildSegments(job.Words, job.Text)
	st.build = &build
	if build.Fallback {
		observability.RecordFallback(SignalSegments)
	}
	st.log.Info("✅ Transcription completed",
		zap.Int("words", len(job.Words)),
		zap.Int("segments", len(build.Segments)),
		zap.Int("speakers", build.SpeakerCount),
	)
	return nil
}

func (p *Pipeline) pollTranscription(ctx context.Context, st *runState, audioURL string) (*entities.TranscriptionJob, error) {
	jobID, err := p.transcriber.StartJob(ctx, audioURL)
	observability.RecordProviderRequest("transcription", err)
	if err != nil {
		return nil, err
	}
	st.log.Info("🎙️ Transcription job submitted", zap.String("transcript_id", jobID))

	return ai.PollTranscript(ctx, p.transcriber, jobID, p.poll, func(job *entities.TranscriptionJob) {
		st.log.Debug("⏳ Transcription status",
			zap.String("transcript_id", jobID),
			zap.String("status", string(job.Status)),
		)
	})
}

func (p *Pipeline) analyzeContent(ctx context.Context, st *runState) {
	result, err := p.content.Analyze(ctx, st.text)
	if err != nil {
		st.log.Warn("⚠️ Content analysis failed, using fallback",
			zap.String("code", appErrors.CodeOf(err).String()),
			zap.Error(err),
		)
		observability.RecordFallback(SignalContent)
		st.analysis = entities.NewFallbackAnalysis()
		return
	}
	st.analysis = result
}

func (p *Pipeline) analyzeSentiment(ctx context.Context, st *runState) {
	result, err := p.sentiment.Analyze(ctx, st.text)
	switch {
	case err == nil:
		st.sentiment = result
	case appErrors.HasCode(err, appErrors.ErrorCode_ANALYSIS_PARSE_FAILED):
		st.log.Warn("⚠️ Sentiment reply unparseable, using neutral default", zap.Error(err))
		observability.RecordFallback(SignalSentiment)
		st.sentiment = entities.NewNeutralSentiment()
	default:
		st.log.Warn("⚠️ Sentiment request failed, using lexicon fallback", zap.Error(err))
		observability.RecordFallback(SignalSentiment)
		st.sentiment = LexiconSentiment(st.text)
	}
}

// finalize evaluates the fallback table once and assembles the result.
func (p *Pipeline) finalize(st *runState) *entities.MeetingAnalysis {
	f := finalize(finalizeInput{
		Text:             st.text,
		ProviderDuration: st.duration,
		Build:            st.build,
		Sentiment:        st.sentiment,
	})
	for _, r := range f.Resolutions {
		if !r.Primary {
			observability.RecordFallback(r.Signal)
		}
		st.log.Debug("Resolved signal", zap.String("signal", r.Signal), zap.String("source", r.Source))
	}

	sentiment := *st.sentiment
	sentiment.Normalize()
	analysis := st.analysis
	analysis.Normalize()

	return &entities.MeetingAnalysis{
		Metadata: entities.Metadata{
			FileID:       st.input.ID,
			FileName:     st.input.DisplayName(),
			ProcessedAt:  p.now().UTC(),
			Duration:     f.Duration,
			Participants: f.Participants,
		},
		Transcript: entities.Transcript{
			FullText: st.text,
			Segments: f.Segments,
			Speakers: Speakers(f.Participants),
		},
		Summary:     analysis.Summary,
		ActionItems: analysis.ActionItems,
		Decisions:   analysis.Decisions,
		Sentiment:   sentiment,
	}
}
