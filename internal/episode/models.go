package episode

// Stage names one step of the per-episode pipeline.
type Stage string

const (
	StageNormalize   Stage = "normalize"
	StageTranscribe  Stage = "transcribe"
	StageTextProcess Stage = "text_process"
	StageSummarize   Stage = "summarize"
	StageChapters    Stage = "chapters"
	StageSubtitle    Stage = "subtitle"
)

// StageOrder is the canonical execution order. The last three stages are
// independent of one another; each only requires a processed transcript.
var StageOrder = []Stage{
	StageNormalize,
	StageTranscribe,
	StageTextProcess,
	StageSummarize,
	StageChapters,
	StageSubtitle,
}

var stagePrereq = map[Stage]Stage{
	StageTranscribe:  StageNormalize,
	StageTextProcess: StageTranscribe,
	StageSummarize:   StageTextProcess,
	StageChapters:    StageTextProcess,
	StageSubtitle:    StageTextProcess,
}

// Valid reports whether s names a known stage.
func (s Stage) Valid() bool {
	for _, stage := range StageOrder {
		if stage == s {
			return true
		}
	}
	return false
}

// Prerequisite returns the stage that must be complete before s can run.
func Prerequisite(s Stage) (Stage, bool) {
	prereq, ok := stagePrereq[s]
	return prereq, ok
}

// ProcessingStatus mirrors one row of the processing_status table.
type ProcessingStatus struct {
	EpisodeID          int64
	Normalized         bool
	Transcribed        bool
	TextProcessed      bool
	Summarized         bool
	ChaptersGenerated  bool
	SubtitlesGenerated bool
	LastProcessed      string
}

// Done reports whether the given stage has completed for this episode.
func (p ProcessingStatus) Done(stage Stage) bool {
	switch stage {
	case StageNormalize:
		return p.Normalized
	case StageTranscribe:
		return p.Transcribed
	case StageTextProcess:
		return p.TextProcessed
	case StageSummarize:
		return p.Summarized
	case StageChapters:
		return p.ChaptersGenerated
	case StageSubtitle:
		return p.SubtitlesGenerated
	}
	return false
}

// Ready reports whether the stage's prerequisite is satisfied.
func (p ProcessingStatus) Ready(stage Stage) bool {
	prereq, ok := stagePrereq[stage]
	if !ok {
		return true
	}
	return p.Done(prereq)
}

// NextStage returns the first incomplete stage whose prerequisite is
// satisfied. ok is false when every stage has completed.
func (p ProcessingStatus) NextStage() (Stage, bool) {
	for _, stage := range StageOrder {
		if !p.Done(stage) && p.Ready(stage) {
			return stage, true
		}
	}
	return "", false
}

// Complete reports whether every stage has run.
func (p ProcessingStatus) Complete() bool {
	_, more := p.NextStage()
	return !more
}

// Violations lists stages recorded as complete whose prerequisite is not.
// A healthy repository returns nothing here.
func (p ProcessingStatus) Violations() []Stage {
	var out []Stage
	for _, stage := range StageOrder {
		if p.Done(stage) && !p.Ready(stage) {
			out = append(out, stage)
		}
	}
	return out
}

// Record is one catalog row joined with its processing status.
type Record struct {
	ID                   int64
	EpisodeNumber        int
	SeasonNumber         int
	Title                string
	BaseEpisodeTitle     string
	RecordedDate         string
	SourceFile           string
	NormalizedAudioFile  string
	TranscriptionFile    string
	SummaryFile          string
	ChaptersFile         string
	SubtitleFile         string
	EpisodeLengthSeconds int
	NormalizedBitrate    int
	TranscribedModel     string
	TranscribedDate      string
	SummarizedModel      string
	SummarizedDate       string
	Metadata             map[string]string
	CreatedAt            string
	UpdatedAt            string
	Status               ProcessingStatus
}

// StageResult carries what a completed stage produced. Fields irrelevant to
// the stage are left zero.
type StageResult struct {
	Stage           Stage
	ArtifactPath    string
	Model           string
	Bitrate         int
	DurationSeconds int
}
