package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sessionscribe/internal/campaign"
	"sessionscribe/internal/episode"
	"sessionscribe/internal/services"
	"sessionscribe/internal/services/ffmpeg"
	"sessionscribe/internal/services/gemini"
	"sessionscribe/internal/services/whisper"
)

func (p *Pipeline) executeStage(ctx context.Context, rec *episode.Record, stage episode.Stage) (episode.StageResult, error) {
	switch stage {
	case episode.StageNormalize:
		return p.runNormalize(ctx, rec)
	case episode.StageTranscribe:
		return p.runTranscribe(ctx, rec)
	case episode.StageTextProcess:
		return p.runTextProcess(ctx, rec)
	case episode.StageSummarize:
		return p.runSummarize(ctx, rec)
	case episode.StageChapters:
		return p.runChapters(ctx, rec)
	case episode.StageSubtitle:
		return p.runSubtitle(ctx, rec)
	}
	return episode.StageResult{}, fmt.Errorf("unknown stage %q", stage)
}

func (p *Pipeline) normalizeFile(ctx context.Context, sourceAbs, title, recordedDate string, track int) (*ffmpeg.NormalizeResult, error) {
	date, err := time.Parse(recordedDateLayout, recordedDate)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "normalize", "",
			fmt.Sprintf("unparseable recorded date %q", recordedDate), err)
	}
	audioDir, err := p.camp.EnsureAudioDir()
	if err != nil {
		return nil, err
	}
	outputPath := filepath.Join(audioDir, campaign.NormalizedAudioName(date, title))
	return p.transcoder.Normalize(ctx, ffmpeg.NormalizeRequest{
		InputPath:      sourceAbs,
		OutputPath:     outputPath,
		Title:          title,
		Artist:         p.cfg.Audio.ArtistName,
		Album:          p.camp.Name(),
		Genre:          p.cfg.Audio.Genre,
		Track:          track,
		Date:           recordedDate,
		SampleRate:     p.cfg.Audio.SampleRate,
		TargetSizeMB:   p.cfg.Audio.TargetSizeMB,
		MinBitrateKbps: p.cfg.Audio.MinBitrateKbps,
	})
}

func (p *Pipeline) runNormalize(ctx context.Context, rec *episode.Record) (episode.StageResult, error) {
	res, err := p.normalizeFile(ctx, p.camp.Abs(rec.SourceFile), rec.Title, rec.RecordedDate, rec.EpisodeNumber)
	if err != nil {
		return episode.StageResult{}, err
	}
	return episode.StageResult{
		Stage:           episode.StageNormalize,
		ArtifactPath:    p.camp.Rel(res.OutputPath),
		Bitrate:         res.BitrateKbps,
		DurationSeconds: res.DurationSeconds,
	}, nil
}

func (p *Pipeline) runTranscribe(ctx context.Context, rec *episode.Record) (episode.StageResult, error) {
	if rec.NormalizedAudioFile == "" {
		return episode.StageResult{}, services.Wrap(services.ErrValidation, "transcribe", "",
			"no normalized audio recorded", nil)
	}
	transcriptsDir, err := p.camp.EnsureTranscriptsDir()
	if err != nil {
		return episode.StageResult{}, err
	}
	if _, err := p.transcriber.Transcribe(ctx,
		p.camp.Abs(rec.NormalizedAudioFile), transcriptsDir, p.dict.Words(),
	); err != nil {
		return episode.StageResult{}, err
	}
	return episode.StageResult{
		Stage: episode.StageTranscribe,
		Model: p.transcriber.Model(),
	}, nil
}

func (p *Pipeline) runTextProcess(ctx context.Context, rec *episode.Record) (episode.StageResult, error) {
	transcriptsDir, base, err := p.artifactBase(rec)
	if err != nil {
		return episode.StageResult{}, err
	}
	segments, err := whisper.ReadTSV(filepath.Join(transcriptsDir, campaign.RawTranscriptName(base)))
	if err != nil {
		return episode.StageResult{}, err
	}
	for i := range segments {
		segments[i].Text = p.engine.CorrectText(segments[i].Text)
	}

	header := TranscriptHeader(rec.Title, rec.EpisodeNumber, rec.RecordedDate)
	outputPath := filepath.Join(transcriptsDir, campaign.RevisedTranscriptName(base))
	if err := os.WriteFile(outputPath, []byte(RenderTranscript(header, segments)), 0o644); err != nil {
		return episode.StageResult{}, fmt.Errorf("write revised transcript: %w", err)
	}
	return episode.StageResult{
		Stage:        episode.StageTextProcess,
		ArtifactPath: p.camp.Rel(outputPath),
	}, nil
}

func (p *Pipeline) runSummarize(ctx context.Context, rec *episode.Record) (episode.StageResult, error) {
	transcript, err := p.readTranscript(rec)
	if err != nil {
		return episode.StageResult{}, err
	}
	body := TranscriptAfter(transcript, p.cfg.Summarizer.SkipMinutes)
	summary, err := p.summarizer.Generate(ctx, gemini.SummaryPrompt(body))
	if err != nil {
		return episode.StageResult{}, err
	}

	transcriptsDir, base, err := p.artifactBase(rec)
	if err != nil {
		return episode.StageResult{}, err
	}
	outputPath := filepath.Join(transcriptsDir, campaign.SummaryName(base))
	if err := os.WriteFile(outputPath, []byte(summary+"\n"), 0o644); err != nil {
		return episode.StageResult{}, fmt.Errorf("write summary: %w", err)
	}
	return episode.StageResult{
		Stage:        episode.StageSummarize,
		ArtifactPath: p.camp.Rel(outputPath),
		Model:        p.summarizer.Model(),
	}, nil
}

func (p *Pipeline) runChapters(ctx context.Context, rec *episode.Record) (episode.StageResult, error) {
	transcript, err := p.readTranscript(rec)
	if err != nil {
		return episode.StageResult{}, err
	}
	chapters, err := p.summarizer.Generate(ctx, gemini.ChaptersPrompt(transcript))
	if err != nil {
		return episode.StageResult{}, err
	}

	transcriptsDir, base, err := p.artifactBase(rec)
	if err != nil {
		return episode.StageResult{}, err
	}
	outputPath := filepath.Join(transcriptsDir, campaign.ChaptersName(base))
	if err := os.WriteFile(outputPath, []byte(chapters+"\n"), 0o644); err != nil {
		return episode.StageResult{}, fmt.Errorf("write chapters: %w", err)
	}
	return episode.StageResult{
		Stage:        episode.StageChapters,
		ArtifactPath: p.camp.Rel(outputPath),
	}, nil
}

func (p *Pipeline) runSubtitle(ctx context.Context, rec *episode.Record) (episode.StageResult, error) {
	summary := ""
	if rec.SummaryFile != "" {
		data, err := os.ReadFile(p.camp.Abs(rec.SummaryFile))
		if err != nil {
			return episode.StageResult{}, fmt.Errorf("read summary: %w", err)
		}
		summary = string(data)
	} else {
		transcript, err := p.readTranscript(rec)
		if err != nil {
			return episode.StageResult{}, err
		}
		body := TranscriptAfter(transcript, p.cfg.Summarizer.SkipMinutes)
		summary, err = p.summarizer.Generate(ctx, gemini.SummaryPrompt(body))
		if err != nil {
			return episode.StageResult{}, err
		}
	}

	subtitle, err := p.summarizer.Generate(ctx, gemini.SubtitlePrompt(summary))
	if err != nil {
		return episode.StageResult{}, err
	}

	transcriptsDir, base, err := p.artifactBase(rec)
	if err != nil {
		return episode.StageResult{}, err
	}
	outputPath := filepath.Join(transcriptsDir, campaign.SubtitleName(base))
	if err := os.WriteFile(outputPath, []byte(subtitle+"\n"), 0o644); err != nil {
		return episode.StageResult{}, fmt.Errorf("write subtitle: %w", err)
	}
	return episode.StageResult{
		Stage:        episode.StageSubtitle,
		ArtifactPath: p.camp.Rel(outputPath),
	}, nil
}

func (p *Pipeline) artifactBase(rec *episode.Record) (string, string, error) {
	if rec.NormalizedAudioFile == "" {
		return "", "", services.Wrap(services.ErrValidation, "", "",
			"no normalized audio recorded", nil)
	}
	transcriptsDir, err := p.camp.EnsureTranscriptsDir()
	if err != nil {
		return "", "", err
	}
	return transcriptsDir, campaign.TranscriptBase(rec.NormalizedAudioFile), nil
}

func (p *Pipeline) readTranscript(rec *episode.Record) (string, error) {
	if rec.TranscriptionFile == "" {
		return "", services.Wrap(services.ErrValidation, "summarize", "",
			"no processed transcript recorded", nil)
	}
	data, err := os.ReadFile(p.camp.Abs(rec.TranscriptionFile))
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	return string(data), nil
}
