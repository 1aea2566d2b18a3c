package config

const (
	defaultWorkingDirectory    = "~/sessions"
	defaultRecentFileDays      = 7
	defaultFFmpegBinary        = "ffmpeg"
	defaultFFprobeBinary       = "ffprobe"
	defaultTargetSizeMB        = 50
	defaultMinBitrateKbps      = 64
	defaultSampleRate          = 44100
	defaultArtistName          = "Unknown Artist"
	defaultGenre               = "Podcast"
	defaultTranscriptionBinary = "whisper-ctranslate2"
	defaultTranscriptionModel  = "base.en"
	defaultTranscriptionLang   = "en"
	defaultBeamSize            = 5
	defaultTranscriptionDevice = "cpu"
	defaultSummarizerBaseURL   = "https://generativelanguage.googleapis.com/v1beta"
	defaultSummarizerModel     = "gemini-1.5-flash"
	defaultSummarizerTimeout   = 120
	defaultSummarizerRetries   = 3
	defaultSummarySkipMinutes  = 0
	defaultCorrectionThreshold = 90.0
	defaultLogLevel            = "info"
	defaultLogFormat           = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		General: General{
			WorkingDirectory:         defaultWorkingDirectory,
			SupportedAudioExtensions: []string{".wav", ".m4a", ".flac", ".mp3"},
			RecentFileDays:           defaultRecentFileDays,
		},
		Audio: Audio{
			FFmpegBinary:   defaultFFmpegBinary,
			FFprobeBinary:  defaultFFprobeBinary,
			TargetSizeMB:   defaultTargetSizeMB,
			MinBitrateKbps: defaultMinBitrateKbps,
			SampleRate:     defaultSampleRate,
			ArtistName:     defaultArtistName,
			Genre:          defaultGenre,
		},
		Transcription: Transcription{
			Binary:   defaultTranscriptionBinary,
			Model:    defaultTranscriptionModel,
			Language: defaultTranscriptionLang,
			BeamSize: defaultBeamSize,
			Device:   defaultTranscriptionDevice,
		},
		Summarizer: Summarizer{
			BaseURL:        defaultSummarizerBaseURL,
			Model:          defaultSummarizerModel,
			TimeoutSeconds: defaultSummarizerTimeout,
			MaxRetries:     defaultSummarizerRetries,
			SkipMinutes:    defaultSummarySkipMinutes,
		},
		Dictionaries: Dictionaries{
			CorrectionThreshold: defaultCorrectionThreshold,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
