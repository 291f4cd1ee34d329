package config

const (
	defaultConfigPath            = "~/.config/vidpipe/config.toml"
	defaultOutputDir             = "~/Videos/vidpipe"
	defaultLogDir                = "~/.local/share/vidpipe/logs"
	defaultStateDir              = "~/.local/share/vidpipe"
	defaultStorageDir            = "~/.local/share/vidpipe/storage"
	defaultSynthesisBackend      = "coqui"
	defaultSynthesisBinary       = "tts"
	defaultSynthesisModel        = "tts_models/en/ljspeech/vits"
	defaultCloneModel            = "tts_models/multilingual/multi-dataset/xtts_v2"
	defaultSynthesisLanguage     = "en"
	defaultSynthesisCUDA         = "auto"
	defaultSynthesisTimeout      = 300
	defaultSampleRate            = 22050
	defaultBatchSize             = 4
	defaultPauseSeconds          = 0.5
	defaultPlaceholderSeconds    = 2.0
	defaultFootageBaseURL        = "https://api.pexels.com"
	defaultFootageOrientation    = "landscape"
	defaultFootageSize           = "medium"
	defaultFootagePerPage        = 15
	defaultMinClipSeconds        = 3
	defaultMaxClipSeconds        = 45
	defaultBufferFactor          = 1.15
	defaultKeywordsPerSection    = 6
	defaultClipsPerKeyword       = 4
	defaultMinHeight             = 720
	defaultRelaxedMinHeight      = 360
	defaultRequestsPerMinute     = 60
	defaultFootageRequestTimeout = 15
	defaultDownloadTimeout       = 120
	defaultCacheTTLHours         = 24
	defaultMaxSentencesPerChunk  = 2
	defaultFallbackWordsPerChunk = 12
	defaultSectionPauseSeconds   = 0.3
	defaultPauseMode             = "inclusive"
	defaultFFmpegBinary          = "ffmpeg"
	defaultFFprobeBinary         = "ffprobe"
	defaultCompositionMode       = "overlay"
	defaultWidth                 = 1920
	defaultHeight                = 1080
	defaultFPS                   = 30
	defaultQuality               = "medium"
	defaultHardwareEncoder       = "auto"
	defaultBackgroundColor       = "0x101820"
	defaultFontColor             = "white"
	defaultFontSize              = 64
	defaultCompositionTimeout    = 1200
	defaultPipelineTimeout       = 1800
	defaultLocalStoragePrefix    = "local://"
	defaultFetchTimeout          = 120
	defaultNotifyTimeout         = 10
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

var defaultFallbackKeywords = []string{
	"business",
	"technology",
	"nature",
	"city",
	"people",
	"abstract",
	"office",
	"landscape",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:    defaultWorkDir(),
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
			StateDir:   defaultStateDir,
			StorageDir: defaultStorageDir,
		},
		Synthesis: Synthesis{
			Backend:        defaultSynthesisBackend,
			Binary:         defaultSynthesisBinary,
			DefaultModel:   defaultSynthesisModel,
			CloneModel:     defaultCloneModel,
			Language:       defaultSynthesisLanguage,
			CUDA:           defaultSynthesisCUDA,
			TimeoutSeconds: defaultSynthesisTimeout,
			SampleRate:     defaultSampleRate,
		},
		Speech: Speech{
			BatchSize:            defaultBatchSize,
			PauseBetweenSections: true,
			PauseSeconds:         defaultPauseSeconds,
			PlaceholderSeconds:   defaultPlaceholderSeconds,
		},
		Footage: Footage{
			BaseURL:            defaultFootageBaseURL,
			Orientation:        defaultFootageOrientation,
			Size:               defaultFootageSize,
			PerPage:            defaultFootagePerPage,
			MinClipSeconds:     defaultMinClipSeconds,
			MaxClipSeconds:     defaultMaxClipSeconds,
			BufferFactor:       defaultBufferFactor,
			KeywordsPerSection: defaultKeywordsPerSection,
			ClipsPerKeyword:    defaultClipsPerKeyword,
			MinHeight:          defaultMinHeight,
			RelaxedMinHeight:   defaultRelaxedMinHeight,
			FallbackKeywords:   append([]string(nil), defaultFallbackKeywords...),
			RequestsPerMinute:  defaultRequestsPerMinute,
			RequestTimeout:     defaultFootageRequestTimeout,
			DownloadTimeout:    defaultDownloadTimeout,
			CacheTTLHours:      defaultCacheTTLHours,
		},
		Subtitles: Subtitles{
			MaxSentencesPerChunk:  defaultMaxSentencesPerChunk,
			FallbackWordsPerChunk: defaultFallbackWordsPerChunk,
			SectionPauseSeconds:   defaultSectionPauseSeconds,
			PauseMode:             defaultPauseMode,
		},
		Composition: Composition{
			FFmpegBinary:    defaultFFmpegBinary,
			FFprobeBinary:   defaultFFprobeBinary,
			Mode:            defaultCompositionMode,
			Width:           defaultWidth,
			Height:          defaultHeight,
			FPS:             defaultFPS,
			Quality:         defaultQuality,
			HardwareEncoder: defaultHardwareEncoder,
			BackgroundColor: defaultBackgroundColor,
			FontColor:       defaultFontColor,
			FontSize:        defaultFontSize,
			TimeoutSeconds:  defaultCompositionTimeout,
		},
		Pipeline: Pipeline{
			TimeoutSeconds:     defaultPipelineTimeout,
			LocalStoragePrefix: defaultLocalStoragePrefix,
			FetchTimeout:       defaultFetchTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			OnSuccess:      true,
			OnFailure:      true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
