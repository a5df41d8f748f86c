package config

const (
	defaultLogDir              = "~/.local/share/mediasort/logs"
	defaultHistoryDBName       = "history.db"
	defaultExifToolBinary      = "exiftool"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultPicturesDir         = "~/Pictures"
	defaultPicturesTable       = "~/Pictures/pictures.md"
	defaultPicturesExtension   = "jpg"
	defaultPicturesErrorFile   = "picture_errors.txt"
	defaultVideosDir           = "~/Videos"
	defaultVideosTable         = "~/Videos/videos.md"
	defaultVideosExtension     = "mp4"
	defaultVideosErrorFile     = "video_errors.txt"
	defaultOverwriteOriginal   = true
	defaultFailOnRowErrors     = true
	defaultHistoryEnabled      = true
	defaultOrganizeOnTagFailed = false
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Pictures: Profile{
			Table:          defaultPicturesTable,
			SourceDir:      defaultPicturesDir,
			DestinationDir: defaultPicturesDir,
			Extension:      defaultPicturesExtension,
			ErrorFile:      defaultPicturesErrorFile,
		},
		Videos: Profile{
			Table:          defaultVideosTable,
			SourceDir:      defaultVideosDir,
			DestinationDir: defaultVideosDir,
			Extension:      defaultVideosExtension,
			ErrorFile:      defaultVideosErrorFile,
		},
		ExifTool: ExifTool{
			Binary:            defaultExifToolBinary,
			OverwriteOriginal: defaultOverwriteOriginal,
		},
		Policy: Policy{
			OrganizeOnTagFailure: defaultOrganizeOnTagFailed,
			FailOnRowErrors:      defaultFailOnRowErrors,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
