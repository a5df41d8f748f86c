// Package tagging writes a row's capture date and tags into a media file.
//
// Writer translates the loosely formatted Date cell into ExifTool's
// "YYYY:MM:DD HH:MM:SS" form, picks the tag set for pictures or QuickTime
// videos by file extension, and hands the assignments to an ExifTool client.
// ReadCaptureDate reads the current EXIF capture date back for previews.
package tagging
