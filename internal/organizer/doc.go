// Package organizer files a tagged media file into its area folder under its
// suggested name.
//
// Folder and file names pass through textutil.SanitizeFileName, folders are
// created on demand, and a move never overwrites a different existing file.
// Moves across filesystems fall back to a verified copy followed by removal of
// the source, so a failure at any point leaves the original file in place.
package organizer
