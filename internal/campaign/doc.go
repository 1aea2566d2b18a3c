// Package campaign models the on-disk layout of a campaign: its audio and
// transcripts folders, repository file, dictionary files, and the filename
// conventions for session artifacts.
package campaign
